package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	"github.com/angelmondragon/gradevault-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	lowStockJobName     = "low_stock_scan"
	defaultSnapshotTTL  = time.Hour
	maxLoggedLowStockID = 50
)

type lowStockReader interface {
	LowStock(ctx context.Context) ([]models.StockItem, error)
}

type snapshotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	LowStockKey() string
}

// LowStockSnapshot is the JSON document stored after each scan.
type LowStockSnapshot struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Count       int         `json:"count"`
	ItemIDs     []uuid.UUID `json:"item_ids"`
}

type LowStockJobParams struct {
	Logger      *logger.Logger
	Stock       lowStockReader
	Store       snapshotStore
	SnapshotTTL time.Duration
}

func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock reader required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	ttl := params.SnapshotTTL
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &lowStockJob{
		logg:  params.Logger,
		stock: params.Stock,
		store: params.Store,
		ttl:   ttl,
		now:   time.Now,
	}, nil
}

type lowStockJob struct {
	logg  *logger.Logger
	stock lowStockReader
	store snapshotStore
	ttl   time.Duration
	now   func() time.Time
}

func (j *lowStockJob) Name() string { return lowStockJobName }

func (j *lowStockJob) Run(ctx context.Context) error {
	low, err := j.stock.LowStock(ctx)
	if err != nil {
		return fmt.Errorf("load low stock: %w", err)
	}

	snapshot := LowStockSnapshot{
		GeneratedAt: j.now().UTC(),
		Count:       len(low),
		ItemIDs:     make([]uuid.UUID, 0, len(low)),
	}
	for _, item := range low {
		snapshot.ItemIDs = append(snapshot.ItemIDs, item.ID)
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := j.store.Set(ctx, j.store.LowStockKey(), payload, j.ttl); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}

	logged := snapshot.ItemIDs
	if len(logged) > maxLoggedLowStockID {
		logged = logged[:maxLoggedLowStockID]
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"low_stock_count": snapshot.Count,
		"low_stock_ids":   logged,
	})
	j.logg.Info(logCtx, "stock.low_stock_scan.completed")
	return nil
}
