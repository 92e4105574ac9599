package stock

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/angelmondragon/gradevault-backend/pkg/db"
	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
	"github.com/angelmondragon/gradevault-backend/pkg/logger"
	"github.com/angelmondragon/gradevault-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes admin stock management.
type Service interface {
	List(ctx context.Context, input ListInput) ([]ItemDTO, error)
	Create(ctx context.Context, input CreateInput) (*ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkImport(ctx context.Context, rows []Row) (*ImportResult, error)
	Export(ctx context.Context) ([]ExportRow, error)
	LowStock(ctx context.Context) ([]models.StockItem, error)
}

// ListInput filters the admin stock list.
type ListInput struct {
	LowOnly bool
	Limit   int
}

// CreateInput holds a validated single-item payload.
type CreateInput struct {
	Title             string
	Description       string
	Price             decimal.Decimal
	StockCount        int
	Category          string
	Condition         string
	Images            []string
	LowStockThreshold *int
}

// UpdateInput holds optional mutation values.
type UpdateInput struct {
	Title             *string
	Description       *string
	Price             *decimal.Decimal
	StockCount        *int
	Category          *string
	Condition         *string
	Images            *[]string
	LowStockThreshold *int

	// ClearLowStockThreshold drops the item's own threshold so the default
	// applies again. It wins over LowStockThreshold.
	ClearLowStockThreshold bool
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo          *Repository
	tx            txRunner
	logg          *logger.Logger
	maxImportRows int
}

// NewService builds the stock service. maxImportRows bounds bulk imports.
func NewService(repo *Repository, tx txRunner, logg *logger.Logger, maxImportRows int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if maxImportRows <= 0 {
		return nil, fmt.Errorf("max import rows must be positive")
	}
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "stock", Output: io.Discard})
	}
	return &service{repo: repo, tx: tx, logg: logg, maxImportRows: maxImportRows}, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]ItemDTO, error) {
	items, err := s.repo.List(ctx, input.LowOnly, pagination.NormalizeLimit(input.Limit))
	if err != nil {
		return nil, pkgerrors.WrapStorage(err, "db: list stock items")
	}
	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, NewItemDTO(item))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ItemDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if err := validateAmounts(&input.Price, &input.StockCount, input.LowStockThreshold); err != nil {
		return nil, err
	}

	item := &models.StockItem{
		Title:             title,
		Description:       strings.TrimSpace(input.Description),
		Price:             input.Price,
		StockCount:        input.StockCount,
		Category:          strings.TrimSpace(input.Category),
		Condition:         strings.TrimSpace(input.Condition),
		Images:            pq.StringArray(append([]string{}, input.Images...)),
		LowStockThreshold: input.LowStockThreshold,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.WrapStorage(err, "db: insert stock item")
	}
	dto := NewItemDTO(*item)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ItemDTO, error) {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be blank")
	}
	if err := validateAmounts(input.Price, input.StockCount, input.LowStockThreshold); err != nil {
		return nil, err
	}

	var updated models.StockItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		item, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
			}
			return pkgerrors.WrapStorage(err, "db: load stock item")
		}
		applyUpdate(item, input)
		if err := txRepo.Save(ctx, item); err != nil {
			return pkgerrors.WrapStorage(err, "db: update stock item")
		}
		updated = *item
		return nil
	})
	if err != nil {
		return nil, pkgerrors.WrapStorage(err, "update stock item")
	}
	dto := NewItemDTO(updated)
	return &dto, nil
}

func applyUpdate(item *models.StockItem, input UpdateInput) {
	if input.Title != nil {
		item.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.StockCount != nil {
		item.StockCount = *input.StockCount
	}
	if input.Category != nil {
		item.Category = strings.TrimSpace(*input.Category)
	}
	if input.Condition != nil {
		item.Condition = strings.TrimSpace(*input.Condition)
	}
	if input.Images != nil {
		item.Images = pq.StringArray(append([]string{}, (*input.Images)...))
	}
	switch {
	case input.ClearLowStockThreshold:
		item.LowStockThreshold = nil
	case input.LowStockThreshold != nil:
		threshold := *input.LowStockThreshold
		item.LowStockThreshold = &threshold
	}
}

func validateAmounts(price *decimal.Decimal, count *int, threshold *int) error {
	if price != nil && price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if count != nil && *count < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock_count must be non-negative")
	}
	if threshold != nil && *threshold < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "low_stock_threshold must be non-negative")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.WrapStorage(err, "db: delete stock item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
	}
	return nil
}

// BulkImport validates every row before writing anything, then inserts the
// whole batch in one transaction.
func (s *service) BulkImport(ctx context.Context, rows []Row) (*ImportResult, error) {
	items, err := ValidateBatch(rows, s.maxImportRows)
	if err != nil {
		return nil, err
	}

	var created int64
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).CreateBatch(ctx, items)
		if err != nil {
			return err
		}
		created = n
		return nil
	}); err != nil {
		return nil, pkgerrors.WrapStorage(err, "db: bulk import stock items")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"created": created})
	if low, err := s.LowStock(ctx); err != nil {
		s.logg.Error(logCtx, "stock.bulk_import.low_stock_failed", err)
	} else {
		logCtx = s.logg.WithField(logCtx, "low_stock_count", len(low))
	}
	s.logg.Info(logCtx, "stock.bulk_import.completed")

	return &ImportResult{
		Message: fmt.Sprintf("Successfully imported %d items", created),
		Created: int(created),
	}, nil
}

func (s *service) Export(ctx context.Context) ([]ExportRow, error) {
	items, err := s.repo.List(ctx, false, 0)
	if err != nil {
		return nil, pkgerrors.WrapStorage(err, "db: export stock items")
	}
	out := make([]ExportRow, 0, len(items))
	for _, item := range items {
		out = append(out, NewExportRow(item))
	}
	return out, nil
}

// LowStock reloads the full inventory and returns the low-stock partition.
func (s *service) LowStock(ctx context.Context) ([]models.StockItem, error) {
	items, err := s.repo.List(ctx, false, 0)
	if err != nil {
		return nil, pkgerrors.WrapStorage(err, "db: load stock items")
	}
	low, _ := Partition(items)
	return low, nil
}
