package stock

import (
	"context"

	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	importBatchSize = 500
	lowStockClause  = "stock_items.stock_count <= COALESCE(stock_items.low_stock_threshold, ?)"
)

// Repository persists stock items.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns items newest first. lowOnly keeps items at or below their
// effective threshold. A non-positive limit reads every row.
func (r *Repository) List(ctx context.Context, lowOnly bool, limit int) ([]models.StockItem, error) {
	qb := r.db.WithContext(ctx).Model(&models.StockItem{})
	if lowOnly {
		qb = qb.Where(lowStockClause, models.DefaultLowStockThreshold)
	}
	qb = qb.Order("stock_items.created_at DESC")
	if limit > 0 {
		qb = qb.Limit(limit)
	}

	var items []models.StockItem
	if err := qb.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) Create(ctx context.Context, item *models.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// CreateBatch inserts items in chunks. Callers wrap it in a transaction when
// the batch must land atomically.
func (r *Repository) CreateBatch(ctx context.Context, items []models.StockItem) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).CreateInBatches(&items, importBatchSize)
	return res.RowsAffected, res.Error
}

func (r *Repository) Save(ctx context.Context, item *models.StockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete hard-deletes the item and reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.StockItem{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
