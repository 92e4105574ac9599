package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultLowStockThreshold applies when an item carries no threshold of its own.
const DefaultLowStockThreshold = 5

// StockItem is fixed-price inventory with a quantity on hand.
type StockItem struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Title             string          `gorm:"column:title;not null"`
	Description       string          `gorm:"column:description;not null;default:''"`
	Price             decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	StockCount        int             `gorm:"column:stock_count;not null;default:0"`
	Category          string          `gorm:"column:category;not null;default:''"`
	Condition         string          `gorm:"column:condition;not null;default:''"`
	Images            pq.StringArray  `gorm:"column:images;type:text[];not null;default:'{}'"`
	LowStockThreshold *int            `gorm:"column:low_stock_threshold"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *StockItem) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	if s.Images == nil {
		s.Images = pq.StringArray{}
	}
	return nil
}

// EffectiveThreshold resolves the item's threshold, defaulting when unset.
func (s StockItem) EffectiveThreshold() int {
	if s.LowStockThreshold == nil {
		return DefaultLowStockThreshold
	}
	return *s.LowStockThreshold
}
