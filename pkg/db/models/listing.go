package models

import (
	"errors"
	"time"

	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrCurrentBelowStarting rejects a listing whose opening price is above its current price.
var ErrCurrentBelowStarting = errors.New("current price must be at least the starting price")

// Listing is an auction. BidCount is derived from bids at read time and never stored.
type Listing struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Title         string              `gorm:"column:title;not null"`
	Description   string              `gorm:"column:description;not null;default:''"`
	CategoryID    uuid.UUID           `gorm:"column:category_id;type:uuid;not null;index"`
	Category      *Category           `gorm:"foreignKey:CategoryID"`
	Condition     string              `gorm:"column:condition;not null"`
	Grade         *string             `gorm:"column:grade"`
	Grader        *string             `gorm:"column:grader"`
	StartingPrice decimal.Decimal     `gorm:"column:starting_price;type:numeric(12,2);not null"`
	CurrentPrice  decimal.Decimal     `gorm:"column:current_price;type:numeric(12,2);not null"`
	EndTime       time.Time           `gorm:"column:end_time;not null;index"`
	Status        enums.ListingStatus `gorm:"column:status;type:text;not null;default:DRAFT;index"`
	SellerID      uuid.UUID           `gorm:"column:seller_id;type:uuid;not null;index"`
	Seller        *User               `gorm:"foreignKey:SellerID"`
	Images        pq.StringArray      `gorm:"column:images;type:text[];not null;default:'{}'"`
	BidCount      int64               `gorm:"column:bid_count;->;-:migration"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *Listing) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	if l.CurrentPrice.LessThan(l.StartingPrice) {
		return ErrCurrentBelowStarting
	}
	if l.Images == nil {
		l.Images = pq.StringArray{}
	}
	return nil
}

// PrimaryImage returns the first image reference, or nil when there are none.
func (l Listing) PrimaryImage() *string {
	if len(l.Images) == 0 {
		return nil
	}
	first := l.Images[0]
	return &first
}

type Bid struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ListingID uuid.UUID       `gorm:"column:listing_id;type:uuid;not null;index"`
	BidderID  uuid.UUID       `gorm:"column:bidder_id;type:uuid;not null"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (b *Bid) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
