package auctions

import (
	"context"
	"fmt"

	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	"gorm.io/gorm"
)

const bidCountExpr = "(SELECT COUNT(*) FROM bids WHERE bids.listing_id = listings.id)"

var fieldColumns = map[Field]string{
	FieldCategoryID:   "listings.category_id",
	FieldCondition:    "listings.condition",
	FieldGrader:       "listings.grader",
	FieldCurrentPrice: "listings.current_price",
	FieldStatus:       "listings.status",
}

var orderColumns = map[OrderField]string{
	OrderEndTime:      "listings.end_time",
	OrderCreatedAt:    "listings.created_at",
	OrderCurrentPrice: "listings.current_price",
	OrderBidCount:     "bid_count",
}

// Repository reads auction listings.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List runs one bounded read of listings matching pred, with the seller preloaded
// and the bid count derived per row.
func (r *Repository) List(ctx context.Context, pred Predicate, order Ordering, limit int) ([]models.Listing, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Select("listings.*, " + bidCountExpr + " AS bid_count").
		Preload("Seller")

	qb, err := applyPredicate(qb, pred)
	if err != nil {
		return nil, err
	}

	column, ok := orderColumns[order.Field]
	if !ok {
		return nil, fmt.Errorf("unsupported order field %q", order.Field)
	}
	direction := Asc
	if order.Direction == Desc {
		direction = Desc
	}
	qb = qb.Order(column + " " + string(direction))

	if limit > 0 {
		qb = qb.Limit(limit)
	}

	var rows []models.Listing
	if err := qb.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func applyPredicate(qb *gorm.DB, pred Predicate) (*gorm.DB, error) {
	switch p := pred.(type) {
	case nil:
		return qb, nil
	case And:
		var err error
		for _, child := range p.Children {
			if qb, err = applyPredicate(qb, child); err != nil {
				return nil, err
			}
		}
		return qb, nil
	case In:
		column, err := columnFor(p.Field)
		if err != nil {
			return nil, err
		}
		if len(p.Values) == 0 {
			return qb, nil
		}
		return qb.Where(column+" IN ?", p.Values), nil
	case Range:
		column, err := columnFor(p.Field)
		if err != nil {
			return nil, err
		}
		if p.Min != nil {
			qb = qb.Where(column+" >= ?", *p.Min)
		}
		if p.Max != nil {
			qb = qb.Where(column+" <= ?", *p.Max)
		}
		return qb, nil
	case Eq:
		column, err := columnFor(p.Field)
		if err != nil {
			return nil, err
		}
		return qb.Where(column+" = ?", p.Value), nil
	default:
		return nil, fmt.Errorf("unsupported predicate %T", pred)
	}
}

func columnFor(field Field) (string, error) {
	column, ok := fieldColumns[field]
	if !ok {
		return "", fmt.Errorf("unsupported filter field %q", field)
	}
	return column, nil
}
