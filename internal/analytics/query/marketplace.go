package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/gradevault-backend/internal/analytics/types"
	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	topSellersLimit     = 5
	recentActivityLimit = 10
	anonymousSeller     = "Anonymous"
)

const (
	categoriesSQL = `
SELECT categories.name AS name, COUNT(listings.id) AS value
FROM categories
LEFT JOIN listings ON listings.category_id = categories.id
GROUP BY categories.id, categories.name
ORDER BY value DESC, categories.name ASC
`

	topSellersSQL = `
SELECT users.id AS id, users.name AS name, SUM(listings.current_price) AS total_sales
FROM users
JOIN listings ON listings.seller_id = users.id
WHERE users.role = ?
  AND listings.status = ?
GROUP BY users.id, users.name
ORDER BY total_sales DESC
LIMIT ?
`

	recentActivitySQL = `
SELECT listings.id AS id, listings.title AS title, listings.status AS status,
       listings.updated_at AS updated_at, users.name AS seller_name
FROM listings
JOIN users ON users.id = listings.seller_id
WHERE listings.status IN ?
ORDER BY listings.updated_at DESC
LIMIT ?
`
)

// MarketplaceService builds the admin dashboard from the primary database.
type MarketplaceService interface {
	Query(ctx context.Context, req types.ReportRequest) (*types.Report, error)
}

type marketplaceService struct {
	db *gorm.DB
}

func NewMarketplaceService(db *gorm.DB) (MarketplaceService, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &marketplaceService{db: db}, nil
}

// Query runs the four report queries concurrently. The first failure cancels
// the others.
func (s *marketplaceService) Query(ctx context.Context, req types.ReportRequest) (*types.Report, error) {
	if req.End.Before(req.Start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end must be after start")
	}

	report := &types.Report{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.querySales(gctx, req.Start, req.End)
		report.Sales = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.queryCategories(gctx)
		report.Categories = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.queryTopSellers(gctx)
		report.TopSellers = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.queryRecentActivity(gctx)
		report.RecentActivity = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

type saleRow struct {
	UpdatedAt    time.Time
	CurrentPrice decimal.Decimal
}

func (s *marketplaceService) querySales(ctx context.Context, start, end time.Time) ([]types.SalePoint, error) {
	var rows []saleRow
	if err := s.db.WithContext(ctx).
		Table("listings").
		Select("updated_at, current_price").
		Where("status = ? AND updated_at >= ? AND updated_at <= ?", enums.ListingStatusSold, start, end).
		Order("updated_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, pkgerrors.WrapStorage(err, "db: query sales")
	}
	out := make([]types.SalePoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.SalePoint{
			Date:   row.UpdatedAt.UTC().Format(time.DateOnly),
			Amount: row.CurrentPrice,
		})
	}
	return out, nil
}

func (s *marketplaceService) queryCategories(ctx context.Context) ([]types.CategoryCount, error) {
	var rows []types.CategoryCount
	if err := s.db.WithContext(ctx).Raw(categoriesSQL).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.WrapStorage(err, "db: query categories")
	}
	if rows == nil {
		rows = []types.CategoryCount{}
	}
	return rows, nil
}

type topSellerRow struct {
	ID         uuid.UUID
	Name       string
	TotalSales decimal.Decimal
}

func (s *marketplaceService) queryTopSellers(ctx context.Context) ([]types.TopSeller, error) {
	var rows []topSellerRow
	if err := s.db.WithContext(ctx).
		Raw(topSellersSQL, enums.UserRoleSeller, enums.ListingStatusSold, topSellersLimit).
		Scan(&rows).Error; err != nil {
		return nil, pkgerrors.WrapStorage(err, "db: query top sellers")
	}
	out := make([]types.TopSeller, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.TopSeller{
			ID:         row.ID,
			Name:       displayName(row.Name),
			TotalSales: row.TotalSales,
		})
	}
	return out, nil
}

type activityRow struct {
	ID         uuid.UUID
	Title      string
	Status     enums.ListingStatus
	UpdatedAt  time.Time
	SellerName string
}

func (s *marketplaceService) queryRecentActivity(ctx context.Context) ([]types.Activity, error) {
	statuses := []enums.ListingStatus{enums.ListingStatusSold, enums.ListingStatusActive}
	var rows []activityRow
	if err := s.db.WithContext(ctx).
		Raw(recentActivitySQL, statuses, recentActivityLimit).
		Scan(&rows).Error; err != nil {
		return nil, pkgerrors.WrapStorage(err, "db: query recent activity")
	}
	out := make([]types.Activity, 0, len(rows))
	for _, row := range rows {
		out = append(out, activityFromRow(row))
	}
	return out, nil
}

func activityFromRow(row activityRow) types.Activity {
	kind, verb := types.ActivityListing, "listed"
	if row.Status == enums.ListingStatusSold {
		kind, verb = types.ActivitySale, "sold"
	}
	return types.Activity{
		ID:          row.ID,
		Type:        kind,
		Description: fmt.Sprintf("%s %s \"%s\"", displayName(row.SellerName), verb, row.Title),
		Timestamp:   row.UpdatedAt.UTC(),
	}
}

func displayName(name string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return anonymousSeller
}
