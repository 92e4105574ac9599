package query

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/gradevault-backend/internal/analytics/types"
	"github.com/angelmondragon/gradevault-backend/pkg/db/dbtest"
	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type seed struct {
	db       *gorm.DB
	category models.Category
	now      time.Time
}

func newSeed(t *testing.T) *seed {
	t.Helper()
	s := &seed{
		db:       dbtest.New(t).DB(),
		category: models.Category{Name: "Baseball", Slug: "baseball"},
		now:      time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.db.Create(&s.category).Error)
	return s
}

func (s *seed) user(t *testing.T, name string, role enums.UserRole) models.User {
	t.Helper()
	u := models.User{Name: name, Email: fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano()), Role: role}
	require.NoError(t, s.db.Create(&u).Error)
	return u
}

func (s *seed) listing(t *testing.T, seller models.User, title, price string, status enums.ListingStatus, updated time.Time) models.Listing {
	t.Helper()
	l := models.Listing{
		Title:         title,
		CategoryID:    s.category.ID,
		Condition:     "Graded",
		StartingPrice: decimal.NewFromInt(1),
		CurrentPrice:  decimal.RequireFromString(price),
		EndTime:       s.now.Add(time.Hour),
		Status:        status,
		SellerID:      seller.ID,
	}
	require.NoError(t, s.db.Create(&l).Error)
	require.NoError(t, s.db.Model(&models.Listing{}).Where("id = ?", l.ID).UpdateColumn("updated_at", updated).Error)
	return l
}

func TestQueryBuildsReport(t *testing.T) {
	s := newSeed(t)
	pokemon := models.Category{Name: "Pokemon", Slug: "pokemon"}
	require.NoError(t, s.db.Create(&pokemon).Error)
	ada := s.user(t, "Ada", enums.UserRoleSeller)
	bob := s.user(t, "Bob", enums.UserRoleSeller)
	buyer := s.user(t, "Cy", enums.UserRoleUser)

	s.listing(t, ada, "Mantle", "300", enums.ListingStatusSold, s.now.Add(-2*24*time.Hour))
	s.listing(t, ada, "Ruth", "200", enums.ListingStatusSold, s.now.Add(-40*24*time.Hour))
	s.listing(t, bob, "Jordan", "150.50", enums.ListingStatusSold, s.now.Add(-24*time.Hour))
	s.listing(t, bob, "Kobe", "99", enums.ListingStatusActive, s.now.Add(-time.Hour))
	s.listing(t, buyer, "Not a seller", "1000", enums.ListingStatusSold, s.now.Add(-3*time.Hour))
	s.listing(t, ada, "Draft", "5", enums.ListingStatusDraft, s.now)

	svc, err := NewMarketplaceService(s.db)
	require.NoError(t, err)

	report, err := svc.Query(context.Background(), types.ReportRequest{Start: s.now.Add(-30 * 24 * time.Hour), End: s.now})
	require.NoError(t, err)

	require.Len(t, report.Sales, 3)
	assert.Equal(t, "2026-06-28", report.Sales[0].Date)
	assert.True(t, decimal.NewFromInt(300).Equal(report.Sales[0].Amount))
	assert.Equal(t, "2026-06-29", report.Sales[1].Date)
	assert.Equal(t, "2026-06-30", report.Sales[2].Date)

	require.Len(t, report.Categories, 2)
	assert.Equal(t, types.CategoryCount{Name: "Baseball", Value: 6}, report.Categories[0])
	assert.Equal(t, types.CategoryCount{Name: "Pokemon", Value: 0}, report.Categories[1])

	require.Len(t, report.TopSellers, 2)
	assert.Equal(t, "Ada", report.TopSellers[0].Name)
	assert.True(t, decimal.NewFromInt(500).Equal(report.TopSellers[0].TotalSales))
	assert.Equal(t, bob.ID, report.TopSellers[1].ID)

	require.Len(t, report.RecentActivity, 5)
	assert.Equal(t, types.ActivityListing, report.RecentActivity[0].Type)
	assert.Equal(t, `Bob listed "Kobe"`, report.RecentActivity[0].Description)
	assert.Equal(t, types.ActivitySale, report.RecentActivity[1].Type)
	assert.Equal(t, `Cy sold "Not a seller"`, report.RecentActivity[1].Description)
}

func TestQueryRecentActivityIsBounded(t *testing.T) {
	s := newSeed(t)
	ada := s.user(t, "", enums.UserRoleSeller)
	for i := 0; i < recentActivityLimit+4; i++ {
		s.listing(t, ada, fmt.Sprintf("card %d", i), "1", enums.ListingStatusActive, s.now.Add(-time.Duration(i)*time.Minute))
	}

	svc, err := NewMarketplaceService(s.db)
	require.NoError(t, err)
	report, err := svc.Query(context.Background(), types.ReportRequest{Start: s.now.Add(-time.Hour), End: s.now})
	require.NoError(t, err)

	require.Len(t, report.RecentActivity, recentActivityLimit)
	assert.Equal(t, `Anonymous listed "card 0"`, report.RecentActivity[0].Description)
	assert.Empty(t, report.Sales)
	assert.Empty(t, report.TopSellers)
}

func TestQueryRejectsInvertedWindow(t *testing.T) {
	s := newSeed(t)
	svc, err := NewMarketplaceService(s.db)
	require.NoError(t, err)

	_, err = svc.Query(context.Background(), types.ReportRequest{Start: s.now, End: s.now.Add(-time.Hour)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestQueryCancelledContext(t *testing.T) {
	s := newSeed(t)
	svc, err := NewMarketplaceService(s.db)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Query(ctx, types.ReportRequest{Start: s.now.Add(-time.Hour), End: s.now})
	require.Error(t, err)
}
