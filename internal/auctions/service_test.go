package auctions

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
	"github.com/angelmondragon/gradevault-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubListingReader struct {
	rows  []models.Listing
	err   error
	pred  Predicate
	order Ordering
	limit int
}

func (s *stubListingReader) List(_ context.Context, pred Predicate, order Ordering, limit int) ([]models.Listing, error) {
	s.pred, s.order, s.limit = pred, order, limit
	return s.rows, s.err
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestListAuctionsScopesToActive(t *testing.T) {
	repo := &stubListingReader{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	sort := enums.AuctionSortPriceDesc
	q := Query{Sort: &sort, Where: And{Children: []Predicate{In{Field: FieldGrader, Values: []string{"PSA"}}}}}
	_, err = svc.ListAuctions(context.Background(), q)
	require.NoError(t, err)

	and, ok := repo.pred.(And)
	require.True(t, ok)
	assert.Contains(t, and.Children, Predicate(Eq{Field: FieldStatus, Value: enums.ListingStatusActive}))
	assert.Contains(t, and.Children, Predicate(In{Field: FieldGrader, Values: []string{"PSA"}}))
	assert.Equal(t, Ordering{Field: OrderCurrentPrice, Direction: Desc}, repo.order)
	assert.Equal(t, pagination.AuctionPageSize, repo.limit)
}

func TestListAuctionsCapsPage(t *testing.T) {
	rows := make([]models.Listing, pagination.AuctionPageSize+3)
	for i := range rows {
		rows[i] = models.Listing{ID: uuid.New(), Title: fmt.Sprintf("card-%d", i)}
	}
	svc, err := NewService(&stubListingReader{rows: rows})
	require.NoError(t, err)

	out, err := svc.ListAuctions(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, out, pagination.AuctionPageSize)
}

func TestListAuctionsShapesRows(t *testing.T) {
	img := "https://cdn.example.com/u/ada.png"
	grade := "PSA 10"
	end := time.Date(2026, 4, 2, 18, 30, 0, 0, time.FixedZone("EST", -5*3600))
	row := models.Listing{
		ID:            uuid.New(),
		Title:         "1952 Topps Mantle",
		Condition:     "Graded",
		Grade:         &grade,
		StartingPrice: decimal.RequireFromString("100.00"),
		CurrentPrice:  decimal.RequireFromString("250.50"),
		EndTime:       end,
		Images:        pq.StringArray{"https://cdn.example.com/l/front.jpg"},
		BidCount:      7,
		Seller:        &models.User{Name: "Ada", Image: &img},
	}
	svc, err := NewService(&stubListingReader{rows: []models.Listing{row}})
	require.NoError(t, err)

	out, err := svc.ListAuctions(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	got := out[0]
	assert.Equal(t, row.ID, got.ID)
	assert.Equal(t, int64(7), got.Bids)
	assert.Equal(t, "Ada", got.Seller.Name)
	assert.Equal(t, &img, got.Seller.Image)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, "https://cdn.example.com/l/front.jpg", *got.ImageURL)
	assert.Equal(t, time.UTC, got.EndTime.Location())
	assert.True(t, end.Equal(got.EndTime))
	assert.True(t, decimal.RequireFromString("250.5").Equal(got.CurrentPrice))
	assert.Nil(t, got.Grader)
}

func TestListAuctionsMapsStorageErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code pkgerrors.Code
	}{
		{"generic", errors.New("connection reset"), pkgerrors.CodePersistence},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), pkgerrors.CodeTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewService(&stubListingReader{err: tt.err})
			require.NoError(t, err)

			_, err = svc.ListAuctions(context.Background(), Query{})
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, tt.code))
		})
	}
}
