package auctions

import (
	"context"
	"fmt"

	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
	"github.com/angelmondragon/gradevault-backend/pkg/pagination"
)

type listingReader interface {
	List(ctx context.Context, pred Predicate, order Ordering, limit int) ([]models.Listing, error)
}

// Service executes public auction queries.
type Service interface {
	ListAuctions(ctx context.Context, q Query) ([]AuctionDTO, error)
}

type service struct {
	repo listingReader
}

func NewService(repo listingReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listing repository required")
	}
	return &service{repo: repo}, nil
}

// ListAuctions returns the first page of active listings matching q.
func (s *service) ListAuctions(ctx context.Context, q Query) ([]AuctionDTO, error) {
	pred := AllOf(q.Where, Eq{Field: FieldStatus, Value: enums.ListingStatusActive})

	rows, err := s.repo.List(ctx, pred, ResolveSort(q.Sort), pagination.AuctionPageSize)
	if err != nil {
		return nil, pkgerrors.WrapStorage(err, "db: list auctions")
	}

	if len(rows) > pagination.AuctionPageSize {
		rows = rows[:pagination.AuctionPageSize]
	}
	out := make([]AuctionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewAuctionDTO(row))
	}
	return out, nil
}
