package analytics

import (
	"context"
	"fmt"

	"github.com/angelmondragon/gradevault-backend/internal/analytics/query"
	"github.com/angelmondragon/gradevault-backend/internal/analytics/types"
	"gorm.io/gorm"
)

// Service provides the admin sales dashboard.
type Service interface {
	// Query returns the dashboard result sets for the provided window.
	Query(ctx context.Context, req types.ReportRequest) (*types.Report, error)
}

type service struct {
	marketplace query.MarketplaceService
}

// NewService builds an analytics service backed by the primary database.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}

	marketplace, err := query.NewMarketplaceService(db)
	if err != nil {
		return nil, err
	}

	return &service{marketplace: marketplace}, nil
}

func (s *service) Query(ctx context.Context, req types.ReportRequest) (*types.Report, error) {
	return s.marketplace.Query(ctx, req)
}
