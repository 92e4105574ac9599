package analytics

import (
	"net/http"

	"github.com/angelmondragon/gradevault-backend/api/responses"
	"github.com/angelmondragon/gradevault-backend/internal/analytics"
	"github.com/angelmondragon/gradevault-backend/internal/analytics/types"
	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
	"github.com/angelmondragon/gradevault-backend/pkg/logger"
)

// MarketplaceAnalytics serves the admin sales dashboard.
func MarketplaceAnalytics(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if service == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "analytics unavailable"))
			return
		}

		start, end, err := reportWindow(r.URL.Query(), timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		report, err := service.Query(ctx, types.ReportRequest{Start: start, End: end})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logCtx := logg.WithFields(ctx, map[string]any{
				"window_start":   start,
				"window_end":     end,
				"sales_points":   len(report.Sales),
				"top_sellers":    len(report.TopSellers),
				"recent_entries": len(report.RecentActivity),
			})
			logg.Info(logCtx, "analytics.report.served")
		}
		responses.WriteSuccess(w, report)
	}
}
