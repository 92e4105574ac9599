package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/gradevault-backend/api/controllers"
	analyticscontrollers "github.com/angelmondragon/gradevault-backend/api/controllers/analytics"
	auctioncontrollers "github.com/angelmondragon/gradevault-backend/api/controllers/auctions"
	stockcontrollers "github.com/angelmondragon/gradevault-backend/api/controllers/stock"
	verificationcontrollers "github.com/angelmondragon/gradevault-backend/api/controllers/verification"
	"github.com/angelmondragon/gradevault-backend/api/middleware"
	"github.com/angelmondragon/gradevault-backend/internal/analytics"
	"github.com/angelmondragon/gradevault-backend/internal/auctions"
	"github.com/angelmondragon/gradevault-backend/internal/stock"
	"github.com/angelmondragon/gradevault-backend/internal/verification"
	"github.com/angelmondragon/gradevault-backend/pkg/auth/session"
	"github.com/angelmondragon/gradevault-backend/pkg/config"
	"github.com/angelmondragon/gradevault-backend/pkg/logger"
	"github.com/angelmondragon/gradevault-backend/pkg/metrics"
	"github.com/angelmondragon/gradevault-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Revoke(ctx context.Context, accessID string) error
}

// Observability carries the Prometheus collectors and the scrape handler.
type Observability struct {
	HTTP    *metrics.HTTPMetrics
	Handler http.Handler
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	sessionManager sessionManager,
	obs Observability,
	auctionService auctions.Service,
	stockService stock.Service,
	verificationService verification.Service,
	analyticsService analytics.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(obs.HTTP),
		middleware.Logging(logg),
		middleware.Timeout(cfg.App.RequestTimeout),
	)

	var (
		limiter          middleware.RateLimitStore
		idempotencyStore redis.IdempotencyStore
	)
	readiness := map[string]controllers.Pinger{"db": dbP}
	if redisClient != nil {
		limiter = redisClient
		idempotencyStore = redisClient
		readiness["redis"] = redisClient
	}

	auctionsPolicy := middleware.NewRateLimitPolicy(
		"auctions",
		cfg.RateLimit.AuctionsWindow,
		cfg.RateLimit.AuctionsLimit,
	).TrustProxies(cfg.RateLimit.TrustedProxies...)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})

	if obs.Handler != nil {
		r.Method(http.MethodGet, "/metrics", obs.Handler)
	}

	r.With(middleware.IPRateLimit(auctionsPolicy, limiter, logg)).
		Get("/api/auctions", auctioncontrollers.List(auctionService, logg))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))

		r.Post("/session/logout", controllers.AuthLogout(sessionManager, logg))

		r.Route("/verification", func(r chi.Router) {
			r.Get("/", verificationcontrollers.Status(verificationService, logg))
			r.Post("/", verificationcontrollers.Submit(verificationService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Route("/stock", func(r chi.Router) {
				r.Get("/", stockcontrollers.List(stockService, logg))
				r.Post("/", stockcontrollers.Create(stockService, logg))
				r.With(middleware.Idempotency(idempotencyStore, cfg.Redis.IdempotencyTTL, logg)).
					Post("/bulk", stockcontrollers.BulkImport(stockService, logg))
				r.Get("/export", stockcontrollers.Export(stockService, logg))
				r.Patch("/{id}", stockcontrollers.Update(stockService, logg))
				r.Delete("/{id}", stockcontrollers.Delete(stockService, logg))
			})

			r.Route("/verification", func(r chi.Router) {
				r.Get("/", verificationcontrollers.AdminList(verificationService, logg))
				r.Patch("/{id}", verificationcontrollers.AdminReview(verificationService, logg))
			})

			r.Get("/analytics", analyticscontrollers.MarketplaceAnalytics(analyticsService, logg))
		})
	})

	return r
}
