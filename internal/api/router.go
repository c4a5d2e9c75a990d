package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rai-openclaw/mission-control/internal/api/handlers"
	custommiddleware "github.com/rai-openclaw/mission-control/internal/api/middleware"
	"github.com/rai-openclaw/mission-control/internal/config"
	"github.com/rai-openclaw/mission-control/internal/pricestore"
	"github.com/rai-openclaw/mission-control/internal/repository"
	"github.com/rai-openclaw/mission-control/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	aggregationService *service.AggregationService,
	refreshService *service.RefreshService,
	store *pricestore.Store,
	historyRepo *repository.PriceHistoryRepository,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
		})

		portfolioHandler := handlers.NewPortfolioHandler(aggregationService)
		r.Get("/portfolio", portfolioHandler.Portfolio)

		priceHandler := handlers.NewPriceHandler(refreshService, store, historyRepo)
		r.Post("/refresh-prices", priceHandler.RefreshPrices)
		r.Route("/prices", func(r chi.Router) {
			r.Get("/", priceHandler.Prices)
			r.Route("/history/{symbol}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSymbolMiddleware)
				r.Get("/", priceHandler.History)
			})
		})
	})

	return r
}
