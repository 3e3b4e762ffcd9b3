package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mike4330/stokapp-v2/internal/api/handlers"
	custommiddleware "github.com/mike4330/stokapp-v2/internal/api/middleware"
	"github.com/mike4330/stokapp-v2/internal/config"
	"github.com/mike4330/stokapp-v2/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	System      *service.SystemService
	Ledger      *service.LedgerService
	Selector    *service.LotSelectorService
	Rebalance   *service.RebalanceService
	Transaction *service.TransactionService
	Holdings    *service.HoldingsService
	Dividend    *service.DividendService
	Optimizer   *service.OptimizerService
	Security    *service.SecurityService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.NewLogger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.Put("/marketdata-token", systemHandler.SetProviderToken)
		})

		r.Route("/lots", func(r chi.Router) {
			lotHandler := handlers.NewLotHandler(svc.Ledger, svc.Selector)
			r.Get("/", lotHandler.ListOpenLots)
			r.Post("/close", lotHandler.CloseLots)
			r.Get("/potential", lotHandler.PotentialLots)
		})

		r.Route("/rebalance", func(r chi.Router) {
			rebalanceHandler := handlers.NewRebalanceHandler(svc.Rebalance)
			r.Post("/recompute", rebalanceHandler.Recompute)
		})

		r.Route("/transactions", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(svc.Transaction)
			r.Get("/", transactionHandler.ListTransactions)
			r.Post("/", transactionHandler.CreateTransaction)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
				r.Put("/", transactionHandler.UpdateTransaction)
				r.Delete("/", transactionHandler.DeleteTransaction)
			})
		})

		r.Route("/positions", func(r chi.Router) {
			positionHandler := handlers.NewPositionHandler(svc.Holdings)
			r.Get("/", positionHandler.Holdings)
			r.Get("/sectors", positionHandler.SectorAllocation)
			r.Get("/returns", positionHandler.Returns)
			r.Get("/{symbol}", positionHandler.Position)
		})

		r.Route("/dividends", func(r chi.Router) {
			dividendHandler := handlers.NewDividendHandler(svc.Dividend)
			r.Get("/predictions", dividendHandler.AllForecasts)
			r.Get("/{symbol}/frequency", dividendHandler.Frequency)
			r.Get("/{symbol}/history", dividendHandler.History)
			r.Get("/{symbol}/predictions", dividendHandler.Forecast)
		})

		r.Route("/optimizer", func(r chi.Router) {
			optimizerHandler := handlers.NewOptimizerHandler(svc.Optimizer)
			r.Post("/run", optimizerHandler.StartRun)
			r.Get("/tasks/{taskId}", optimizerHandler.GetTask)
		})

		r.Route("/securities", func(r chi.Router) {
			securityHandler := handlers.NewSecurityHandler(svc.Security)
			r.Delete("/{symbol}", securityHandler.DeleteSecurity)
		})
	})

	return r
}
