package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mike4330/stokapp-v2/internal/api"
	"github.com/mike4330/stokapp-v2/internal/config"
	"github.com/mike4330/stokapp-v2/internal/database"
	"github.com/mike4330/stokapp-v2/internal/jobs"
	"github.com/mike4330/stokapp-v2/internal/logger"
	"github.com/mike4330/stokapp-v2/internal/marketdata"
	"github.com/mike4330/stokapp-v2/internal/repository"
	"github.com/mike4330/stokapp-v2/internal/scheduler"
	"github.com/mike4330/stokapp-v2/internal/service"
)

// Background job schedules, evaluated in the market timezone. The overweight
// refresh gates itself to market hours; the other two run once per weekday.
const (
	overweightSchedule    = "*/5 * * * *"
	priceUpdateSchedule   = "35 9 * * 1-5"
	movingAverageSchedule = "5 17 * * 1-5"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: os.Getenv("LOG_PRETTY") == "true",
	})

	// Open database connection and apply migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logr.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logr.Fatal().Err(err).Msg("failed to apply migrations")
	}
	logr.Info().Str("path", cfg.Database.Path).Msg("connected to database")

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	mptRepo := repository.NewMPTRepository(db)
	securityValueRepo := repository.NewSecurityValueRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	securityRepo := repository.NewSecurityRepository(db)

	// Create services
	systemService, err := service.NewSystemService(db, settingRepo, cfg.MarketData.TokenKey)
	if err != nil {
		logr.Fatal().Err(err).Msg("failed to initialize system service")
	}
	ledgerService := service.NewLedgerService(transactionRepo, priceRepo, logr)
	selectorService := service.NewLotSelectorService(transactionRepo, priceRepo, mptRepo, logr)
	rebalanceService := service.NewRebalanceService(transactionRepo, priceRepo, mptRepo, logr)
	transactionService := service.NewTransactionService(transactionRepo, logr)
	holdingsService := service.NewHoldingsService(transactionRepo, priceRepo, mptRepo, securityValueRepo, cfg, logr)
	dividendService := service.NewDividendService(transactionRepo, cfg, logr)
	optimizerService := service.NewOptimizerService(securityValueRepo, service.NewInMemoryTaskStore(), logr)
	securityService := service.NewSecurityService(transactionRepo, securityRepo, logr)

	// Create router
	router := api.NewRouter(api.Services{
		System:      systemService,
		Ledger:      ledgerService,
		Selector:    selectorService,
		Rebalance:   rebalanceService,
		Transaction: transactionService,
		Holdings:    holdingsService,
		Dividend:    dividendService,
		Optimizer:   optimizerService,
		Security:    securityService,
	}, cfg, logr)

	// Background jobs
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		providerToken, err := systemService.GetProviderToken()
		if err != nil {
			logr.Warn().Err(err).Msg("no provider token configured, price updates run unauthenticated")
			providerToken = ""
		}
		quoteClient := marketdata.NewHTTPClient(cfg.MarketData.BaseURL, providerToken)

		sched = scheduler.New(cfg.Market.Timezone, logr)
		schedules := map[string]scheduler.Job{
			overweightSchedule:    jobs.NewOverweightRefreshJob(rebalanceService, cfg.Market, logr),
			priceUpdateSchedule:   jobs.NewPriceUpdateJob(quoteClient, priceRepo, cfg.Market, logr),
			movingAverageSchedule: jobs.NewMovingAverageJob(securityValueRepo, priceRepo, logr),
		}
		for spec, job := range schedules {
			if err := sched.Add(spec, job); err != nil {
				logr.Fatal().Err(err).Str("job", job.Name()).Msg("failed to register scheduled job")
			}
		}
		sched.Start()
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logr.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info().Msg("shutting down server")

	if sched != nil {
		sched.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logr.Info().Msg("server exited")
}
