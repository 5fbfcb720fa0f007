// Package main is the entry point for the reserve stress service.
// It loads the portfolio, keeps market data current and serves stress
// evaluations and benchmark analysis over HTTP.
//
// The application uses a 4-database architecture:
// - portfolio.db: Current holdings and import history
// - stress.db: Stress evaluation runs and their results
// - history.db: Benchmark index prices and interest rates
// - cache.db: Market snapshot cache with expiry
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/reservestress/internal/clientdata"
	"github.com/aristath/reservestress/internal/config"
	"github.com/aristath/reservestress/internal/database"
	"github.com/aristath/reservestress/internal/evaluation/workers"
	"github.com/aristath/reservestress/internal/events"
	"github.com/aristath/reservestress/internal/modules/market"
	"github.com/aristath/reservestress/internal/modules/performance"
	"github.com/aristath/reservestress/internal/modules/portfolio"
	"github.com/aristath/reservestress/internal/modules/stress"
	"github.com/aristath/reservestress/internal/reliability"
	"github.com/aristath/reservestress/internal/scheduler"
	"github.com/aristath/reservestress/internal/server"
	"github.com/aristath/reservestress/pkg/logger"
)

const maintenanceSchedule = "0 30 3 * * *"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting reserve stress service")

	dbs, err := openDatabases(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open databases")
	}
	defer func() {
		for _, db := range dbs {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Str("database", db.Name()).Msg("Failed to close database")
			}
		}
	}()
	portfolioDB, stressDB, historyDB, cacheDB := dbs[0], dbs[1], dbs[2], dbs[3]

	bus := events.NewBus(log)

	// Market data
	cache := clientdata.NewRepository(cacheDB.Conn())
	history := market.NewHistoryRepository(historyDB.Conn(), log)
	var fetcher market.Fetcher
	if cfg.Market.DataURL != "" {
		fetcher = market.NewClient(cfg.Market.DataURL, log)
	} else {
		log.Warn().Msg("MARKET_DATA_URL not set, using built-in market data")
	}
	marketSvc := market.NewService(fetcher, cache, history, bus, cfg.MarketCacheTTL(), log)

	// Portfolio
	portfolioSvc := portfolio.NewService(
		portfolio.NewHoldingRepository(portfolioDB.Conn(), log),
		portfolio.NewLoader(cfg.ReportingCurrency),
		bus,
		log,
	)
	if err := portfolioSvc.ImportFileIfEmpty(context.Background(), cfg.PortfolioFile); err != nil {
		log.Warn().Err(err).Str("file", cfg.PortfolioFile).Msg("Initial portfolio import failed")
	}

	// Stress evaluation and performance analysis
	pool := workers.NewWorkerPool(cfg.EvaluationWorkers)
	stressSvc := stress.NewService(
		portfolioSvc,
		stress.NewEvaluator(cfg.StressConfig(), pool, log),
		stress.NewRunRepository(stressDB.Conn(), log),
		bus,
		log,
	)
	performanceSvc := performance.NewService(
		portfolioSvc,
		performance.NewAnalyzer(history, cfg.Market.RiskFreeRate, log),
		log,
	)

	sched, err := registerJobs(cfg, log, dbs, marketSvc, cache, bus)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:         log,
		Port:        cfg.Port,
		DevMode:     cfg.DevMode,
		DataDir:     cfg.DataDir,
		Databases:   dbs,
		Bus:         bus,
		Scheduler:   sched,
		Portfolio:   portfolioSvc,
		Stress:      stressSvc,
		Market:      marketSvc,
		Performance: performanceSvc,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Warm the market cache without blocking startup
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := marketSvc.Snapshot(ctx, false); err != nil {
			log.Warn().Err(err).Msg("Initial market data load failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// openDatabases opens and migrates every database in a fixed order:
// portfolio, stress, history, cache.
func openDatabases(dataDir string) ([]*database.DB, error) {
	names := []string{database.NamePortfolio, database.NameStress, database.NameHistory, database.NameCache}
	dbs := make([]*database.DB, 0, len(names))
	for _, name := range names {
		db, err := database.Open(dataDir, name)
		if err != nil {
			for _, opened := range dbs {
				_ = opened.Close()
			}
			return nil, err
		}
		dbs = append(dbs, db)
	}
	return dbs, nil
}

func registerJobs(
	cfg *config.Config,
	log zerolog.Logger,
	dbs []*database.DB,
	marketSvc *market.Service,
	cache *clientdata.Repository,
	bus *events.Bus,
) (*scheduler.Scheduler, error) {
	sched := scheduler.New(log)

	if err := sched.AddJob(cfg.Market.RefreshSchedule, market.NewRefreshJob(marketSvc, log)); err != nil {
		return nil, err
	}

	grace := time.Duration(cfg.Market.CleanupDays) * 24 * time.Hour
	if err := sched.AddJob("0 0 4 * * *", clientdata.NewCleanupJob(cache, grace, log)); err != nil {
		return nil, err
	}

	if err := sched.AddJob(maintenanceSchedule, reliability.NewMaintenanceJob(dbs, cfg.DataDir, log)); err != nil {
		return nil, err
	}

	if cfg.Backup != nil && cfg.Backup.Enabled {
		store, err := reliability.NewS3Store(context.Background(), reliability.S3Config{
			Bucket:          cfg.Backup.Bucket,
			Endpoint:        cfg.Backup.Endpoint,
			Region:          cfg.Backup.Region,
			AccessKeyID:     cfg.Backup.AccessKeyID,
			SecretAccessKey: cfg.Backup.SecretAccessKey,
		}, log)
		if err != nil {
			return nil, err
		}
		backups := reliability.NewBackupService(dbs, store, cfg.DataDir, bus, log)
		if err := sched.AddJob(cfg.Backup.Schedule, reliability.NewBackupJob(backups, cfg.Backup.RetentionDays, log)); err != nil {
			return nil, err
		}
		log.Info().Str("bucket", cfg.Backup.Bucket).Str("schedule", cfg.Backup.Schedule).Msg("Backups enabled")
	}

	return sched, nil
}
