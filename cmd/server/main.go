package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/portfolio-health/internal/catalog"
	"github.com/aristath/portfolio-health/internal/clients/telegram"
	"github.com/aristath/portfolio-health/internal/clients/twse"
	"github.com/aristath/portfolio-health/internal/clients/yahoo"
	"github.com/aristath/portfolio-health/internal/config"
	"github.com/aristath/portfolio-health/internal/database"
	"github.com/aristath/portfolio-health/internal/events"
	"github.com/aristath/portfolio-health/internal/modules/fundamentals"
	"github.com/aristath/portfolio-health/internal/modules/portfolio"
	"github.com/aristath/portfolio-health/internal/modules/reporting"
	"github.com/aristath/portfolio-health/internal/modules/review"
	"github.com/aristath/portfolio-health/internal/modules/risk"
	"github.com/aristath/portfolio-health/internal/modules/scoring"
	"github.com/aristath/portfolio-health/internal/scheduler"
	"github.com/aristath/portfolio-health/internal/server"
	"github.com/aristath/portfolio-health/pkg/logger"
)

func main() {
	// Load configuration first so the log level is honored from the start
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Portfolio Health")

	// Catalogs must validate before anything else starts: a broken
	// definition table means no score can be trusted.
	metrics, factors, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Catalog validation failed")
	}
	log.Info().
		Int("metrics", metrics.Size()).
		Int("risk_factors", factors.Size()).
		Msg("Catalogs loaded")

	policy, err := scoring.ParseMissingPolicy(cfg.MissingPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid missing-data policy")
	}

	// Initialize results database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(review.Schema); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Snapshot store accumulates quarterly fundamentals across runs
	snapshots, err := fundamentals.NewSnapshotStore(cfg.SnapshotDBPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize snapshot store")
	}
	defer snapshots.Close()

	// Fetch clients
	yahooClient := yahoo.NewClient(log)
	twseClient := twse.NewClient(log)

	var notifier review.Notifier
	if cfg.TelegramConfigured() {
		notifier = telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramChatID, log)
		log.Info().Msg("Telegram notifications enabled")
	} else {
		log.Info().Msg("Telegram not configured, notifications disabled")
	}

	eventManager := events.NewManager(log)

	// Review pipeline
	aggregator := review.NewAggregator(
		scoring.NewScorer(policy),
		risk.NewAssessor(),
		metrics,
		factors,
		log,
	)

	repo := review.NewRepository(db.Conn(), log)
	recRepo := review.NewRecommendationRepository(db.Conn(), log)

	service := review.NewService(review.ServiceConfig{
		Log:             log,
		Portfolio:       portfolio.NewLoader(cfg.PortfolioPath, log),
		Domestic:        twseClient,
		Foreign:         yahooClient,
		Snapshots:       snapshots,
		Builder:         fundamentals.NewBuilder(log),
		Aggregator:      aggregator,
		Repo:            repo,
		RecRepo:         recRepo,
		Reporter:        reporting.NewFileReporter(cfg.ReportsDir, log),
		Notifier:        notifier,
		Formatter:       reporting.FormatReviewMessage,
		Events:          eventManager,
		HistoryQuarters: cfg.HistoryQuarters,
	})

	// Initialize scheduler
	sched := scheduler.New(log)

	reviewJob := scheduler.NewReviewCycleJob(service, log)
	if err := sched.AddJob(cfg.ReviewSchedule, reviewJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register review cycle job")
	}

	healthJob := scheduler.NewHealthCheckJob(scheduler.HealthCheckConfig{
		Log:        log,
		DB:         db,
		Snapshots:  snapshots,
		ReportsDir: cfg.ReportsDir,
	})
	if err := sched.AddJob(cfg.HealthSchedule, healthJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register health check job")
	}

	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:      cfg.Port,
		Log:       log,
		DevMode:   cfg.DevMode,
		Repo:      repo,
		RecRepo:   recRepo,
		Metrics:   metrics,
		Factors:   factors,
		Scheduler: sched,
		ReviewJob: reviewJob,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
