package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcabinet "github.com/sellerpulse/backend/internal/application/cabinet"
	appsync "github.com/sellerpulse/backend/internal/application/sync"
	"github.com/sellerpulse/backend/internal/infrastructure/config"
	"github.com/sellerpulse/backend/internal/infrastructure/logger"
	"github.com/sellerpulse/backend/internal/infrastructure/marketplace"
	"github.com/sellerpulse/backend/internal/infrastructure/persistence"
	"github.com/sellerpulse/backend/internal/infrastructure/scheduler"
	"github.com/sellerpulse/backend/internal/interfaces/http/handler"
	"github.com/sellerpulse/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SellerPulse",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	cabinetRepo := persistence.NewGormCabinetRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	priceRepo := persistence.NewGormPriceRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	campaignRepo := persistence.NewGormCampaignRepository(db.DB)
	cardMetricRepo := persistence.NewGormCardMetricRepository(db.DB)
	campaignMetricRepo := persistence.NewGormCampaignMetricRepository(db.DB)
	purgeRepo := persistence.NewGormPurgeRepository(db.DB, cfg.Purge.BatchSize)

	// Marketplace client with the shared per-credential call budget
	limiter := marketplace.NewMinuteLimiter(cfg.Marketplace.CallsPerMinute)
	client := marketplace.NewClient(cfg.Marketplace, limiter, log)

	// Application services
	pipeline := appsync.NewPipeline(client, itemRepo, priceRepo, stockRepo,
		campaignRepo, cardMetricRepo, campaignMetricRepo, log)
	orchestrator := appsync.NewOrchestrator(pipeline, cabinetRepo,
		cfg.Sync.Workers, cfg.Sync.LookbackDays, log)
	cabinetService := appcabinet.NewService(cabinetRepo, client, log)
	teardownService := appcabinet.NewTeardownService(cabinetRepo, purgeRepo, log)

	// Job scheduler and daily trigger
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	syncScheduler, err := scheduler.NewSyncScheduler(scheduler.SyncSchedulerConfig{
		MaxConcurrentJobs: cfg.Sync.MaxConcurrentJobs,
		JobTimeout:        cfg.Sync.JobTimeout,
		QueueSize:         cfg.Sync.QueueSize,
		MaxHistory:        100,
	}, scheduler.NewOrchestratorExecutor(orchestrator), log)
	if err != nil {
		log.Fatal("Failed to create sync scheduler", zap.Error(err))
	}
	if err := syncScheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start sync scheduler", zap.Error(err))
	}

	var cronTrigger *scheduler.CronTrigger
	if cfg.Sync.Enabled {
		cronTrigger = scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
			DailyHour:     cfg.Sync.DailyHour,
			DailyMinute:   cfg.Sync.DailyMinute,
			LookbackDays:  cfg.Sync.LookbackDays,
			CheckInterval: time.Minute,
		}, syncScheduler, log)
		if err := cronTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		log.Info("Daily sync trigger armed",
			zap.Int("hour", cfg.Sync.DailyHour),
			zap.Int("minute", cfg.Sync.DailyMinute),
		)
	}

	// HTTP surface
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.NewEngine(log)
	r := router.NewRouter(engine,
		router.WithHealth(handler.NewHealthHandler(db)),
	)
	r.Register(handler.NewCabinetHandler(cabinetService, teardownService, cabinetRepo)).
		Register(handler.NewSyncHandler(syncScheduler))
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if cronTrigger != nil {
		if err := cronTrigger.Stop(shutdownCtx); err != nil {
			log.Error("Cron trigger stop failed", zap.Error(err))
		}
	}
	if err := syncScheduler.Stop(shutdownCtx); err != nil {
		log.Error("Sync scheduler stop failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
