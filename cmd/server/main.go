package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/wardrobe/backend/docs"
	analysisapp "github.com/wardrobe/backend/internal/application/analysis"
	recommendationapp "github.com/wardrobe/backend/internal/application/recommendation"
	wardrobeapp "github.com/wardrobe/backend/internal/application/wardrobe"
	"github.com/wardrobe/backend/internal/domain/analysis"
	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/infrastructure/ai"
	"github.com/wardrobe/backend/internal/infrastructure/auth"
	"github.com/wardrobe/backend/internal/infrastructure/cache"
	"github.com/wardrobe/backend/internal/infrastructure/config"
	"github.com/wardrobe/backend/internal/infrastructure/event"
	"github.com/wardrobe/backend/internal/infrastructure/imaging"
	"github.com/wardrobe/backend/internal/infrastructure/logger"
	"github.com/wardrobe/backend/internal/infrastructure/migration"
	"github.com/wardrobe/backend/internal/infrastructure/persistence"
	"github.com/wardrobe/backend/internal/infrastructure/scheduler"
	"github.com/wardrobe/backend/internal/infrastructure/storage"
	"github.com/wardrobe/backend/internal/infrastructure/telemetry"
	"github.com/wardrobe/backend/internal/infrastructure/weather"
	"github.com/wardrobe/backend/internal/interfaces/http/middleware"
	"github.com/wardrobe/backend/migrations"
)

//	@title			AI Fashion Assistant API
//	@version		1.0
//	@description	Outfit photo analysis, wardrobe management and weather aware daily outfit recommendations.

//	@contact.name	API Support
//	@contact.url	https://github.com/wardrobe/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token issued by the identity provider. Format: "Bearer {token}"

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// Bootstrap logger, replaced once the OTEL log bridge is known
	bootLog, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// OpenTelemetry traces, metrics and logs share one collector
	tel, err := telemetry.Setup(ctx, telemetry.Config{
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Traces:            cfg.Telemetry.Enabled,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		Metrics:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		Logs:              cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, tel.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting wardrobe backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	metrics, err := telemetry.NewWardrobeMetrics(tel.Meter("wardrobe"))
	if err != nil {
		log.Fatal("Failed to create wardrobe metrics", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL))
	db, err := persistence.Open(ctx, &cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}

	sqlDB := db.Pool()
	if tel.MetricsEnabled() {
		if err := telemetry.RegisterPoolMetrics(tel.Meter("database"), sqlDB); err != nil {
			log.Warn("Database pool metrics unavailable", zap.Error(err))
		}
	}

	if cfg.Database.AutoMigrate {
		migrator, err := migration.NewFromFS(sqlDB, migrations.FS, ".", log)
		if err != nil {
			log.Fatal("Failed to load migrations", zap.Error(err))
		}
		// Not closed: the postgres driver would close the shared pool with it.
		if err := migrator.Up(); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Redis (or in-memory) wear history and weather cache
	stores, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStores(ctx)
	if err != nil {
		log.Fatal("Failed to create cache stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache stores", zap.Error(err))
		}
	}()

	// Photo storage
	imageStorage := newImageStorage(ctx, cfg, log)

	// AI provider. Without a key analyses fail and recommendations use the fallback.
	var (
		analyzer analysis.VisionAnalyzer
		stylist  recommendation.Stylist
	)
	assistant, err := ai.NewAssistantFromConfig(ctx, &cfg.AI, log, ai.WithMetrics(metrics))
	switch {
	case err == nil:
		analyzer, stylist = assistant, assistant
		log.Info("AI provider configured", zap.String("provider", assistant.Provider()), zap.String("model", cfg.AI.Model))
	case errors.Is(err, ai.ErrMissingAPIKey) && !cfg.IsProduction():
		log.Warn("AI API key missing, analyses are disabled and recommendations use the fallback outfit")
	default:
		log.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	weatherProvider := weather.NewCachedProvider(
		weather.NewOpenMeteoClient(&cfg.Weather),
		stores.Weather,
		cfg.Weather.CacheTTL,
		log.Named("weather"),
	)

	// Repositories
	itemRepo := persistence.NewGormClothingItemRepository(db.DB)
	lookRepo := persistence.NewGormOutfitLookRepository(db.DB)
	analysisRepo := persistence.NewGormAnalysisRepository(db.DB)
	trackingRepo := persistence.NewGormRecommendationRepository(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	analysisService := analysisapp.NewService(analysisRepo, analyzer, imageStorage,
		imaging.NewProcessor(cfg.Analysis.MaxImageBytes, cfg.Analysis.MaxDimension, cfg.Analysis.JPEGQuality),
		analysisapp.WithEventPublisher(eventBus),
		analysisapp.WithMetrics(metrics),
		analysisapp.WithLogger(log.Named("analysis")),
	)
	wardrobeService := wardrobeapp.NewService(itemRepo, lookRepo, analysisRepo,
		wardrobeapp.WithEventPublisher(eventBus),
		wardrobeapp.WithLogger(log.Named("wardrobe")),
	)
	recommendationService := recommendationapp.NewService(trackingRepo, itemRepo, stylist, weatherProvider, stores.WearHistory,
		recommendationapp.WithConfig(recommendationapp.Config{
			RecentWindow:    cfg.Recommendation.RecentWindow,
			MaxResults:      cfg.Recommendation.MaxResults,
			StylistTimeout:  cfg.AI.Timeout,
			CheckWindowDays: cfg.Recommendation.CheckWindowDays,
			DefaultCity:     cfg.Weather.DefaultCity,
			DefaultCountry:  cfg.Weather.DefaultCountry,
		}),
		recommendationapp.WithEventPublisher(eventBus),
		recommendationapp.WithMetrics(metrics),
		recommendationapp.WithLogger(log.Named("recommendation")),
	)

	// outfit.worn -> wear counters on items, tracking rows flagged as worn
	outfitWornHandler := wardrobeapp.NewOutfitWornHandler(wardrobeService, log)
	eventBus.Subscribe(outfitWornHandler)
	wornTrackingHandler := recommendationapp.NewWornTrackingHandler(trackingRepo, stores.WearHistory, log)
	eventBus.Subscribe(wornTrackingHandler)

	log.Info("Event handlers registered",
		zap.Strings("outfit_worn_events", outfitWornHandler.EventTypes()),
		zap.Strings("worn_tracking_events", wornTrackingHandler.EventTypes()),
	)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Maintenance scheduler (if enabled)
	if cfg.Scheduler.Enabled {
		stop := startMaintenance(ctx, cfg, trackingRepo, analysisRepo, log)
		defer stop()
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	jwtService := auth.NewJWTService(cfg.JWT)
	if !jwtService.Enabled() {
		log.Warn("JWT secret not configured, bearer tokens are not validated")
	}

	systemHandler := newSystemHandler(cfg, db, stores)
	engine, rateLimiter := newEngine(cfg, log, tel, jwtService, services{
		analysis:       analysisService,
		wardrobe:       wardrobeService,
		recommendation: recommendationService,
	}, systemHandler)
	if rateLimiter != nil {
		defer rateLimiter.Stop()
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// newImageStorage returns S3 storage when configured, in-memory storage otherwise
func newImageStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) analysisapp.ImageStorage {
	if !cfg.Storage.Enabled {
		log.Warn("Object storage disabled, photos are kept in memory")
		return storage.NewMemoryImageStorage("memory://" + cfg.Storage.Bucket)
	}

	s3Storage, err := storage.NewS3ImageStorage(&cfg.Storage, storage.WithLogger(log.Named("storage")))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to prepare storage bucket", zap.Error(err), zap.String("bucket", s3Storage.Bucket()))
	}
	log.Info("Object storage ready", zap.String("bucket", s3Storage.Bucket()))
	return s3Storage
}

// startMaintenance starts the scheduler and its interval trigger. The
// returned func stops both.
func startMaintenance(
	ctx context.Context,
	cfg *config.Config,
	tracking scheduler.TrackingPurger,
	analyses scheduler.StaleAnalysisFailer,
	log *zap.Logger,
) func() {
	executor := scheduler.NewMaintenanceExecutor(tracking, analyses,
		cfg.Recommendation.TrackingRetention, cfg.Analysis.StaleAfter, log)

	maintenance, err := scheduler.NewScheduler(scheduler.SchedulerConfig{
		MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
		JobTimeout:        cfg.Scheduler.JobTimeout,
		RetryAttempts:     cfg.Scheduler.RetryAttempts,
		RetryDelay:        cfg.Scheduler.RetryDelay,
	}, executor, log.Named("scheduler"))
	if err != nil {
		log.Fatal("Invalid scheduler configuration", zap.Error(err))
	}
	if err := maintenance.Start(ctx); err != nil {
		log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
	}

	trigger := scheduler.NewIntervalTrigger(scheduler.IntervalTriggerConfig{
		Intervals: map[scheduler.JobType]time.Duration{
			scheduler.JobTypeTrackingRetention:    cfg.Scheduler.RetentionInterval,
			scheduler.JobTypeStaleAnalysisCleanup: cfg.Scheduler.StaleCheckInterval,
		},
		RunOnStart: true,
	}, maintenance, log.Named("scheduler"))
	if err := trigger.Start(ctx); err != nil {
		log.Fatal("Failed to start maintenance trigger", zap.Error(err))
	}

	log.Info("Maintenance scheduler started",
		zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
		zap.Duration("retention_interval", cfg.Scheduler.RetentionInterval),
		zap.Duration("stale_check_interval", cfg.Scheduler.StaleCheckInterval),
	)

	return func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := trigger.Stop(stopCtx); err != nil {
			log.Error("Error stopping maintenance trigger", zap.Error(err))
		}
		if err := maintenance.Stop(stopCtx); err != nil {
			log.Error("Error stopping maintenance scheduler", zap.Error(err))
		}
	}
}
