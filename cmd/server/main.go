package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	activityapp "github.com/teashop/backend/internal/application/activity"
	announcementapp "github.com/teashop/backend/internal/application/announcement"
	identityapp "github.com/teashop/backend/internal/application/identity"
	inventoryapp "github.com/teashop/backend/internal/application/inventory"
	scheduleapp "github.com/teashop/backend/internal/application/schedule"
	situationapp "github.com/teashop/backend/internal/application/situation"
	taskapp "github.com/teashop/backend/internal/application/task"
	trainingapp "github.com/teashop/backend/internal/application/training"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/infrastructure/auth"
	"github.com/teashop/backend/internal/infrastructure/cache"
	"github.com/teashop/backend/internal/infrastructure/config"
	"github.com/teashop/backend/internal/infrastructure/event"
	"github.com/teashop/backend/internal/infrastructure/i18n"
	"github.com/teashop/backend/internal/infrastructure/logger"
	"github.com/teashop/backend/internal/infrastructure/migration"
	"github.com/teashop/backend/internal/infrastructure/persistence"
	"github.com/teashop/backend/internal/infrastructure/scheduler"
	"github.com/teashop/backend/internal/infrastructure/telemetry"
	"github.com/teashop/backend/internal/interfaces/http/handler"
	"github.com/teashop/backend/internal/interfaces/http/middleware"
	"github.com/teashop/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
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
		TimeZone:   cfg.Log.TimeZone,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting tea shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
	)

	ctx := context.Background()

	// Telemetry
	tel, err := telemetry.New(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		_ = tel.Shutdown(context.Background())
	}()
	log = tel.Bridge(log)

	// Database and schema
	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level),
		persistence.WithTracing(telemetry.DBConfig{
			Enabled:            tel.Enabled() && cfg.Telemetry.DBTraceEnabled,
			LogFullSQL:         cfg.Telemetry.DBLogFullSQL,
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, tel.TracerProvider()))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := prepareSchema(db, &cfg.Database, log); err != nil {
		log.Fatal("Failed to prepare database schema", zap.Error(err))
	}
	log.Info("Database ready")

	// Token revocation and throttling
	stores, err := cache.NewStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize shared stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing shared stores", zap.Error(err))
		}
	}()

	tr, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		log.Fatal("Failed to load translations", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	timeSlotRepo := persistence.NewGormTimeSlotRepository(db.DB)
	weekRepo := persistence.NewGormWeeklyScheduleRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	trainingRepo := persistence.NewGormTrainingRepository(db.DB)
	situationRepo := persistence.NewGormSituationRepository(db.DB)
	announcementRepo := persistence.NewGormAnnouncementRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	directory := identity.NewUserDirectory(userRepo)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, stores.Revocations, eventBus, log)
	userService := identityapp.NewUserService(userRepo, stores.Revocations, jwtService, eventBus, log)
	scheduleService := scheduleapp.NewService(weekRepo, timeSlotRepo, directory, eventBus, cfg.Schedule.FirstDayOfWeek, log)
	inventoryService := inventoryapp.NewService(supplierRepo, itemRepo, directory, eventBus, log)
	taskService := taskapp.NewService(taskRepo, directory, eventBus, log)
	trainingService := trainingapp.NewService(trainingRepo, directory, eventBus, log)
	situationService := situationapp.NewService(situationRepo, directory, eventBus, log)
	announcementService := announcementapp.NewService(announcementRepo, directory, eventBus, log)
	activityService := activityapp.NewService(activityRepo, userRepo, log)

	// Event handlers
	var alerts inventoryapp.StockAlertNotifier
	lowStockHandler := inventoryapp.NewLowStockHandler(log)
	if stores.Redis != nil {
		alerts = cache.NewRedisAlertChannel[inventoryapp.StockAlert](stores.Redis, cache.DefaultAlertChannel)
		lowStockHandler.WithNotifier(alerts)
	}
	activityHandler := activityapp.NewEventHandler(activityService, log)
	eventBus.Subscribe(lowStockHandler)
	eventBus.Subscribe(activityHandler)
	log.Info("Event handlers registered",
		zap.Strings("low_stock_events", lowStockHandler.EventTypes()),
		zap.Strings("activity_events", activityHandler.EventTypes()),
	)

	// Bootstrap data
	if _, err := identityapp.NewSeeder(userRepo, cfg.Seed, log).EnsureSuperAdmin(ctx); err != nil {
		log.Fatal("Failed to seed super admin", zap.Error(err))
	}
	if cfg.Seed.DefaultTimeSlots {
		created, err := scheduleService.EnsureDefaultTimeSlots(ctx)
		if err != nil {
			log.Fatal("Failed to seed time slots", zap.Error(err))
		}
		if created > 0 {
			log.Info("Default time slots seeded", zap.Int("count", created))
		}
	}

	// Daily maintenance
	if cfg.Maintenance.Enabled {
		hour, minute, err := scheduler.ParseDailySchedule(cfg.Maintenance.DailyAt)
		if err != nil {
			log.Fatal("Invalid maintenance.daily_at", zap.Error(err))
		}
		tasks := scheduler.New(scheduler.Config{
			Workers:       cfg.Maintenance.Workers,
			RetryAttempts: cfg.Maintenance.RetryAttempts,
			RetryDelay:    cfg.Maintenance.RetryDelay,
		}, log.Named("maintenance"))
		tasks.Register(inventoryapp.NewLowStockSweep(itemRepo, alerts, log))
		tasks.Register(activityapp.NewRetentionTask(activityRepo, cfg.Maintenance.ActivityRetentionDays, log))
		if err := tasks.Start(ctx); err != nil {
			log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
		}
		trigger := scheduler.NewDailyTrigger(hour, minute, tasks, log.Named("maintenance"))
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start maintenance trigger", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = trigger.Stop(stopCtx)
			if err := tasks.Stop(stopCtx); err != nil {
				log.Error("Error stopping maintenance scheduler", zap.Error(err))
			}
		}()
	}

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if !middleware.UseAppValidator() {
		log.Warn("Request binding is not using the application validation rules")
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	if tel.Enabled() {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tel.TracerProvider(), "/health")...)
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.AccessLog(log, logger.AccessLogOptions{QuietPaths: []string{"/health"}}))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize, map[string]int64{
		router.ItemImportPath: cfg.HTTP.MaxUploadSize,
	}))
	engine.Use(tr.Middleware())

	if cfg.HTTP.RateLimitEnabled {
		limiter := stores.WindowLimiter("api", cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter, tr))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	guards := router.Guards{
		Authenticate: middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			JWTService:  jwtService,
			Revocations: stores.Revocations,
			Users:       userRepo,
			Throttle:    stores.Throttle,
			Translator:  tr,
			Logger:      log,
		}),
		Translator: tr,
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		loginLimiter := stores.WindowLimiter("login", cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		guards.LoginLimit = middleware.RateLimit(loginLimiter, tr)
	}

	base := handler.NewBaseHandler(tr)
	api := router.RegisterAll(engine, router.Handlers{
		System:       handler.NewSystemHandler(db, cfg.App.Name),
		Auth:         handler.NewAuthHandler(base, authService),
		User:         handler.NewUserHandler(base, userService),
		Schedule:     handler.NewScheduleHandler(base, scheduleService),
		Inventory:    handler.NewInventoryHandler(base, inventoryService),
		Task:         handler.NewTaskHandler(base, taskService),
		Training:     handler.NewTrainingHandler(base, trainingService),
		Situation:    handler.NewSituationHandler(base, situationService),
		Announcement: handler.NewAnnouncementHandler(base, announcementService),
		Statistics:   handler.NewStatisticsHandler(base, activityService),
	}, guards)
	log.Debug("API routes mounted", zap.Int("count", len(api.Routes())))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// prepareSchema applies the SQL migrations on postgres. SQLite and
// database.auto_migrate = true use gorm's AutoMigrate instead.
func prepareSchema(db *persistence.Database, cfg *config.DatabaseConfig, log *zap.Logger) error {
	if cfg.Driver != "postgres" || cfg.AutoMigrate {
		return db.AutoMigrate()
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared connection pool
	migrator, err := migration.New(sqlDB, "", log.Named("migrate"))
	if err != nil {
		return err
	}
	return migrator.Up()
}
