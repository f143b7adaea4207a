package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"rentify_backend/database"
	"rentify_backend/internal/auth"
	"rentify_backend/internal/config"
	"rentify_backend/internal/email"
	"rentify_backend/internal/handlers"
	"rentify_backend/internal/logger"
	"rentify_backend/internal/metrics"
	"rentify_backend/internal/middleware"
	"rentify_backend/internal/payment"
	"rentify_backend/internal/plans"
	"rentify_backend/internal/repositories"
	"rentify_backend/internal/routes"
	"rentify_backend/internal/services"
	"rentify_backend/internal/storage"
	"rentify_backend/internal/validator"
	"rentify_backend/internal/workers"
	"rentify_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

// App - собранное приложение: база, сервисы и роутер.
type App struct {
	cfg      *config.Config
	db       *gorm.DB
	services *services.ServiceContainer
	router   *gin.Engine
	worker   *workers.SubscriptionWorker
}

// New opens the database, migrates it and wires every component.
func New(cfg *config.Config) (*App, error) {
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, !cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("Database connected")

	m := metrics.New("rentify")
	container, err := initializeServices(cfg, db, m)
	if err != nil {
		return nil, err
	}

	if err := seedFirstAdmin(context.Background(), container.AuthService, cfg); err != nil {
		// Если не удалось создать админа - не запускаем сервер
		return nil, fmt.Errorf("failed to seed first admin user: %w", err)
	}

	return &App{
		cfg:      cfg,
		db:       db,
		services: container,
		router:   SetupRouter(cfg, db, container, m),
		worker: workers.NewSubscriptionWorker(
			repositories.NewSubscriptionRepository(db),
			time.Duration(cfg.Workers.ExpiryInterval)*time.Minute,
		),
	}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	a.worker.Start(workerCtx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	stopWorker()
	a.worker.Wait()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return a.Close()
}

func (a *App) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate only brings the schema up to date.
func Migrate(cfg *config.Config) error {
	logger.Init(cfg.Server.Env)
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, false)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	if err := database.Migrate(db); err != nil {
		return err
	}
	logger.Info("Migrations applied", "driver", cfg.Database.Driver)
	return nil
}

func SetupRouter(cfg *config.Config, db *gorm.DB, container *services.ServiceContainer, m *metrics.Metrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	appHandlers := initializeHandlers(container, db)
	ginRouter := initializeGinRouter(cfg, m)

	if cfg.Storage.Type == "local" && cfg.Storage.BaseURL != "" && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		ginRouter.Static(cfg.Storage.BaseURL, cfg.Storage.BasePath)
	}

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = m.Handler()
	}
	routes.RegisterRoutes(ginRouter, appHandlers, container.AuthService, cfg.Metrics.Path, metricsHandler)
	return ginRouter
}

func initializeServices(cfg *config.Config, db *gorm.DB, m *metrics.Metrics) (*services.ServiceContainer, error) {
	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	if err != nil {
		return nil, err
	}

	images, err := storage.NewImageStore(storage.Config{
		Type:         cfg.Storage.Type,
		BasePath:     cfg.Storage.BasePath,
		BaseURL:      cfg.Storage.BaseURL,
		Bucket:       cfg.Storage.Bucket,
		Region:       cfg.Storage.Region,
		AccessKey:    cfg.Storage.AccessKey,
		SecretKey:    cfg.Storage.SecretKey,
		Endpoint:     cfg.Storage.Endpoint,
		PublicRead:   cfg.Storage.PublicRead,
		CloudName:    cfg.Storage.CloudName,
		APIKey:       cfg.Storage.APIKey,
		APISecret:    cfg.Storage.APISecret,
		Folder:       cfg.Storage.Folder,
		MaxSize:      cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
		MaxDimension: cfg.Upload.MaxDimension,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	gateway, err := payment.New(cfg.Payment.Provider, cfg.Payment.DeclinePrefix)
	if err != nil {
		return nil, err
	}

	provider, err := newEmailProvider(cfg)
	if err != nil {
		return nil, err
	}

	repos := services.Repositories{
		Users:         repositories.NewUserRepository(db),
		Properties:    repositories.NewPropertyRepository(db),
		Views:         repositories.NewPropertyViewRepository(db),
		Subscriptions: repositories.NewSubscriptionRepository(db),
		Reports:       repositories.NewReportRepository(db),
	}

	return services.NewServiceContainer(repos, services.Dependencies{
		Tokens:    tokens,
		Images:    images,
		Payments:  gateway,
		Plans:     plans.Default(),
		Notifier:  email.NewNotifier(provider, nil),
		Validator: validator.New(),
		Metrics:   m,
		MaxImages: cfg.Upload.MaxImages,
	}), nil
}

func initializeHandlers(container *services.ServiceContainer, db *gorm.DB) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		PropertyHandler:     handlers.NewPropertyHandler(baseHandler, container.PropertyService),
		SubscriptionHandler: handlers.NewSubscriptionHandler(baseHandler, container.SubscriptionService),
		AdminHandler:        handlers.NewAdminHandler(baseHandler, container.AdminService),
		ReportHandler:       handlers.NewReportHandler(baseHandler, container.ReportService),
		HealthHandler:       handlers.NewHealthHandler(db),
	}
}

func initializeGinRouter(cfg *config.Config, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 8 << 20
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.MetricsMiddleware(m))
	return router
}

func seedFirstAdmin(ctx context.Context, authService services.AuthService, cfg *config.Config) error {
	if cfg.FirstAdmin.Email == "" || cfg.FirstAdmin.Password == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}
	return authService.EnsureAdmin(ctx, cfg.FirstAdmin.Name, cfg.FirstAdmin.Email, cfg.FirstAdmin.Password)
}
