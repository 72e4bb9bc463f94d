package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sat_practice_backend/internal/config"
	"sat_practice_backend/internal/controller"
	"sat_practice_backend/internal/repository"
	"sat_practice_backend/internal/service"
	"sat_practice_backend/pkg/database"
	"sat_practice_backend/pkg/logger"
	"sat_practice_backend/pkg/monitoring"
	"sat_practice_backend/pkg/security"
	"sat_practice_backend/pkg/tracing"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config  *config.Config
	Router  *gin.Engine
	DB      *gorm.DB
	Redis   *redis.Client
	Limiter *security.IPRateLimiter

	services        *services
	tracer          *sdktrace.TracerProvider
	cancel          context.CancelFunc
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	question *repository.QuestionRepository
	attempt  *repository.AttemptRepository
}

type services struct {
	storage    *service.StorageService
	catalog    *service.CatalogService
	attempt    *service.AttemptService
	imports    *service.ImportService
	admin      *service.AdminService
	catalogHub *service.CatalogHub
}

type controllers struct {
	health    *controller.HealthController
	question  *controller.QuestionController
	attempt   *controller.AttemptController
	admin     *controller.AdminController
	catalogWS *controller.CatalogWSController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig applies the hot-reloadable parts of cfg. Database, redis and
// storage settings need a restart.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
	logger.Log.Info("Config reloaded",
		zap.Int("cacheTTLSeconds", cfg.Catalog.CacheTTLSeconds),
		zap.Int("rateLimit", cfg.RateLimit.MaxRequests))
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		question: repository.NewQuestionRepository(db),
		attempt:  repository.NewAttemptRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.catalog = service.NewCatalogService(repos.question, rdb, cfg.Catalog)
	s.attempt = service.NewAttemptService(s.catalog, repos.attempt)
	s.imports = service.NewImportService(repos.question, s.catalog, s.storage, cfg.Import)
	s.admin = service.NewAdminService(repos.question, s.catalog)
	s.catalogHub = service.NewCatalogHub(s.catalog)

	a.RegisterConfigCallback(func(c *config.Config) {
		s.catalog.SetCacheTTL(c.Catalog.CacheTTL())
	})

	return s
}

func (a *App) initControllers(s *services, cfg *config.Config) *controllers {
	return &controllers{
		health:    controller.NewHealthController(a.DB, a.Redis),
		question:  controller.NewQuestionController(s.catalog, s.attempt, cfg.Catalog.DefaultPageSize),
		attempt:   controller.NewAttemptController(s.attempt),
		admin:     controller.NewAdminController(s.admin, s.imports),
		catalogWS: controller.NewCatalogWSController(s.catalogHub),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.Limiter = security.NewIPRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())
	router.Use(a.Limiter.Middleware())
	a.RegisterConfigCallback(func(c *config.Config) {
		a.Limiter.SetLimit(c.RateLimit.MaxRequests, c.RateLimit.Window())
	})

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the catalog change relay and the live
// subscription hub until Shutdown.
func (a *App) startBackgroundTasks(s *services) {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go s.catalog.Run(ctx)
	go s.catalogHub.Run(ctx)
}

// NewApp connects to the database and redis, then builds the router.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}
	return app
}

// New wires an App on already opened connections. rdb may be nil.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(app.services, cfg)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(app.services)
	return app
}

// Shutdown stops background tasks and closes every live subscription.
func (a *App) Shutdown(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.services != nil && a.services.catalogHub != nil {
		a.services.catalogHub.Stop()
	}
	if a.Limiter != nil {
		a.Limiter.Stop()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.Shutdown(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Info("Server exiting")
}
