package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	financeapp "github.com/marealta/backend/internal/application/finance"
	fleetapp "github.com/marealta/backend/internal/application/fleet"
	identityapp "github.com/marealta/backend/internal/application/identity"
	inventoryapp "github.com/marealta/backend/internal/application/inventory"
	partnerapp "github.com/marealta/backend/internal/application/partner"
	workshopapp "github.com/marealta/backend/internal/application/workshop"
	"github.com/marealta/backend/internal/infrastructure/auth"
	"github.com/marealta/backend/internal/infrastructure/config"
	"github.com/marealta/backend/internal/infrastructure/logger"
	"github.com/marealta/backend/internal/infrastructure/notification"
	"github.com/marealta/backend/internal/infrastructure/persistence"
	"github.com/marealta/backend/internal/infrastructure/storage"
	"github.com/marealta/backend/internal/infrastructure/telemetry"
	"github.com/marealta/backend/internal/interfaces/http/handler"
	"github.com/marealta/backend/internal/interfaces/http/middleware"
	"github.com/marealta/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting marealta backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, &cfg.Telemetry, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() { _ = tracerProvider.Shutdown(ctx) }()

	gormLogLevel := gormlogger.Warn
	if cfg.Log.Level == "debug" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		LogLevel: gormLogLevel,
		Tracing:  cfg.Telemetry.Enabled,
	})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()

	var store storage.Storage
	if cfg.Storage.Bucket != "" {
		store, err = storage.NewS3Storage(ctx, &cfg.Storage)
		if err != nil {
			log.Fatal("failed to initialize object storage", zap.Error(err))
		}
	} else {
		store, err = storage.NewLocalStorage(cfg.Storage.LocalDir)
		if err != nil {
			log.Fatal("failed to initialize local storage", zap.Error(err))
		}
		log.Info("using local file storage", zap.String("dir", cfg.Storage.LocalDir))
	}

	// Repositories
	orderRepo := persistence.NewGormServiceOrderRepository(db.DB)
	partRepo := persistence.NewGormPartRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	financeRepo := persistence.NewGormTransactionRepository(db.DB)
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	boatRepo := persistence.NewGormBoatRepository(db.DB)

	scope := persistence.NewGormTransactionScope(db.DB)
	notifier := notification.NewNotifier(&cfg.Webhook)

	// Application services
	tokenManager := auth.NewTokenManager(&cfg.JWT)
	blacklist := auth.NewTokenBlacklist(redisClient)
	identityService := identityapp.NewService(tenantRepo, userRepo, tokenManager, blacklist)
	orderService := workshopapp.NewOrderService(scope, orderRepo, partRepo, boatRepo, notifier)
	inventoryService := inventoryapp.NewService(scope, partRepo, movementRepo, notifier)
	financeService := financeapp.NewService(financeRepo)
	partnerService := partnerapp.NewService(partnerRepo)
	fleetService := fleetapp.NewService(clientRepo, boatRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID(log))
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.CORS(middleware.CORSConfig{AllowOrigins: cfg.HTTP.CORSAllowOrigins}))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	handler.NewHealthHandler(db.DB).RegisterRoutes(engine)

	authHandler := handler.NewAuthHandler(identityService)
	r := router.NewRouter(engine, middleware.Auth(tokenManager, blacklist))
	r.Public(authHandler)
	r.Protected(
		registrarFunc(authHandler.RegisterProtectedRoutes),
		handler.NewUserHandler(identityService),
		handler.NewOrderHandler(orderService),
		handler.NewInventoryHandler(inventoryService),
		handler.NewFinanceHandler(financeService),
		handler.NewPartnerHandler(partnerService),
		handler.NewFleetHandler(fleetService),
		handler.NewUploadHandler(store),
	)
	r.Setup()

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// registrarFunc adapts a function to the RouteRegistrar interface
type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }
