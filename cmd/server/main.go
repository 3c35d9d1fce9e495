package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	catalogapp "github.com/libsys/acquisitions/internal/application/catalog"
	ordersapp "github.com/libsys/acquisitions/internal/application/orders"
	receivingapp "github.com/libsys/acquisitions/internal/application/receiving"
	"github.com/libsys/acquisitions/internal/infrastructure/cache"
	"github.com/libsys/acquisitions/internal/infrastructure/config"
	"github.com/libsys/acquisitions/internal/infrastructure/inventory"
	"github.com/libsys/acquisitions/internal/infrastructure/logger"
	"github.com/libsys/acquisitions/internal/infrastructure/storage"
	"github.com/libsys/acquisitions/internal/infrastructure/telemetry"
	"github.com/libsys/acquisitions/internal/interfaces/http/handler"
	"github.com/libsys/acquisitions/internal/interfaces/http/middleware"
	"github.com/libsys/acquisitions/internal/interfaces/http/router"
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

	log.Info("Starting acquisitions service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Reference-id cache: Redis when enabled, in-memory otherwise
	var refCache cache.ReferenceCache
	if cfg.Redis.Enabled {
		factory := cache.NewReferenceCacheFactory(
			cache.RedisConfig{
				Addr:     cfg.Redis.Addr(),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			},
			cfg.Cache.TTL,
			cache.WithLogger(log),
		)
		refCache, err = factory.CreateCache()
		if err != nil {
			log.Fatal("Failed to create reference cache", zap.Error(err))
		}
	} else {
		refCache = cache.NewInMemoryReferenceCache(cfg.Cache.TTL)
	}

	// Remote collaborators
	storageClient, err := storage.NewClient(storage.Config{
		BaseURL: cfg.Storage.BaseURL,
		Timeout: cfg.Storage.Timeout,
		Tenant:  cfg.Storage.Tenant,
		Token:   cfg.Storage.Token,
	}, log)
	if err != nil {
		log.Fatal("Failed to create storage client", zap.Error(err))
	}
	inventoryClient, err := inventory.NewClient(inventory.Config{
		BaseURL: cfg.Inventory.BaseURL,
		Timeout: cfg.Inventory.Timeout,
		Tenant:  cfg.Inventory.Tenant,
		Token:   cfg.Inventory.Token,
	}, log)
	if err != nil {
		log.Fatal("Failed to create inventory client", zap.Error(err))
	}

	// Business metrics on the global meter provider
	meter := otel.Meter("github.com/libsys/acquisitions")
	businessMetrics, err := telemetry.NewBusinessMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Application services
	materializer := catalogapp.NewMaterializer(inventoryClient, refCache, log)
	materializer.SetBusinessMetrics(businessMetrics)

	orderService := ordersapp.NewOrderUpdateService(storageClient, materializer, log)
	orderService.SetBusinessMetrics(businessMetrics)

	receivingService := receivingapp.NewReceivingService(storageClient, inventoryClient, receivingapp.StandardProcessor{}, log)
	receivingService.SetBusinessMetrics(businessMetrics)

	// HTTP engine and middleware
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.RegisterValidators(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.BodyLimit(cfg.HTTP.MaxBodyBytes),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewOrderHandler(orderService))
	r.Register(handler.NewReceivingHandler(receivingService))
	r.Setup()

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
