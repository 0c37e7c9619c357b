package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
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
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Storefront Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Idempotency store for payment callback deduplication.
	// Redis is preferred; a single-node deployment can run on the
	// in-memory store at the cost of losing dedup state on restart.
	var idempotencyStore shared.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory idempotency store", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	} else {
		idempotencyStore = redisStore
		log.Info("Redis idempotency store connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	stockMutationRepo := persistence.NewGormStockMutationRepository(db.DB)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	stockAlertHandler := inventoryapp.NewStockAlertHandler(log)
	eventBus.Subscribe(stockAlertHandler, stockAlertHandler.EventTypes()...)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	stockService := inventoryapp.NewStockService(productRepo, stockMutationRepo, log)
	stockService.SetMaxRetries(cfg.Stock.MaxRetries)
	stockService.SetEventPublisher(eventBus)

	couponService := promotionapp.NewCouponService(couponRepo, log)

	pricingEngine := checkoutapp.NewPricingEngine(checkoutapp.PricingConfig{
		ShippingFees: map[order.ShippingMethod]decimal.Decimal{
			order.ShippingStandard: cfg.Pricing.ShippingStandard,
			order.ShippingExpress:  cfg.Pricing.ShippingExpress,
			order.ShippingSameDay:  cfg.Pricing.ShippingSameDay,
		},
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		TaxRate:               cfg.Pricing.TaxRate,
	})

	productService := catalogapp.NewProductService(productRepo, categoryRepo, stockService, log)

	orderService := checkoutapp.NewOrderService(orderRepo, productRepo, stockService, couponService, pricingEngine, log)
	orderService.SetEventPublisher(eventBus)
	orderService.SetIdempotencyStore(idempotencyStore)

	// JWT service for the admin API
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers and router
	engine := router.New(cfg, log, jwtService, router.Handlers{
		System:          handler.NewSystemHandler(db),
		Product:         handler.NewProductHandler(productService),
		Category:        handler.NewCategoryHandler(productService),
		Stock:           handler.NewStockHandler(stockService),
		Coupon:          handler.NewCouponHandler(couponService),
		Order:           handler.NewOrderHandler(orderService),
		PaymentCallback: handler.NewPaymentCallbackHandler(orderService),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
