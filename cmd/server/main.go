package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/erp/backoffice/internal/application/backoffice"
	catalogapp "github.com/erp/backoffice/internal/application/catalog"
	integrationapp "github.com/erp/backoffice/internal/application/integration"
	partnerapp "github.com/erp/backoffice/internal/application/partner"
	pricingapp "github.com/erp/backoffice/internal/application/pricing"
	"github.com/erp/backoffice/internal/infrastructure/cache"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/erp/backoffice/internal/interfaces/http/handler"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/erp/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting back office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	db, err := persistence.NewDatabase(ctx, &cfg.Database, log,
		persistence.WithLogLevel(logger.GormLevel(cfg.Log.Level)),
		persistence.WithTracing(telemetry.GormTracingConfig{
			Enabled:          cfg.Telemetry.Enabled,
			DBName:           cfg.Database.DBName,
			SlowQuery:        cfg.Database.SlowQuery,
			IncludeVariables: !cfg.IsProduction(),
		}),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	productRepo := persistence.NewGormProductRepository(db.DB)
	variationRepo := persistence.NewGormProductVariationRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	platformRepo := persistence.NewGormSalePlatformRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRepository(db.DB)
	recordRepo := persistence.NewGormPricingRecordRepository(db.DB)
	supplierProductRepo := persistence.NewGormSupplierProductRepository(db.DB)

	productService := catalogapp.NewProductService(productRepo, variationRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	commissionService := pricingapp.NewCommissionService(platformRepo, commissionRepo)
	recordService := pricingapp.NewRecordService(recordRepo, platformRepo, commissionRepo, productService)
	supplierProductService := integrationapp.NewSupplierProductService(supplierProductRepo, productService, supplierService)

	var saveGuard gin.HandlerFunc
	if cfg.Idempotency.Enabled {
		store, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(!cfg.Idempotency.RequireRedis),
		).CreateStore(ctx)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		defer func() { _ = store.Close() }()
		saveGuard = middleware.Idempotency(store, cfg.Idempotency.TTL)
	}

	pricingSessions := backoffice.NewSessionRegistry[*backoffice.PricingForm](
		cfg.Session.IdleTTL, cfg.Session.SweepInterval, log.Named("pricing_forms"))
	defer pricingSessions.Close()
	supplierSessions := backoffice.NewSessionRegistry[*backoffice.SupplierIntegrationForm](
		cfg.Session.IdleTTL, cfg.Session.SweepInterval, log.Named("supplier_integration_forms"))
	defer supplierSessions.Close()

	collaborators := backoffice.Collaborators{
		Catalog:          productService,
		Suppliers:        supplierService,
		Commissions:      commissionService,
		PricingRecords:   recordService,
		SupplierProducts: supplierProductService,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tp.IsEnabled(),
		}),
		middleware.SpanAttributes(),
		logger.GinMiddleware(log),
		middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", handler.NewHealthHandler(db).Check)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	for _, g := range router.DomainGroups(router.Handlers{
		Products:         handler.NewProductHandler(productService),
		Suppliers:        handler.NewSupplierHandler(supplierService),
		Pricing:          handler.NewPricingHandler(commissionService, recordService),
		SupplierProducts: handler.NewSupplierProductHandler(supplierProductService),
		PricingForms:     handler.NewPricingFormHandler(pricingSessions, collaborators, log),
		SupplierForms:    handler.NewSupplierIntegrationFormHandler(supplierSessions, collaborators, log),
	}, saveGuard) {
		r.Register(g)
	}
	r.Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
