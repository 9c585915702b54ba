package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	inventoryapp "github.com/lotledger/backend/internal/application/inventory"
	orderingapp "github.com/lotledger/backend/internal/application/ordering"
	procurementapp "github.com/lotledger/backend/internal/application/procurement"
	"github.com/lotledger/backend/internal/infrastructure/config"
	"github.com/lotledger/backend/internal/infrastructure/logger"
	"github.com/lotledger/backend/internal/infrastructure/persistence"
	"github.com/lotledger/backend/internal/interfaces/http/handler"
	"github.com/lotledger/backend/internal/interfaces/http/middleware"
	"github.com/lotledger/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting lotledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

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

	// Transaction scopes: one per workflow flavor, all over the same pool
	inventoryScope := persistence.NewGormTransactionScope(db.DB)
	orderingScope := persistence.NewGormOrderingTransactionScope(db.DB)
	procurementScope := persistence.NewGormProcurementTransactionScope(db.DB)

	// Application services
	stockService := inventoryapp.NewStockLotService(inventoryScope, log)
	variantService := inventoryapp.NewVariantService(inventoryScope, log)
	orderService := orderingapp.NewOrderLifecycleService(orderingScope, stockService, log)
	receivingService := procurementapp.NewReceivingService(procurementScope, stockService, log)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if len(cfg.HTTP.CORSOrigins) > 0 {
		engine.Use(middleware.CORS(cfg.HTTP.CORSOrigins))
	}
	if cfg.HTTP.RateLimit > 0 {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimit, time.Minute)))
	}

	router.NewRouter(engine).Register(
		handler.NewVariantHandler(variantService, stockService),
		handler.NewStockLotHandler(stockService),
		handler.NewOrderHandler(orderService),
		handler.NewReceiptHandler(receivingService),
		handler.NewSystemHandler(db, cfg.App.Name),
	).Setup()

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
