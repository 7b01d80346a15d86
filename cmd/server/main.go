package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/omnistore/stock-ledger/internal/api"
	"github.com/omnistore/stock-ledger/internal/cache"
	"github.com/omnistore/stock-ledger/internal/config"
	"github.com/omnistore/stock-ledger/internal/repository"
	"github.com/omnistore/stock-ledger/internal/repository/postgres"
	"github.com/omnistore/stock-ledger/internal/service"
	"github.com/omnistore/stock-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize repositories
	stockRepo := postgres.NewStockRepository(db)
	storeRepo := postgres.NewStoreRepository(db)
	orderRepo := postgres.NewPurchaseOrderRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	cashierRepo := postgres.NewCashierRepository(db)
	saleRepo := postgres.NewSaleRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	var catalog repository.CatalogRepository = postgres.NewCatalogRepository(db)
	if cfg.Cache.Enabled {
		cached, err := cache.NewThresholdCache(cfg.Cache, catalog)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("threshold cache unavailable, using catalog directly")
		} else {
			defer cached.Close()
			catalog = cached
		}
	}

	// Initialize services
	auditor := service.NewAuditor(auditRepo)
	notifier := service.NewLowStockNotifier(catalog, notificationRepo, storeRepo)
	ledger := service.NewStockLedger(db, stockRepo, notifier, auditor)
	services := &api.Services{
		StockLedger:    ledger,
		PurchaseOrders: service.NewPurchaseOrderWorkflow(db, orderRepo, ledger, auditor),
		Inventory:      service.NewInventorySessionWorkflow(db, inventoryRepo, stockRepo, notifier, auditor),
		Cashier:        service.NewCashierSessionReconciler(db, cashierRepo, saleRepo, auditor),
		Returns:        service.NewSaleReturnProcessor(db, saleRepo, ledger, auditor),
		Notifications:  service.NewNotificationCenter(notificationRepo),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, []byte(cfg.Auth.JWTSecret), cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
