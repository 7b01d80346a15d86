package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/omnistore/stock-ledger/internal/api/handlers"
	"github.com/omnistore/stock-ledger/internal/api/middleware"
	"github.com/omnistore/stock-ledger/internal/service"
)

type Services struct {
	StockLedger    *service.StockLedger
	PurchaseOrders *service.PurchaseOrderWorkflow
	Inventory      *service.InventorySessionWorkflow
	Cashier        *service.CashierSessionReconciler
	Returns        *service.SaleReturnProcessor
	Notifications  *service.NotificationCenter
}

func NewRouter(services *Services, jwtSecret []byte, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
	)

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(middleware.Authenticate(jwtSecret))

	stockHandler := handlers.NewStockHandler(services.StockLedger)
	stockGroup := apiGroup.Group("/stock")
	{
		stockGroup.POST("/adjust", stockHandler.AdjustStock)
		stockGroup.POST("/transfer", stockHandler.TransferStock)
	}

	poHandler := handlers.NewPurchaseOrderHandler(services.PurchaseOrders)
	poGroup := apiGroup.Group("/purchase-orders")
	{
		poGroup.GET("/:id", poHandler.Get)
		poGroup.PATCH("/:id", poHandler.Update)
		poGroup.POST("/:id/receive", poHandler.Receive)
	}

	inventoryHandler := handlers.NewInventoryHandler(services.Inventory)
	inventoryGroup := apiGroup.Group("/inventory-sessions")
	{
		inventoryGroup.POST("", inventoryHandler.Start)
		inventoryGroup.PUT("/:id/counts", inventoryHandler.UpdateCounts)
		inventoryGroup.POST("/:id/confirm", inventoryHandler.Confirm)
	}

	cashierHandler := handlers.NewCashierHandler(services.Cashier)
	cashierGroup := apiGroup.Group("/cashier-sessions")
	{
		cashierGroup.POST("", cashierHandler.Start)
		cashierGroup.POST("/:id/close", cashierHandler.Close)
		cashierGroup.GET("/:id/summary", cashierHandler.Summary)
	}

	returnHandler := handlers.NewReturnHandler(services.Returns)
	apiGroup.POST("/sales/:id/returns", returnHandler.Return)

	notificationHandler := handlers.NewNotificationHandler(services.Notifications)
	notificationGroup := apiGroup.Group("/notifications")
	{
		notificationGroup.GET("", notificationHandler.List)
		notificationGroup.POST("/:id/read", notificationHandler.MarkRead)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
