package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omnistore/stock-ledger/internal/api/middleware"
	"github.com/omnistore/stock-ledger/internal/service"
)

type StockHandler struct {
	ledger *service.StockLedger
}

func NewStockHandler(ledger *service.StockLedger) *StockHandler {
	return &StockHandler{ledger: ledger}
}

type adjustStockRequest struct {
	VariationID int64 `json:"variation_id" binding:"required"`
	StoreID     int64 `json:"store_id"`
	NewQuantity *int  `json:"new_quantity" binding:"required"`
}

// AdjustStock sets the absolute quantity of one variation at one store
func (h *StockHandler) AdjustStock(c *gin.Context) {
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	actor := middleware.ActorFrom(c)
	if err := h.ledger.Adjust(c.Request.Context(), actor, req.StoreID, req.VariationID, *req.NewQuantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type transferStockRequest struct {
	FromStoreID int64                  `json:"from_store_id"`
	ToStoreID   int64                  `json:"to_store_id" binding:"required"`
	Items       []service.TransferItem `json:"items" binding:"required"`
}

// TransferStock moves quantities between two stores atomically
func (h *StockHandler) TransferStock(c *gin.Context) {
	var req transferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	actor := middleware.ActorFrom(c)
	if err := h.ledger.Transfer(c.Request.Context(), actor, req.FromStoreID, req.ToStoreID, req.Items); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
