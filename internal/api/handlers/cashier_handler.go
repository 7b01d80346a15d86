package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/omnistore/stock-ledger/internal/api/middleware"
	"github.com/omnistore/stock-ledger/internal/service"
)

type CashierHandler struct {
	reconciler *service.CashierSessionReconciler
}

func NewCashierHandler(reconciler *service.CashierSessionReconciler) *CashierHandler {
	return &CashierHandler{reconciler: reconciler}
}

type startCashierRequest struct {
	UserID         int64           `json:"user_id" binding:"required"`
	StoreID        int64           `json:"store_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// Start opens a cashier session with the declared opening balance
func (h *CashierHandler) Start(c *gin.Context) {
	var req startCashierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	actor := middleware.ActorFrom(c)
	session, err := h.reconciler.Start(c.Request.Context(), actor, req.UserID, req.StoreID, req.OpeningBalance)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

type closeCashierRequest struct {
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// Close reconciles expected against declared cash and seals the session
func (h *CashierHandler) Close(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req closeCashierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	actor := middleware.ActorFrom(c)
	session, err := h.reconciler.Close(c.Request.Context(), actor, sessionID, req.ClosingBalance)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Summary returns the mid-shift aggregation without closing
func (h *CashierHandler) Summary(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor := middleware.ActorFrom(c)
	summary, err := h.reconciler.LiveSummary(c.Request.Context(), actor, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
