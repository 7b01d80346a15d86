package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omnistore/stock-ledger/internal/api/middleware"
	"github.com/omnistore/stock-ledger/internal/domain"
	"github.com/omnistore/stock-ledger/internal/service"
)

type PurchaseOrderHandler struct {
	workflow *service.PurchaseOrderWorkflow
}

func NewPurchaseOrderHandler(workflow *service.PurchaseOrderWorkflow) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{workflow: workflow}
}

// Get returns a single purchase order with its lines
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor := middleware.ActorFrom(c)
	order, err := h.workflow.Get(c.Request.Context(), actor, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

type updateOrderRequest struct {
	Status *string                  `json:"status"`
	Items  []service.OrderItemInput `json:"items"`
}

// Update applies a status transition and/or DRAFT line edits
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := service.OrderPatch{Items: req.Items}
	if req.Status != nil {
		status, valid := domain.ParsePOStatus(*req.Status)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
			return
		}
		patch.Status = &status
	}

	actor := middleware.ActorFrom(c)
	order, err := h.workflow.Update(c.Request.Context(), actor, orderID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

type receiveRequest struct {
	Items []service.ReceiveItem `json:"items" binding:"required"`
}

// Receive applies delivered quantities against the order
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req receiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	actor := middleware.ActorFrom(c)
	if err := h.workflow.Receive(c.Request.Context(), actor, orderID, req.Items); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
