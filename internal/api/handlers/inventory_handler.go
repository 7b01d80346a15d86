package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omnistore/stock-ledger/internal/api/middleware"
	"github.com/omnistore/stock-ledger/internal/service"
)

type InventoryHandler struct {
	workflow *service.InventorySessionWorkflow
}

func NewInventoryHandler(workflow *service.InventorySessionWorkflow) *InventoryHandler {
	return &InventoryHandler{workflow: workflow}
}

type startSessionRequest struct {
	StoreID int64 `json:"store_id"`
}

// Start opens a session snapshotting the store's current stock
func (h *InventoryHandler) Start(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	actor := middleware.ActorFrom(c)
	session, err := h.workflow.Start(c.Request.Context(), actor, req.StoreID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

type updateCountsRequest struct {
	Items    []service.CountInput `json:"items" binding:"required"`
	Finalize bool                 `json:"finalize"`
}

// UpdateCounts writes counted quantities, optionally moving to REVIEW
func (h *InventoryHandler) UpdateCounts(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	actor := middleware.ActorFrom(c)
	session, err := h.workflow.UpdateCounts(c.Request.Context(), actor, sessionID, req.Items, req.Finalize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Confirm commits the counted values over the ledger
func (h *InventoryHandler) Confirm(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor := middleware.ActorFrom(c)
	if err := h.workflow.Confirm(c.Request.Context(), actor, sessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
