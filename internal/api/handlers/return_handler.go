package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omnistore/stock-ledger/internal/api/middleware"
	"github.com/omnistore/stock-ledger/internal/service"
)

type ReturnHandler struct {
	processor *service.SaleReturnProcessor
}

func NewReturnHandler(processor *service.SaleReturnProcessor) *ReturnHandler {
	return &ReturnHandler{processor: processor}
}

type returnRequest struct {
	Items []service.ReturnItem `json:"items" binding:"required"`
}

// Return records a sale return and restocks the returned quantities
func (h *ReturnHandler) Return(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	actor := middleware.ActorFrom(c)
	returnID, err := h.processor.ReturnItems(c.Request.Context(), actor, saleID, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "return_id": returnID})
}
