package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/omnistore/stock-ledger/internal/api/middleware"
	"github.com/omnistore/stock-ledger/internal/service"
)

type NotificationHandler struct {
	center *service.NotificationCenter
}

func NewNotificationHandler(center *service.NotificationCenter) *NotificationHandler {
	return &NotificationHandler{center: center}
}

// List returns the store's alerts, optionally unread only
func (h *NotificationHandler) List(c *gin.Context) {
	storeID, _ := strconv.ParseInt(c.Query("store_id"), 10, 64)
	unreadOnly := c.Query("unread") == "true"

	actor := middleware.ActorFrom(c)
	notifications, err := h.center.List(c.Request.Context(), actor, storeID, unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkRead dismisses one alert
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor := middleware.ActorFrom(c)
	if err := h.center.MarkRead(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
