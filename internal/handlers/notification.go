package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stagegear/inventory/internal/middleware"
	"github.com/stagegear/inventory/internal/services"
	"github.com/stagegear/inventory/pkg/response"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	items, err := h.notificationService.ListForUser(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// MarkRead POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notificationService.MarkRead(c.Request.Context(), middleware.GetIdentity(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// MarkAllRead POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if _, err := h.notificationService.MarkAllReadForUser(c.Request.Context(), middleware.GetIdentity(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}
