package handler

import (
	"net/http"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/events-service/internal/app/events/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationServiceInterface
}

func NewNotificationHandler(notificationService service.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications - GET /notifications. Администратор видит также общие админские уведомления.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	list, err := h.notificationService.ListNotifications(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "Failed to fetch notifications")
		return
	}

	c.JSON(http.StatusOK, list)
}

// MarkRead - PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "Invalid notification ID")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), identity, id); err != nil {
		respondError(c, err, "Failed to update notification")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Notification marked as read"})
}

// MarkAllRead - PATCH /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "Failed to update notifications")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Notifications marked as read",
		Data:    gin.H{"updated": updated},
	})
}
