package handler

import (
	"errors"
	"net/http"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/events-service/internal/app/events/service"
	"eventhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

// respondError переводит ошибку сервиса в HTTP ответ.
// Неизвестные ошибки логируются, клиент получает только fallback.
func respondError(c *gin.Context, err error, fallback string) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: validationErr.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request"})
	case errors.Is(err, service.ErrInvalidImage),
		errors.Is(err, service.ErrImageTooLarge),
		errors.Is(err, service.ErrOrganizerMembership):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, entity.ErrorResponse{Error: "Access denied"})
	case errors.Is(err, service.ErrEventNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Event not found"})
	case errors.Is(err, service.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Review not found"})
	case errors.Is(err, service.ErrAnalyticsNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Analytics not found"})
	case errors.Is(err, service.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Notification not found"})
	case errors.Is(err, service.ErrNotRegistered):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Registration not found"})
	case errors.Is(err, service.ErrImageNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Image not found"})
	case errors.Is(err, service.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, entity.ErrorResponse{Error: "Already registered for this event"})
	default:
		logger.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg(fallback)
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: fallback})
	}
}

func requireIdentity(c *gin.Context) (entity.Identity, bool) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
	}
	return identity, ok
}
