package handler

import (
	"errors"
	"net/http"

	"eventhub/auth-service/internal/app/auth/entity"
	"eventhub/auth-service/internal/app/auth/service"
	"eventhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, err error, fallback string) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		badRequest(c, validationErr.Error())
	case errors.Is(err, service.ErrValidation):
		badRequest(c, "Invalid request body")
	case errors.Is(err, service.ErrInvalidResetToken):
		badRequest(c, "Invalid or expired reset token")
	case errors.Is(err, service.ErrInvalidCredentials):
		unauthorized(c, "Invalid email or password")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		unauthorized(c, "Invalid or expired refresh token")
	case errors.Is(err, service.ErrInvalidToken):
		unauthorized(c, "Invalid token")
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Not Found", Message: "User not found"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, entity.ErrorResponse{Error: "Conflict", Message: "User with this email already exists"})
	case errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusConflict, entity.ErrorResponse{Error: "Conflict", Message: "Username is already taken"})
	default:
		logger.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg(fallback)
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: fallback})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: message})
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized", Message: message})
}
