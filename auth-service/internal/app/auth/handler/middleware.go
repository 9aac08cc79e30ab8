package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"eventhub/auth-service/internal/app/auth/entity"
	"eventhub/auth-service/internal/app/auth/util"
	"eventhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Ключи gin.Context, которые выставляет Authenticate
const (
	ctxUserID      = "user_id"
	ctxUsername    = "username"
	ctxIsAdmin     = "is_admin"
	ctxAccessToken = "access_token"
)

// TokenValidator - часть AuthService, нужная middleware
type TokenValidator interface {
	ValidateToken(ctx context.Context, accessToken string) (*util.JWTClaims, error)
}

type AuthMiddleware struct {
	validator TokenValidator
}

func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
	}
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}
		token := parts[1]

		claims, err := m.validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, util.ErrExpiredToken):
				abortUnauthorized(c, "Token has expired")
			case errors.Is(err, util.ErrInvalidToken):
				abortUnauthorized(c, "Invalid token")
			default:
				logger.Ctx(c.Request.Context()).Error().Err(err).Msg("Token validation failed")
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, entity.ErrorResponse{
					Error:   "Service Unavailable",
					Message: "Failed to validate token",
				})
			}
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxIsAdmin, claims.IsAdmin)
		c.Set(ctxAccessToken, token)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized", Message: message})
}
