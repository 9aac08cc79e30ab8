package handler

import (
	"net/http"
	"strings"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/events-service/internal/app/events/infrastructure"
	"eventhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTClaims - claims access-токена, который выпускает Auth Service
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет JWT токен в запросах для Gin
type AuthMiddleware struct {
	jwtSecret string
	blacklist infrastructure.TokenBlacklist
}

// NewAuthMiddleware создает middleware. blacklist может быть nil - тогда отзыв токенов не проверяется.
func NewAuthMiddleware(jwtSecret string, blacklist infrastructure.TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		blacklist: blacklist,
	}
}

// Authenticate проверяет JWT токен и добавляет данные пользователя в контекст Gin
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Формат "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}
		tokenString := parts[1]

		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(m.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok || claims.Username == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid user ID in token")
			return
		}

		if m.blacklist != nil {
			revoked, err := m.blacklist.IsBlacklisted(c.Request.Context(), tokenString)
			if err != nil {
				// Без Redis нельзя отличить отозванный токен от живого
				logger.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to check token blacklist")
				abortWithError(c, http.StatusServiceUnavailable, "Authentication temporarily unavailable")
				return
			}
			if revoked {
				abortWithError(c, http.StatusUnauthorized, "Token has been revoked")
				return
			}
		}

		c.Set("user_id", userID)
		c.Set("username", claims.Username)
		c.Set("email", claims.Email)
		c.Set("is_admin", claims.IsAdmin)
		c.Set("auth_token", tokenString)

		c.Next()
	}
}

// RequireAdmin пропускает только администраторов. Ставится после Authenticate.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("is_admin") {
			abortWithError(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// identityFrom собирает Identity из значений, которые положил Authenticate
func identityFrom(c *gin.Context) (entity.Identity, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return entity.Identity{}, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		return entity.Identity{}, false
	}
	username := c.GetString("username")
	if username == "" {
		return entity.Identity{}, false
	}

	return entity.Identity{
		UserID:   userID,
		Username: username,
		IsAdmin:  c.GetBool("is_admin"),
	}, true
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, entity.ErrorResponse{Error: message})
}
