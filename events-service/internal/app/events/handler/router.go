package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventhub/pkg/logger"
	"eventhub/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	eventHandler *EventHandler,
	reviewHandler *ReviewHandler,
	notificationHandler *NotificationHandler,
	authMiddleware *AuthMiddleware,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("events-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", logger.RequestIDHeader},
		ExposeHeaders:    []string{"Link", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "events-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	events := router.Group("/events")
	{
		// Публичные эндпоинты
		events.GET("", eventHandler.ListEvents)
		events.GET("/:id", eventHandler.GetEvent)
		events.GET("/images/:filename", eventHandler.GetImage)

		protected := events.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("", eventHandler.CreateEvent)
			protected.PUT("/:id", eventHandler.UpdateEvent)
			protected.DELETE("/:id", eventHandler.DeleteEvent)

			protected.POST("/:id/register", eventHandler.RegisterForEvent)
			protected.DELETE("/:id/register", eventHandler.UnregisterFromEvent)
			protected.GET("/:id/analytics", eventHandler.GetAnalytics)

			protected.POST("/:id/reviews", reviewHandler.CreateReview)
			protected.DELETE("/:id/reviews/:reviewId", reviewHandler.DeleteReview)
			protected.PUT("/:id/reviews/:reviewId/response", authMiddleware.RequireAdmin(), reviewHandler.RespondToReview)
		}
	}

	notifications := router.Group("/notifications")
	notifications.Use(authMiddleware.Authenticate())
	{
		notifications.GET("", notificationHandler.ListNotifications)
		notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
		notifications.PATCH("/:id/read", notificationHandler.MarkRead)
	}

	return router
}
