package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/serenity-app/serenity-backend/internal/handlers"
	"github.com/serenity-app/serenity-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware   *middleware.AuthMiddleware
	RateLimit        *middleware.RateLimitMiddleware
	SessionHandler   *handlers.SessionHandler
	UserHandler      *handlers.UserHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	AllowedOrigins   string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// Sessions
		api.POST("/sessions/create", cfg.RateLimit.Limit(), cfg.SessionHandler.Create)
		api.GET("/sessions", cfg.SessionHandler.List)
		api.GET("/sessions/:id", cfg.SessionHandler.Get)
		api.GET("/sessions/:id/stream", cfg.SessionHandler.Stream)
		api.POST("/sessions/:id/feedback", cfg.SessionHandler.Feedback)
		// User
		api.GET("/users/me", cfg.UserHandler.GetMe)
		// Analytics
		api.POST("/analytics/events", cfg.AnalyticsHandler.Track)
	}

	return router
}
