package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dealscope/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.SugaredLogger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerSecond))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/compare", handler.Compare)
		v1.GET("/export", handler.Export)
		v1.GET("/status", handler.Status)
		v1.POST("/cache/flush", handler.FlushCache)
	}

	return router
}
