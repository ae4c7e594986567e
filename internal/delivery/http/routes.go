package http

import (
	"github.com/gin-gonic/gin"
	"github.com/glowcart/backend/config"
	"github.com/glowcart/backend/internal/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := RegisterValidators(); err != nil {
		logging.Error().Err(err).Msg("Failed to register request validators")
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check and metrics endpoints
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.GET("/:id", handler.GetProduct)
		}

		search := v1.Group("/search")
		{
			search.GET("", handler.Search)
			search.GET("/suggestions", handler.Suggestions)
			search.GET("/facets", handler.Facets)
		}

		recommendations := v1.Group("/recommendations")
		{
			recommendations.POST("", handler.Recommend)
			recommendations.POST("/tips", handler.Tips)
		}

		v1.POST("/catalog/refresh", handler.RefreshCatalog)
		v1.POST("/cart/summary", handler.CartSummary)
		v1.POST("/checkout", handler.Checkout)
	}

	return router
}
