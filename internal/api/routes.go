package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, gatherer prometheus.Gatherer) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		content := api.Group("/content")
		{
			content.GET("/page/:page", handler.ContentByPage)             // GET /api/content/page/:page
			content.GET("/category/:category", handler.ContentByCategory) // GET /api/content/category/:category
		}

		categories := api.Group("/categories")
		{
			categories.GET("/page/:page", handler.CategoriesByPage) // GET /api/categories/page/:page
		}
	}
}
