package http

import (
	"github.com/gin-gonic/gin"

	"github.com/pncpbot/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Extraction job API
	api := router.Group("/api")
	{
		api.POST("/search", handler.StartSearch)
		api.GET("/job/:id", handler.JobStatus)
		api.POST("/export", handler.ExportRecords)
	}

	// Exported files (results.json, results.csv, screenshots)
	router.Static("/output", cfg.Extraction.OutputDir)

	return router
}
