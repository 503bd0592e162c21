package main

import (
	"fmt"
	"net/http"
	"os"

	"shortwatch/internal/config"
	"shortwatch/internal/database"
	"shortwatch/internal/handlers"
	"shortwatch/internal/logger"
	"shortwatch/internal/middleware"
	"shortwatch/internal/services"
	"shortwatch/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Shortwatch API
// @version         1.0
// @description     Shortwatch aggregates regulator-published short-position reports into ranked time series, industry treemaps, and stock detail pages.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	shortPositionService := services.NewShortPositionService(db)
	treemapService := services.NewTreemapService(db)
	instrumentService := services.NewInstrumentServiceWithTimeout(db, appConfig.LookupTimeout)

	// Initialize handlers
	shortsHandler := handlers.NewShortsHandler(shortPositionService, treemapService)
	stocksHandler := handlers.NewStocksHandler(instrumentService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	shorts := v1.Group("/shorts")
	shorts.GET("/top", shortsHandler.GetTopSeries)
	shorts.GET("/treemap", shortsHandler.GetTreemap)

	stocks := v1.Group("/stocks")
	stocks.GET("/search", stocksHandler.Search)
	stocks.GET("/:code", stocksHandler.GetDetail)

	log.Infof("Starting Shortwatch backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
