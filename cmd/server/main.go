package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"restaurant_analytics/internal/config"
	"restaurant_analytics/internal/database"
	"restaurant_analytics/internal/handlers"
	"restaurant_analytics/internal/migrations"
	"restaurant_analytics/internal/redis"
	"restaurant_analytics/internal/repository"
	"restaurant_analytics/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid TIMEZONE:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if cfg.AutoMigrate {
		if err := migrations.RunMigrations(db); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
	}

	// Initialize Redis report cache
	var cache services.ReportCache
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: report cache disabled: %v", err)
		} else {
			defer redisClient.Close()
			cache = redisClient
		}
	}

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	menuItemRepo := repository.NewMenuItemRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	userRepo := repository.NewUserRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	purchaseOrderRepo := repository.NewPurchaseOrderRepository(db)

	// Initialize services
	opts := services.Options{
		Location:     loc,
		QueryTimeout: cfg.QueryTimeout,
		CacheTTL:     cfg.ReportCacheTTL,
	}
	statisticsService := services.NewStatisticsService(orderRepo, menuItemRepo, cache, opts)
	ratingService := services.NewRatingService(reviewRepo, menuItemRepo, userRepo, opts)
	supplierService := services.NewSupplierService(supplierRepo, purchaseOrderRepo, opts)

	// Initialize handlers
	analyticsHandler := handlers.NewAnalyticsHandler(statisticsService, ratingService, supplierService, loc)

	// Setup routes
	router := gin.Default()
	router.GET("/health", analyticsHandler.Health)
	analyticsHandler.RegisterRoutes(router.Group("/api"))

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
