package main

import (
	"context"
	"log"
	"net/url"

	"github.com/gin-gonic/gin"

	"tripmate-backend/cache"
	"tripmate-backend/config"
	"tripmate-backend/database"
	"tripmate-backend/handlers"
	"tripmate-backend/middleware"
	"tripmate-backend/services"
)

func main() {
	// Load configuration
	config.Load()

	// Connect to database
	database.Connect()

	// Connect to Redis (optional, won't crash if unavailable)
	database.ConnectRedis()

	// Offline cache gateway
	controller := buildCacheController()

	ctx := context.Background()
	if err := controller.Install(ctx); err != nil {
		// The shell is still served online; only offline coverage suffers.
		log.Printf("⚠️  Pre-cache install failed: %v", err)
	}
	if err := controller.Activate(ctx); err != nil {
		log.Printf("⚠️  Cache activation failed: %v", err)
	}

	handlers.SetWeatherService(services.NewWeatherService(config.AppConfig.WeatherAPIURL, controller))

	// Setup router
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": config.AppConfig.AppName,
			"version": config.AppConfig.CacheVersion,
		})
	})

	// ==========================================
	// AUTH ROUTES (public)
	// ==========================================
	auth := r.Group("/auth")
	{
		auth.POST("/login", handlers.Login)
	}

	// ==========================================
	// API ROUTES (authenticated)
	// ==========================================
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		// Shared expenses + settlement
		api.POST("/expenses", handlers.CreateExpense)
		api.GET("/expenses", handlers.GetExpenses)
		api.GET("/expenses/:id", handlers.GetExpense)
		api.PUT("/expenses/:id", handlers.UpdateExpense)
		api.DELETE("/expenses/:id", handlers.DeleteExpense)
		api.GET("/settlement", handlers.GetSettlement)
		api.POST("/settlement/share", handlers.ShareSettlement)
		api.GET("/stream", handlers.StreamExpenses)

		// Device storage
		api.GET("/storage/:key", handlers.GetStorageEntry)
		api.PUT("/storage/:key", handlers.PutStorageEntry)
		api.DELETE("/storage/:key", handlers.DeleteStorageEntry)
		api.GET("/checklist", handlers.GetChecklist)

		// Weather
		api.GET("/weather", handlers.GetWeather)

		// Devices
		api.PUT("/devices/fcm-token", handlers.UpdateFCMToken)

		// Activity
		api.GET("/activity", handlers.GetActivity)

		// Offline cache status
		api.GET("/offline/status", handlers.OfflineStatus(controller))
	}

	// Everything else is the app shell, served through the offline gateway
	r.NoRoute(handlers.OfflineGateway(controller))

	// Start server
	port := config.AppConfig.Port
	log.Printf("🚀 %s server starting on port %s", config.AppConfig.AppName, port)

	addr := "0.0.0.0:" + port
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func buildCacheController() *cache.Controller {
	origin, err := url.Parse(config.AppConfig.UpstreamURL)
	if err != nil {
		log.Fatal("Invalid UPSTREAM_URL:", err)
	}

	var store cache.BucketStore
	if database.Redis != nil {
		store = cache.NewRedisStore(database.Redis)
	} else {
		store = cache.NewMemoryStore()
	}

	return &cache.Controller{
		Version: config.AppConfig.CacheVersion,
		Origin:  origin,
		Store:   store,
		Fetcher: cache.NewHTTPFetcher(),
		Classifier: &cache.Classifier{
			AppHost:         origin.Host,
			WeatherHost:     config.AppConfig.WeatherHost,
			DocumentsPrefix: "/vouchers/",
			ImmutablePrefix: "/_next/static/",
			FrameworkPrefix: "/_next/",
			IconsPrefix:     "/icons/",
		},
		Precache: cache.DefaultPrecache(),
	}
}
