package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"motoride/internal/config"
	"motoride/internal/handlers"
	"motoride/internal/middleware"
	"motoride/internal/notifier"
	"motoride/internal/realtime"
	"motoride/internal/repositories/interfaces"
	"motoride/internal/repositories/memory"
	"motoride/internal/repositories/mongodb"
	"motoride/internal/services"
	"motoride/pkg/cache"
	"motoride/pkg/database"
	"motoride/pkg/logger"
	"motoride/pkg/websocket"
	"motoride/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Redis is optional: without it location ticks stay in-process and the
	// ride cache is disabled.
	var redisCache *cache.RedisCache
	var channel realtime.Channel
	redisCache, err = cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Warn("Redis unavailable, using in-process location channel")
		redisCache = nil
		channel = realtime.NewLocalChannel()
	} else {
		channel = realtime.NewRedisChannel(redisCache, appLogger)
	}

	// The document store is preferred; fall back to the in-process store
	// when it is unreachable so the service still comes up.
	var rideRepo interfaces.RideRepository
	var companies services.CompanyProvider
	mongoDB, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Warn("MongoDB unavailable, using in-process ride store")
		rideRepo = memory.NewRideRepository()
	} else {
		defer mongoDB.Close()
		if err := mongoDB.EnsureIndexes(context.Background()); err != nil {
			appLogger.WithError(err).Warn("Failed to ensure ride indexes")
		}
		var rideCache mongodb.Cache
		if redisCache != nil {
			rideCache = redisCache
		}
		rideRepo = mongodb.NewRideRepository(mongoDB.Database, rideCache)
		companies = mongodb.NewCompanyRepository(mongoDB.Database)
	}

	// Services
	pricingService := services.NewPricingService(services.NewStaticSettingsProvider(cfg.Pricing))
	billingService := services.NewBillingService(companies)
	var events notifier.Notifier = notifier.NewWebhookNotifier(cfg.Webhook, appLogger)
	rideService := services.NewRideService(rideRepo, pricingService, billingService, channel, events, appLogger)
	dispatchService := services.NewDispatchService(rideRepo, cfg.Dispatch)

	// Handlers
	hub := websocket.NewHub(channel, &websocket.Config{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		PingInterval:    cfg.WebSocket.PingInterval,
		PongTimeout:     cfg.WebSocket.PongTimeout,
		WriteTimeout:    cfg.WebSocket.WriteTimeout,
		AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
	}, appLogger)
	rideHandler := handlers.NewRideHandler(rideService)
	dispatchHandler := handlers.NewDispatchHandler(dispatchService)
	locationHandler := handlers.NewLocationHandler(rideService, hub)

	// Initialize Gin router
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())

	// API routes
	v1 := router.Group("/api/v1")
	{
		routes.SetupRideRoutes(v1, rideHandler, dispatchHandler, locationHandler)
	}

	// Live location stream
	router.GET("/ws/rides/:id/location", locationHandler.StreamLocation)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.Infof("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, router))
}
