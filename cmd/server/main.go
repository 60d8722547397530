package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yatraseva/internal/config"
	"yatraseva/internal/events"
	"yatraseva/internal/geo"
	"yatraseva/internal/handlers"
	"yatraseva/internal/middleware"
	"yatraseva/internal/repositories/mongodb"
	"yatraseva/internal/services"
	"yatraseva/pkg/cache"
	"yatraseva/pkg/database"
	"yatraseva/pkg/logger"
	"yatraseva/pkg/websocket"
	"yatraseva/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
		Colors: !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// MongoDB
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	if err := db.EnsureIndexes(); err != nil {
		appLogger.Fatalf("Failed to ensure indexes: %v", err)
	}

	// Redis
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
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
		appLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// Websocket hub and event publisher
	wsHandler := websocket.NewHandler()
	publisher := events.NewHubPublisher(wsHandler)

	// Density sampler; a fixed seed makes demo environments repeatable
	seed := cfg.Dispatch.DensitySeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sampler := geo.NewRandomSampler(seed)

	// Repositories
	incidentRepo := mongodb.NewIncidentRepository(db.Database, redisCache)
	resourceRepo := mongodb.NewResourceRepository(db.Database, redisCache)
	slotRepo := mongodb.NewSlotRepository(db.Database)
	bookingRepo := mongodb.NewBookingRepository(db.Database)
	transactor := mongodb.NewTransactor(db)

	// Services
	incidentService := services.NewIncidentService(incidentRepo, publisher, appLogger)
	dispatchService := services.NewDispatchService(
		incidentRepo, resourceRepo, transactor, publisher, sampler,
		cfg.Dispatch, appLogger, rand.New(rand.NewSource(seed)),
	)
	bookingService := services.NewBookingService(bookingRepo, slotRepo, transactor, publisher, appLogger)
	slotService := services.NewSlotService(slotRepo, publisher, appLogger)
	resourceService := services.NewResourceService(resourceRepo, publisher, appLogger)
	crowdService := services.NewCrowdControlService(slotRepo, publisher, sampler, redisCache, cfg.Crowd, appLogger)

	if cfg.App.SeedDemoData {
		if _, err := resourceService.Seed(context.Background(), demoResources()); err != nil {
			appLogger.Errorf("Failed to seed resources: %v", err)
		}
	}

	// Handlers
	incidentHandler := handlers.NewIncidentHandler(incidentService, dispatchService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	slotHandler := handlers.NewSlotHandler(slotService)
	resourceHandler := handlers.NewResourceHandler(resourceService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))

	jwtSecret := cfg.Security.JWTSecret

	v1 := router.Group("/api/v1")
	{
		routes.SetupIncidentRoutes(v1, incidentHandler, jwtSecret)
		routes.SetupBookingRoutes(v1, bookingHandler, slotHandler, jwtSecret)
		routes.SetupResourceRoutes(v1, resourceHandler, jwtSecret)

		ws := v1.Group("/ws")
		ws.Use(middleware.AuthRequired(jwtSecret))
		ws.GET("", wsHandler.HandleWebSocket)
	}

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": cfg.App.Version,
		})
	})

	// Background crowd control sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go crowdService.Start(sweepCtx)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler: router,
	}

	go func() {
		appLogger.Infof("Starting %s on %s", cfg.App.Name, server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("Forced shutdown: %v", err)
	}
}
