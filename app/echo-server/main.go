package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bazaarIntel/app/echo-server/router"
	"bazaarIntel/business/behavior"
	"bazaarIntel/business/insights"
	"bazaarIntel/business/recommendation"
	"bazaarIntel/business/traffic"
	"bazaarIntel/internal/middleware"
	psqlRepo "bazaarIntel/internal/repository/postgres"
	redisRepo "bazaarIntel/internal/repository/redis"
	"bazaarIntel/internal/rest"
	"bazaarIntel/pkg/config"
	"bazaarIntel/pkg/database/postgres"
	redisdb "bazaarIntel/pkg/database/redis"
	"bazaarIntel/pkg/logger"
	"bazaarIntel/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting BazaarIntel API", "version", cfg.App.Version)

	metrics.Init()

	db, err := postgres.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer func() {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Failed to close Redis client", "error", err)
		}
	}()

	// Init repo
	eventsRepo := psqlRepo.NewAnalyticsRepository(db)
	productsRepo := psqlRepo.NewProductRepository(db)
	profilesRepo := psqlRepo.NewProfileRepository(db)
	affinitiesRepo := psqlRepo.NewAffinityRepository(db)
	shopMetricsRepo := psqlRepo.NewShopMetricsRepository(db)
	shopsRepo := psqlRepo.NewShopRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	eventQueue := redisRepo.NewEventQueue(redisClient, cfg.Redis.QueueName)

	// Init service
	behaviorService := behavior.NewService(eventsRepo, productsRepo, profilesRepo, affinitiesRepo, behaviorConfig(cfg))
	trafficService := traffic.NewService(eventsRepo, shopsRepo, shopMetricsRepo, ordersRepo)
	recommendationService := recommendation.NewService(profilesRepo, affinitiesRepo, eventsRepo, productsRepo, recommendation.DefaultConfig())
	insightsService := insights.NewService(eventsRepo, productsRepo, shopsRepo, ordersRepo)

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(recommendationService)
	behaviorHandler := rest.NewBehaviorHandler(behaviorService)
	shopHandler := rest.NewShopHandler(trafficService, insightsService)
	eventsHandler := rest.NewEventsHandler(eventQueue)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "x-api-key"},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": cfg.App.Name})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	ai := e.Group("/ai", middleware.APIKeyAuth(cfg.App.APIKey))
	router.SetupRecommendationRoutes(ai, recommendationHandler)
	router.SetupBehaviorRoutes(ai, behaviorHandler)
	router.SetupShopRoutes(ai, shopHandler)
	router.SetupEventRoutes(ai, eventsHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

func behaviorConfig(cfg *config.Config) behavior.Config {
	bc := behavior.DefaultConfig()
	bc.IntentWeightProductView = cfg.Scoring.IntentWeightProductView
	bc.IntentWeightAddToCart = cfg.Scoring.IntentWeightAddToCart
	bc.IntentWeightPurchase = cfg.Scoring.IntentWeightPurchase
	bc.IntentWeightShopVisit = cfg.Scoring.IntentWeightShopVisit
	bc.PriceThresholdLow = cfg.Scoring.PriceSensitivityLow
	bc.PriceThresholdMedium = cfg.Scoring.PriceSensitivityMedium
	bc.WeightCartAdds = cfg.Scoring.PurchaseProbCart
	bc.WeightRepeatVisits = cfg.Scoring.PurchaseProbRepeat
	bc.WeightBrowsing = cfg.Scoring.PurchaseProbBrowse
	return bc
}
