package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bazaarIntel/business/behavior"
	"bazaarIntel/business/processor"
	"bazaarIntel/business/traffic"
	psqlRepo "bazaarIntel/internal/repository/postgres"
	redisRepo "bazaarIntel/internal/repository/redis"
	"bazaarIntel/pkg/config"
	"bazaarIntel/pkg/database/postgres"
	redisdb "bazaarIntel/pkg/database/redis"
	"bazaarIntel/pkg/logger"
	"bazaarIntel/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting BazaarIntel worker", "version", cfg.App.Version)

	metrics.Init()

	db, err := postgres.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

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

	proc := processor.New(
		eventQueue,
		behaviorService,
		trafficService,
		processor.NewSampler(time.Now().UnixNano()),
		processor.Config{
			BatchSize:         cfg.Processing.BatchSize,
			Interval:          cfg.Processing.Interval,
			ProfileSampleRate: cfg.Processing.ProfileSampleRate,
			ShopSampleRate:    cfg.Processing.ShopSampleRate,
		},
	)

	// Worker-side metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%s", cfg.Server.MetricsPort)
		logger.Info("Worker metrics listening", "address", addr)
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			logger.Error("Worker metrics server failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := proc.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("Event processor stopped with error", "error", err)
	}

	stats := proc.Stats()
	logger.Info("Worker stopped",
		"processed_count", stats.ProcessedCount,
		"error_count", stats.ErrorCount,
		"success_rate", stats.SuccessRate,
	)
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
