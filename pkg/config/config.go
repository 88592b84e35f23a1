package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Processing ProcessingConfig
	Scoring    ScoringConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	APIKey      string
}

type ServerConfig struct {
	Port string
	// MetricsPort serves the worker's Prometheus endpoint; the API binary
	// exposes /metrics on its own port instead.
	MetricsPort string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	QueueName     string
}

// ProcessingConfig drives the batch event processor.
type ProcessingConfig struct {
	BatchSize         int
	Interval          time.Duration
	ProfileSampleRate float64
	ShopSampleRate    float64
}

// ScoringConfig holds the weights and thresholds of the behavior engine.
type ScoringConfig struct {
	// per event type contribution to the intent score
	IntentWeightProductView float64
	IntentWeightAddToCart   float64
	IntentWeightPurchase    float64
	IntentWeightShopVisit   float64

	// average viewed price above Low -> "low" sensitivity,
	// above Medium -> "medium", otherwise "high" (prices in IRR)
	PriceSensitivityLow    float64
	PriceSensitivityMedium float64

	// purchase probability sub-weights
	PurchaseProbCart   float64
	PurchaseProbRepeat float64
	PurchaseProbBrowse float64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Bazaar Intelligence Service"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			APIKey:      getEnv("AI_SERVICE_API_KEY", ""),
		},
		Server: ServerConfig{
			Port:        getEnv("PORT", "4000"),
			MetricsPort: getEnv("WORKER_METRICS_PORT", "9100"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "bazaar_intel"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			QueueName:     getEnv("REDIS_QUEUE_NAME", "analytics_events"),
		},
		Processing: ProcessingConfig{
			BatchSize:         getEnvInt("BATCH_SIZE", 100),
			Interval:          time.Duration(getEnvInt("PROCESS_INTERVAL_MS", 30000)) * time.Millisecond,
			ProfileSampleRate: getEnvFloat("PROFILE_SAMPLE_RATE", 0.10),
			ShopSampleRate:    getEnvFloat("SHOP_SAMPLE_RATE", 0.05),
		},
		Scoring: ScoringConfig{
			IntentWeightProductView: getEnvFloat("INTENT_WEIGHT_PRODUCT_VIEW", 0.3),
			IntentWeightAddToCart:   getEnvFloat("INTENT_WEIGHT_ADD_TO_CART", 0.5),
			IntentWeightPurchase:    getEnvFloat("INTENT_WEIGHT_PURCHASE", 1.0),
			IntentWeightShopVisit:   getEnvFloat("INTENT_WEIGHT_SHOP_VISIT", 0.2),
			PriceSensitivityLow:     getEnvFloat("PRICE_SENSITIVITY_LOW", 1000000),
			PriceSensitivityMedium:  getEnvFloat("PRICE_SENSITIVITY_MEDIUM", 500000),
			PurchaseProbCart:        getEnvFloat("PURCHASE_PROB_CART", 0.4),
			PurchaseProbRepeat:      getEnvFloat("PURCHASE_PROB_REPEAT", 0.3),
			PurchaseProbBrowse:      getEnvFloat("PURCHASE_PROB_BROWSE", 0.3),
		},
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Processing.BatchSize <= 0 {
		return nil, errors.New("batch size must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}

	return defaultVal
}
