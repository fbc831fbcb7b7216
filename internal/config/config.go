package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	Environment          string
	PredictionAPIURL     string
	FirestoreProject     string
	FirestoreCredentials string
	LogLevel             string
	LogPretty            bool
	SessionTTL           time.Duration
	PredictTimeout       time.Duration
	ChartWindow          int
}

// Load reads configuration from the environment, after loading .env if present
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "production"),
		PredictionAPIURL:     strings.TrimRight(getEnv("PREDICTION_API_URL", ""), "/"),
		FirestoreProject:     getEnv("FIRESTORE_PROJECT_ID", ""),
		FirestoreCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogPretty:            getEnvAsBool("LOG_PRETTY", false),
		SessionTTL:           getEnvAsDuration("SESSION_TTL", time.Hour),
		PredictTimeout:       getEnvAsDuration("PREDICT_TIMEOUT", 30*time.Second),
		ChartWindow:          getEnvAsInt("CHART_WINDOW", 30),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.PredictionAPIURL == "" {
		return fmt.Errorf("PREDICTION_API_URL is required")
	}
	u, err := url.Parse(c.PredictionAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PREDICTION_API_URL must be an absolute URL, got %q", c.PredictionAPIURL)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.PredictTimeout <= 0 {
		return fmt.Errorf("PREDICT_TIMEOUT must be positive")
	}
	if c.ChartWindow < 0 {
		return fmt.Errorf("CHART_WINDOW must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
