package config

import (
	"os"
	"strconv"
	"time"

	"motive/internal/cache"
	"motive/internal/database"
	"motive/internal/messaging"
)

// Config holds the application configuration
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	// Hold TTL policy. Requests may ask for a TTL; it is clamped to
	// [HoldTTLMin, HoldTTLMax].
	HoldTTLDefault time.Duration
	HoldTTLMin     time.Duration
	HoldTTLMax     time.Duration

	// Sweeper settings
	SweepInterval time.Duration

	Database database.Config
	NATS     messaging.Config
	Cache    cache.Config
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "release"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		HoldTTLDefault: time.Duration(getEnvInt("HOLD_TTL_DEFAULT_SEC", 300)) * time.Second,
		HoldTTLMin:     time.Duration(getEnvInt("HOLD_TTL_MIN_SEC", 15)) * time.Second,
		HoldTTLMax:     time.Duration(getEnvInt("HOLD_TTL_MAX_SEC", 1800)) * time.Second,

		SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_SEC", 30)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "motive"),
			Password:           getEnv("DB_PASSWORD", "motive"),
			DBName:             getEnv("DB_NAME", "motive"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "motive"),
			ClientID:  getEnv("NATS_CLIENT_ID", "motive-api"),
		},

		Cache: cache.Config{
			Addr:     getEnv("CACHE_ADDR", "localhost:6379"),
			Password: getEnv("CACHE_PASSWORD", ""),
			TTL:      time.Duration(getEnvInt("CACHE_TTL_SEC", 2)) * time.Second,
		},
	}
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
