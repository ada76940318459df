package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/storefront/internal/shop/service"
	"github.com/aussiebroadwan/storefront/pkg/cryptox"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	StoreDriver  string // Backing store (memory, sqlite) (default: memory)
	DatabaseFile string // Path to SQLite database file (default: ./storefront.db)

	ChallengeTTL   time.Duration // Validity window for one-time codes (default: 10m)
	MaxCodeRetries int           // Failed verifications before the code is destroyed (default: 3)
	SweepInterval  time.Duration // Expired-record sweep interval (default: 60s)
	SessionTTL     time.Duration // Browser session lifetime (default: 24h)

	APITokenSecret string        // HS256 secret for API tokens (random per boot if empty)
	APITokenTTL    time.Duration // API token lifetime (default: 1h)

	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 8080),

		StoreDriver:  getEnvOrDefault("STORE_DRIVER", "memory"),
		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "storefront.db"),

		ChallengeTTL:   getEnvDurationOrDefault("OTP_TTL", service.DefaultChallengeTTL),
		MaxCodeRetries: getEnvIntOrDefault("OTP_MAX_ATTEMPTS", service.DefaultMaxAttempts),
		SweepInterval:  getEnvDurationOrDefault("SWEEP_INTERVAL", service.DefaultSweepInterval),
		SessionTTL:     getEnvDurationOrDefault("SESSION_TTL", service.DefaultSessionTTL),

		APITokenSecret: os.Getenv("API_TOKEN_SECRET"),
		APITokenTTL:    getEnvDurationOrDefault("API_TOKEN_TTL", time.Hour),

		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	// Without a configured secret, API tokens are valid only for the life of
	// this process.
	if cfg.APITokenSecret == "" {
		cfg.APITokenSecret = cryptox.MustGenerateToken(cryptox.TokenSize256)
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers read as seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
