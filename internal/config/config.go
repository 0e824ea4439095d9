// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir        string        // Directory for the local session database (always absolute)
	FundAPIURL     string        // Base address of the fund-management REST API
	FundAPITimeout time.Duration // 0 keeps the HTTP client default (no timeout)
	LogLevel       string
	Port           int
	DevMode        bool
	SessionTTL     time.Duration
	CookieSecure   bool

	HealthCheckSchedule  string
	SessionPruneSchedule string
	DBCheckSchedule      string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("VILLAGEFUND_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:              absDataDir,
		FundAPIURL:           getEnv("FUND_API_URL", "http://localhost:3301"),
		FundAPITimeout:       getEnvAsDuration("FUND_API_TIMEOUT", 0),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		Port:                 getEnvAsInt("GO_PORT", 8080),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		SessionTTL:           getEnvAsDuration("SESSION_TTL", 12*time.Hour),
		CookieSecure:         getEnvAsBool("COOKIE_SECURE", false),
		HealthCheckSchedule:  getEnv("HEALTH_CHECK_SCHEDULE", "@every 30s"),
		SessionPruneSchedule: getEnv("SESSION_PRUNE_SCHEDULE", "@every 10m"),
		DBCheckSchedule:      getEnv("DB_CHECK_SCHEDULE", "0 0 * * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	u, err := url.Parse(c.FundAPIURL)
	if err != nil {
		return fmt.Errorf("invalid FUND_API_URL %q: %w", c.FundAPIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid FUND_API_URL %q: scheme must be http or https", c.FundAPIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid FUND_API_URL %q: missing host", c.FundAPIURL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid GO_PORT %d", c.Port)
	}
	if c.FundAPITimeout < 0 {
		return fmt.Errorf("FUND_API_TIMEOUT must not be negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// SessionDBPath is where the session store lives.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.DataDir, "sessions.db")
}

// Helper functions
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
