package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltano/hub-api/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Catalog configuration
	Catalog CatalogConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// CatalogConfig holds catalog database and API surface configuration
type CatalogConfig struct {
	// Path to the SQLite catalog built by hub-build
	DatabasePath string

	// Absolute URL the API is served from, used in ref links
	APIURL string

	// Absolute URL of the hub website, used in docs and logo links
	HubURL string

	// Detail document cache
	CacheEntries int
	CacheTTL     time.Duration

	// ETag stamped on every response, rotated on each build
	ETag string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Catalog:       loadCatalogConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("HUB_HOST", "0.0.0.0"),
		Port:            getEnv("HUB_PORT", "8080"),
		ReadTimeout:     getEnvDuration("HUB_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("HUB_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("HUB_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("HUB_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// loadCatalogConfig loads catalog configuration from environment
func loadCatalogConfig() CatalogConfig {
	return CatalogConfig{
		DatabasePath: getEnv("HUB_DATABASE_PATH", "plugins.db"),
		APIURL:       getEnv("HUB_API_URL", "http://localhost:8080"),
		HubURL:       getEnv("HUB_URL", "https://hub.meltano.com"),
		CacheEntries: getEnvInt("HUB_CACHE_ENTRIES", 1024),
		CacheTTL:     getEnvDuration("HUB_CACHE_TTL", 5*time.Minute),
		ETag:         getEnv("HUB_ETAG", "etag-"+uuid.NewString()),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("HUB_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("HUB_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	if c.Catalog.DatabasePath == "" {
		return fmt.Errorf("catalog database path is required")
	}
	if !strings.HasPrefix(c.Catalog.APIURL, "http://") && !strings.HasPrefix(c.Catalog.APIURL, "https://") {
		return fmt.Errorf("invalid API URL: %s", c.Catalog.APIURL)
	}
	if !strings.HasPrefix(c.Catalog.HubURL, "http://") && !strings.HasPrefix(c.Catalog.HubURL, "https://") {
		return fmt.Errorf("invalid hub URL: %s", c.Catalog.HubURL)
	}
	if c.Catalog.CacheEntries <= 0 {
		return fmt.Errorf("cache entries must be positive")
	}
	if c.Catalog.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	if c.Catalog.ETag == "" {
		return fmt.Errorf("ETag is required")
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
