// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	HUB_HOST="0.0.0.0"
//	HUB_PORT="8080"
//	HUB_READ_TIMEOUT="15s"
//	HUB_WRITE_TIMEOUT="15s"
//
// Catalog settings:
//
//	HUB_DATABASE_PATH="plugins.db"
//	HUB_API_URL="http://localhost:8080"
//	HUB_URL="https://hub.meltano.com"
//	HUB_CACHE_ENTRIES="1024"
//	HUB_CACHE_TTL="5m"
//	HUB_ETAG="etag-abc123"  # defaults to a fresh UUID per process
//
// Observability settings:
//
//	HUB_LOG_LEVEL="info"  # debug, info, warn, error
//	HUB_METRICS_ENABLED="true"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Catalog: %s\n", cfg.Catalog.DatabasePath)
//
// # Related Packages
//
//   - pkg/storage: Opens the catalog at Catalog.DatabasePath
//   - pkg/observability: Uses observability configuration
package config
