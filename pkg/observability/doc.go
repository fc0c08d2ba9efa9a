// Package observability provides structured logging, Prometheus metrics, and health checks.
//
// # Overview
//
// This package centralizes observability infrastructure for the hub API: JSON
// logging, metrics collection, health probes, and graceful shutdown.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.Infof("Serving on %s", addr)
//
// Context-aware logging:
//
//	logger.WithField("request_id", reqID).WithError(err).Error("Request failed")
//
// # Prometheus Metrics
//
// Initialize metrics:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.HTTPRequestsTotal.WithLabelValues("GET", "/plugins/index", "200").Inc()
//
// Catalog metrics:
//
//	metrics.PluginsTotal.WithLabelValues("extractors").Set(float64(count))
//	metrics.VariantsTotal.Set(float64(variants))
//
// # Health Checks
//
// Configure health checker:
//
//	checker := observability.NewHealthChecker(store.DB())
//	mux.HandleFunc("/health", checker.Readiness)
//
// # Graceful Shutdown
//
//	observability.GracefulShutdown(logger, server, func(ctx context.Context) error {
//		return store.Close()
//	})
//
// # Related Packages
//
//   - pkg/httputil: Request logging and recovery middleware
package observability
