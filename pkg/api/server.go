package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/meltano/hub-api/pkg/async"
	"github.com/meltano/hub-api/pkg/httputil"
	"github.com/meltano/hub-api/pkg/hub"
	"github.com/meltano/hub-api/pkg/observability"
	"github.com/meltano/hub-api/pkg/storage"
)

// Server represents the hub API server
type Server struct {
	hub     *hub.Hub
	store   *storage.Store
	router  *mux.Router
	handler http.Handler
	log     *observability.Logger
	health  *observability.HealthChecker
}

// Options tunes a Server beyond its data sources
type Options struct {
	// Logger for request logs. Defaults to an info-level JSON logger.
	Logger *observability.Logger

	// ETag stamped on every response. Empty disables conditional
	// request handling.
	ETag string

	// Registry enables the /metrics endpoint and request
	// instrumentation when set.
	Registry *prometheus.Registry

	// Metrics to instrument with. When nil, a fresh set is registered
	// on Registry. Pass the instance shared with the hub so cache
	// counters land in the same registry.
	Metrics *observability.Metrics
}

// NewServer creates a new API server
func NewServer(h *hub.Hub, store *storage.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	s := &Server{
		hub:    h,
		store:  store,
		router: mux.NewRouter(),
		log:    opts.Logger,
		health: observability.NewHealthChecker(store.DB()),
	}

	s.setupRoutes(opts.Registry)

	middlewares := []func(http.Handler) http.Handler{
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.log),
		httputil.RecoveryMiddleware(s.log),
	}
	if opts.Registry != nil {
		metrics := opts.Metrics
		if metrics == nil {
			metrics = observability.NewMetrics(opts.Registry)
		}
		async.SafeGo(context.Background(), 30*time.Second, "catalog gauges", func(ctx context.Context) error {
			return s.setCatalogGauges(ctx, metrics)
		})
		middlewares = append(middlewares, observability.HTTPMetricsMiddleware(metrics))
	}
	if opts.ETag != "" {
		middlewares = append(middlewares, httputil.ETagMiddleware(opts.ETag))
	}
	s.handler = httputil.Chain(middlewares...)(s.router)

	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes(registry *prometheus.Registry) {
	plugins := s.router.PathPrefix("/meltano/api/v1/plugins").Subrouter()
	plugins.HandleFunc("/index", s.pluginIndex).Methods("GET")
	plugins.HandleFunc("/made-with-sdk", s.sdkPlugins).Methods("GET")
	plugins.HandleFunc("/stats", s.pluginStats).Methods("GET")
	plugins.HandleFunc("/{type}/index", s.pluginTypeIndex).Methods("GET")
	plugins.HandleFunc("/{type}/{name}", s.pluginVariants).Methods("GET")
	plugins.HandleFunc("/{type}/{name}/{variant}", s.pluginDetails).Methods("GET")

	maintainers := s.router.PathPrefix("/meltano/api/v1/maintainers").Subrouter()
	maintainers.HandleFunc("", s.maintainers).Methods("GET")
	maintainers.HandleFunc("/", s.maintainers).Methods("GET")
	maintainers.HandleFunc("/top", s.topMaintainers).Methods("GET")
	maintainers.HandleFunc("/{id}", s.maintainer).Methods("GET")

	s.router.HandleFunc("/health", s.health.Readiness).Methods("GET")
	s.router.HandleFunc("/health/live", s.health.Liveness).Methods("GET")

	if registry != nil {
		s.router.Handle("/metrics", observability.MetricsHandler(registry)).Methods("GET")
	}
}

// setCatalogGauges publishes catalog sizes. The catalog is read-only for
// the lifetime of the process, so the gauges are set once.
func (s *Server) setCatalogGauges(ctx context.Context, metrics *observability.Metrics) error {
	stats, err := s.hub.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect catalog stats: %w", err)
	}
	for t, count := range stats {
		metrics.PluginsTotal.WithLabelValues(string(t)).Set(float64(count))
	}

	index, err := s.hub.PluginIndex(ctx)
	if err != nil {
		return fmt.Errorf("failed to build catalog index: %w", err)
	}

	variants := 0
	for _, typeIndex := range index {
		for _, ref := range typeIndex {
			variants += len(ref.Variants)
		}
	}
	metrics.VariantsTotal.Set(float64(variants))
	return nil
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// writeHubError maps catalog errors onto API responses
func (s *Server) writeHubError(w http.ResponseWriter, err error) {
	var badParam *hub.BadParameterError
	if errors.As(err, &badParam) {
		httputil.WriteBadRequest(w, badParam.Message)
		return
	}

	var notFound *hub.NotFoundError
	if errors.As(err, &notFound) {
		httputil.WriteNotFoundError(w, notFound.Message)
		return
	}

	s.log.WithError(err).Error("request failed")
	httputil.WriteInternalError(w, err)
}
