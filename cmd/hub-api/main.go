package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/meltano/hub-api/pkg/api"
	"github.com/meltano/hub-api/pkg/async"
	"github.com/meltano/hub-api/pkg/config"
	"github.com/meltano/hub-api/pkg/hub"
	"github.com/meltano/hub-api/pkg/observability"
	"github.com/meltano/hub-api/pkg/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.NewLogger(observability.ErrorLevel, os.Stderr).WithError(err).Error("Invalid configuration")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	store, err := storage.Open(cfg.Catalog.DatabasePath)
	if err != nil {
		logger.WithError(err).Errorf("Failed to open catalog %s", cfg.Catalog.DatabasePath)
		os.Exit(1)
	}

	var registry *prometheus.Registry
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		registry = prometheus.NewRegistry()
		metrics = observability.NewMetrics(registry)
	}

	catalog := hub.New(store, hub.Config{
		APIURL:       cfg.Catalog.APIURL,
		HubURL:       cfg.Catalog.HubURL,
		CacheEntries: cfg.Catalog.CacheEntries,
		CacheTTL:     cfg.Catalog.CacheTTL,
		Metrics:      metrics,
	})

	async.SafeGo(context.Background(), 2*time.Minute, "details cache warmup", func(ctx context.Context) error {
		if errs := catalog.WarmDetailsCache(ctx, 4); len(errs) > 0 {
			logger.Warnf("Cache warmup finished with %d errors", len(errs))
		}
		return nil
	})

	server := api.NewServer(catalog, store, api.Options{
		Logger:   logger,
		ETag:     cfg.Catalog.ETag,
		Registry: registry,
		Metrics:  metrics,
	})

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Infof("Serving hub API on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	manager := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	manager.RegisterShutdownFunc(func(ctx context.Context) error {
		return store.Close()
	})

	if err := manager.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown failed")
		os.Exit(1)
	}
}
