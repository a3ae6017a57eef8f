// Package api Valheim save inventory REST API
//
// @title           Valheim Save REST API
// @version         1.0.0
// @description     Decodes Valheim inventory blobs and stores snapshots of them.
// @host            localhost:9200
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsRefreshInterval = 30 * time.Second
	shutdownTimeout        = 10 * time.Second
)

// Routes builds the router. Metrics registered in gatherer are served at /metrics.
func (s *Server) Routes(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	m := s.metrics
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(m.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		// Health check
		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		// Decoding
		r.Post("/inventory/parse", m.InstrumentHandler("POST", "/api/v1/inventory/parse", s.handleParse))
		r.Post("/inventory/summary", m.InstrumentHandler("POST", "/api/v1/inventory/summary", s.handleSummary))
		r.Post("/save/inventories", m.InstrumentHandler("POST", "/api/v1/save/inventories", s.handleSaveInventories))

		// Snapshots
		r.Post("/snapshots", m.InstrumentHandler("POST", "/api/v1/snapshots", s.handleCreateSnapshot))
		r.Get("/snapshots", m.InstrumentHandler("GET", "/api/v1/snapshots", s.handleListSnapshots))
		r.Get("/snapshots/{id}", m.InstrumentHandler("GET", "/api/v1/snapshots/{id}", s.handleGetSnapshot))
		r.Delete("/snapshots/{id}", m.InstrumentHandler("DELETE", "/api/v1/snapshots/{id}", s.handleDeleteSnapshot))
		r.Get("/snapshots/{id}/diff/{other}",
			m.InstrumentHandler("GET", "/api/v1/snapshots/{id}/diff/{other}", s.handleDiffSnapshots))
	})

	return r
}

// StartServer serves the API until ctx is cancelled, then shuts down gracefully
func StartServer(ctx context.Context, store SnapshotStore, config ServerConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := NewMetrics(reg)

	server := NewServer(store, config, metrics, logger)

	addr := net.JoinHostPort(config.Bind, strconv.Itoa(config.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Routes(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start background metrics updater
	go server.startMetricsUpdater(ctx, metricsRefreshInterval)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting REST API server", "addr", addr, "metrics", fmt.Sprintf("http://%s/metrics", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down REST API server")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
