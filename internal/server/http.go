package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"calmcp/internal/logging"
	"calmcp/internal/rpc"
)

const (
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second

	// maxBodySize bounds one inbound HTTP request body (1 MiB).
	maxBodySize = 1024 * 1024

	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

// HTTPServer carries the JSON-RPC surface over HTTP POST, alongside health
// probes and the metrics scrape endpoint.
type HTTPServer struct {
	httpServer *http.Server
	health     *HealthChecker
	logger     *slog.Logger
}

// NewHTTPServer builds the server. metricsHandler may be nil to leave
// /metrics unregistered.
func NewHTTPServer(addr string, router *rpc.Router, metricsHandler http.Handler, logger *slog.Logger) *HTTPServer {
	if logger == nil {
		logger = slog.Default()
	}

	health := NewHealthChecker()

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Post("/mcp", handleMCP(router, logger))
	r.Get("/healthz", health.LivenessHandler())
	r.Get("/readyz", health.ReadinessHandler())
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	return &HTTPServer{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
			IdleTimeout:       idleTimeout,
		},
		health: health,
		logger: logger,
	}
}

// handleMCP accepts one JSON-RPC request body per POST and returns the
// response. Envelope and method errors are JSON-RPC errors, not HTTP ones;
// the transport always answers 200 once a body was read.
func handleMCP(router *rpc.Router, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxBodySize))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		resp := router.HandleRaw(req.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to write response", logging.Err(err))
		}
	}
}

// Start runs the server until it fails or Shutdown is called. It marks the
// server ready just before listening.
func (s *HTTPServer) Start() error {
	s.health.SetReady(true)
	s.logger.Info("http server listening", slog.String("addr", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains readiness and stops the server gracefully.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the mux for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.httpServer.Handler
}

// Health exposes the health checker for tests and for wiring.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}
