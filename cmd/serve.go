package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"calmcp/internal/auth"
	"calmcp/internal/config"
	"calmcp/internal/gcal"
	"calmcp/internal/instrumentation"
	"calmcp/internal/logging"
	"calmcp/internal/rpc"
	"calmcp/internal/server"
	"calmcp/internal/store"
	"calmcp/internal/tools"
)

func newServeCmd() *cobra.Command {
	var (
		transport string
		listen    string
		backend   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the calendar MCP server",
		Long: `Run the calendar MCP server.

Transports:
  stdio  newline-delimited JSON-RPC on stdin/stdout (default)
  http   JSON-RPC on POST /mcp, plus /healthz, /readyz and /metrics

Backends:
  memory  in-process event store, no persistence (default)
  google  Google Calendar; tools/call is gated until 'calmcp auth' has run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// Flags override the environment.
			if cmd.Flags().Changed("transport") {
				cfg.Transport = transport
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			if cmd.Flags().Changed("backend") {
				cfg.Backend = backend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", config.TransportStdio, "Transport to serve on (stdio or http)")
	cmd.Flags().StringVar(&listen, "listen", ":8080", "Listen address for the http transport")
	cmd.Flags().StringVar(&backend, "backend", config.BackendMemory, "Event store backend (memory or google)")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logger := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		Enabled:        cfg.MetricsEnabled,
		ServiceName:    "calmcp",
		ServiceVersion: version,
	})
	if err != nil {
		return fmt.Errorf("failed to set up instrumentation: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	var (
		eventStore store.Store
		gate       auth.Gate
	)
	switch cfg.Backend {
	case config.BackendMemory:
		eventStore = store.NewMemoryStore()
	case config.BackendGoogle:
		googleGate, err := auth.NewGoogleGate(auth.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			TokenFile:    cfg.TokenFile,
		})
		if err != nil {
			return err
		}
		gate = googleGate
		eventStore = gcal.NewClient(googleGate)
	}

	registry := tools.NewRegistry(cfg.Backend == config.BackendGoogle)
	dispatcher := tools.NewDispatcher(registry, eventStore, logger, provider.Metrics())
	router := rpc.NewRouter(registry, dispatcher, gate, logger, provider.Metrics(), rpc.ServerInfo{
		Name:    "calmcp",
		Version: version,
	})

	logger.Info("starting server",
		slog.String("transport", cfg.Transport),
		slog.String(logging.KeyBackend, cfg.Backend),
	)

	switch cfg.Transport {
	case config.TransportStdio:
		return server.ServeStdio(ctx, router, os.Stdin, os.Stdout, logger)
	case config.TransportHTTP:
		return runHTTP(ctx, cfg, router, provider, logger)
	}
	return nil
}

func runHTTP(ctx context.Context, cfg config.Config, router *rpc.Router, provider *instrumentation.Provider, logger *slog.Logger) error {
	var metricsHandler http.Handler
	if provider.Enabled() {
		metricsHandler = provider.PrometheusHandler()
	}
	srv := server.NewHTTPServer(cfg.Listen, router, metricsHandler, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}
