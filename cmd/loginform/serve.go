package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loginform"
	"github.com/vango-dev/loginform/internal/config"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the login form",
		Long: `Serve the login page, its WebSocket sessions, /healthz and /metrics.

SIGINT or SIGTERM closes every session and drains open requests within
server.shutdown_timeout.

Examples:
  loginform serve
  loginform serve --addr=:9000 --endpoint=https://api.example.com/graphql
  LOGINFORM_TRACING_ENABLED=true loginform serve --otlp-endpoint=collector:4317`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	config.RegisterFlags(cmd.Flags(), "addr", "title", "max-sessions", "endpoint", "tracing", "otlp-endpoint")
	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracing, err := setupTracing(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(cmd.Context()); err != nil {
			logger.Warn("trace exporter shutdown failed", "error", err)
		}
	}()

	app, err := loginform.New(cfg,
		loginform.WithLogger(logger),
		loginform.WithTracerProvider(tp),
	)
	if err != nil {
		return err
	}

	success("Serving login form on %s", cfg.Server.Address)
	info("GraphQL endpoint: %s", cfg.GraphQL.Endpoint)
	if cfg.Tracing.Enabled {
		info("Exporting traces to %s", cfg.Tracing.Endpoint)
	}
	return app.Run(ctx)
}
