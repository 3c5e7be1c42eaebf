// Package serve provides the serve command.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/skumerge/internal/appcontext"
	"github.com/agentstation/skumerge/internal/cmd/emoji"
	"github.com/agentstation/skumerge/internal/server"
	"github.com/agentstation/skumerge/pkg/constants"
)

// AppContext is what the serve command needs from the app: the shared
// interface plus the configured server defaults.
type AppContext interface {
	appcontext.Interface
	ServerConfig() server.Config
}

// NewCommand creates the serve command.
func NewCommand(app AppContext) *cobra.Command {
	defaults := app.ServerConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Serve a reconciliation session over HTTP",
		Long: `Serve starts an HTTP API around one reconciliation session.

Operators upload exports, merge, resolve conflicts, configure the output
and download the Odoo CSV through the API under /api/v1. Session events
are pushed on a WebSocket (/api/v1/updates/ws) and an SSE stream
(/api/v1/updates/stream).`,
		Example: `  skumerge serve
  skumerge serve --port 3000 --cors
  skumerge serve --host 0.0.0.0 --cache-ttl 30m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := parseConfig(cmd, defaults)
			if err != nil {
				return err
			}
			return run(cmd, app, cfg)
		},
	}

	cmd.Flags().String("host", defaults.Host, "bind address")
	cmd.Flags().Int("port", defaults.Port, "server port")
	cmd.Flags().Bool("cors", defaults.CORSEnabled, "enable CORS")
	cmd.Flags().StringSlice("cors-origins", defaults.CORSOrigins, "allowed CORS origins (comma-separated, default all)")
	cmd.Flags().Duration("cache-ttl", defaults.CacheTTL, "how long converted output stays downloadable")

	return cmd
}

func parseConfig(cmd *cobra.Command, cfg server.Config) (server.Config, error) {
	flags := cmd.Flags()
	var err error
	if cfg.Host, err = flags.GetString("host"); err != nil {
		return cfg, err
	}
	if cfg.Port, err = flags.GetInt("port"); err != nil {
		return cfg, err
	}
	if cfg.CORSEnabled, err = flags.GetBool("cors"); err != nil {
		return cfg, err
	}
	if cfg.CORSOrigins, err = flags.GetStringSlice("cors-origins"); err != nil {
		return cfg, err
	}
	if cfg.CacheTTL, err = flags.GetDuration("cache-ttl"); err != nil {
		return cfg, err
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("port out of range: %d", cfg.Port)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, app AppContext, cfg server.Config) error {
	logger := app.Logger()

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.Start()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	logger.Info().
		Str("addr", httpServer.Addr).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Dur("cache_ttl", cfg.CacheTTL).
		Str("session_id", srv.Session().ID()).
		Msg("Starting API server")

	return startWithGracefulShutdown(cmd, httpServer, srv, logger)
}

// startWithGracefulShutdown serves until the command context is cancelled.
func startWithGracefulShutdown(cmd *cobra.Command, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	out := cmd.OutOrStdout()
	serverErr := make(chan error, 1)

	go func() {
		_, _ = fmt.Fprintf(out, "%s API server listening on %s\n", emoji.Success, httpServer.Addr)
		_, _ = fmt.Fprintln(out, "   Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-cmd.Context().Done():
		logger.Info().Msg("Shutdown signal received via context")
		_, _ = fmt.Fprintf(out, "\n%s Shutting down API server...\n", emoji.Stop)

		// The parent context is already cancelled
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		bgCtx, bgCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer bgCancel()
		if err := srv.Shutdown(bgCtx); err != nil {
			logger.Warn().Err(err).Msg("Background services shutdown had issues")
		}

		logger.Info().Msg("Server stopped gracefully")
		_, _ = fmt.Fprintf(out, "%s API server stopped gracefully\n", emoji.Success)
		return nil
	}
}
