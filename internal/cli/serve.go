package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"dbperf-analytics/internal/app"

	"github.com/spf13/cobra"
)

func newServeCommand(loadConfig configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve series bundles and report exports over HTTP.",
		Long: `Load the operation log and serve it over HTTP.

Routes:
  POST /series                       series bundle for a filter selection
  GET  /filters                      every database and operation
  POST /reports                      start a background report export
  GET  /reports/{id}                 export progress and artifact names
  GET  /reports/{id}/artifacts/{name}
  GET  /metrics, GET /healthz

Examples:
  dbperf serve --input perf_log.csv --port 8080
  dbperf serve --config configs/configs.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cmd, cfg.Server.Port, func() (*app.App, error) {
				return app.New(cmd.Context(), cfg)
			})
		},
	}
	cmd.Flags().Int("port", 8080, "HTTP port")
	cmd.Flags().Float64("rate-limit", 20, "Requests per second allowed on compute routes (0 disables)")
	cmd.Flags().Bool("cache", true, "Cache series bundles by filter")
	return cmd
}

func runServer(ctx context.Context, cmd *cobra.Command, port int, newApp func() (*app.App, error)) error {
	// Initialize application
	application, err := newApp()
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := application.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Server started on port %d\n", port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
