package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oliveiraenergia/oilsample/internal/app"
	"github.com/oliveiraenergia/oilsample/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form",
	Long: `Start the sample collection web form.

Examples:
  oilsample serve              # Start on OILSAMPLE_PORT (default 8080)
  oilsample serve --port 3000  # Start on port 3000
  oilsample serve --store turso`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides OILSAMPLE_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	port := cfg.Port
	if servePort != 0 {
		port = servePort
	}

	server := web.NewServer(port, a.Service, logger).WithShutdownTimeout(cfg.ShutdownTimeout)
	return server.Start(ctx)
}
