package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oliveiraenergia/oilsample/internal/app"
	"github.com/oliveiraenergia/oilsample/internal/config"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	debug     bool
	storeFlag string
)

var rootCmd = &cobra.Command{
	Use:   "oilsample",
	Short: "Oil sample collection records for Oliveira Energia",
	Long: `oilsample registers oil sample collections in the shared spreadsheet.

Look a record up by sample number, edit it in the web form or from a YAML
file, and save it back: existing rows are updated in place (status columns
untouched), new numbers are appended. Every save produces the A4 PDF report.

Configuration comes from OILSAMPLE_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("debug") {
			loaded.Debug = debug
		}
		if cmd.Flags().Changed("store") {
			loaded.Store = storeFlag
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		cfg = loaded

		logger, err = app.NewLogger(cfg.Debug)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Sample store: sheets, turso or memory")
}

// openApp builds the service for a command. Callers must Close it.
func openApp(cmd *cobra.Command) (*app.App, error) {
	return app.New(cmd.Context(), cfg, logger)
}
