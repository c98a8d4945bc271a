package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oliveiraenergia/oilsample/internal/adapters/turso"
	"github.com/oliveiraenergia/oilsample/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations for the turso store",
	Long: `Run database migrations for the turso sample store.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  oilsample migrate      # Run all pending migrations
  oilsample migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	target := -1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return fmt.Errorf("invalid version number: %s", args[0])
		}
		target = v
	}

	db, err := turso.NewDB(turso.Config{URL: cfg.Database.URL, AuthToken: cfg.Database.AuthToken})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	version, err := migrate.New(db, logger).To(cmd.Context(), target)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Current version: %d\n", version)
	return nil
}
