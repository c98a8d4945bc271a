package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/oliveiraenergia/oilsample/internal/app"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify credentials and the sheet header row",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	store, err := app.OpenSheets(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	problems, err := store.VerifyHeader(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(problems) == 0 {
		fmt.Fprintf(out, "sheet %q: header matches A..AH\n", cfg.Sheets.SheetName)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"#", "Problem"})
	for i, p := range problems {
		t.AppendRow(table.Row{i + 1, p})
	}
	t.Render()
	return fmt.Errorf("sheet %q: %d header mismatches", cfg.Sheets.SheetName, len(problems))
}
