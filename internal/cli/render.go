package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oliveiraenergia/oilsample/internal/report"
)

var renderCmd = &cobra.Command{
	Use:   "render <sample-number>",
	Short: "Write the PDF report of a stored sample",
	Long: `Write the PDF report of a stored sample.

Examples:
  oilsample render 2024-0137                 # writes amostra_2024-0137.pdf
  oilsample render 2024-0137 -o /tmp/a.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var renderOut string

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file (default amostra_<number>.pdf)")
}

func runRender(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	pdf, err := a.Service.Report(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	path := renderOut
	if path == "" {
		path = report.FileName(args[0])
	}
	if err := os.WriteFile(path, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "report: %s\n", path)
	return nil
}
