package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oliveiraenergia/oilsample/internal/domain"
	"github.com/oliveiraenergia/oilsample/internal/samples"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Save one sample from a YAML file and write its PDF",
	Long: `Save one sample record. Fields missing from the file keep their stored
values, or take the form defaults when the sample number is new.

Example record.yaml:
  sample_number: "2024-0137"
  ugd: UGD-04
  oil_hours: "250"
  oil_changed: sim

Examples:
  oilsample submit -f record.yaml
  oilsample submit -f record.yaml -o reports/`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Save a list of samples from a YAML file",
	Long: `Save every record in a YAML list, in order. Stops at the first failure.

Examples:
  oilsample import -f records.yaml
  oilsample import -f records.yaml -o reports/`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

var (
	submitFile string
	submitOut  string
	importFile string
	importOut  string
)

func init() {
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(importCmd)

	submitCmd.Flags().StringVarP(&submitFile, "file", "f", "", "YAML record to save")
	submitCmd.Flags().StringVarP(&submitOut, "out", "o", ".", "Directory for the PDF report (empty to skip)")
	_ = submitCmd.MarkFlagRequired("file")

	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "YAML list of records to save")
	importCmd.Flags().StringVarP(&importOut, "out", "o", "", "Directory for the PDF reports (empty to skip)")
	_ = importCmd.MarkFlagRequired("file")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	records, err := readRecords(submitFile)
	if err != nil {
		return err
	}
	if len(records) != 1 {
		return fmt.Errorf("%s holds %d records; use import for lists", submitFile, len(records))
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	changes, err := records[0].changes()
	if err != nil {
		return err
	}
	form, err := a.Service.Merge(cmd.Context(), changes)
	if err != nil {
		return err
	}
	res, err := a.Service.Submit(cmd.Context(), form)
	if res != nil {
		printSubmit(cmd.OutOrStdout(), res)
	}
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), submitOut, res)
}

func runImport(cmd *cobra.Command, args []string) error {
	records, err := readRecords(importFile)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	changes := make([]domain.Form, 0, len(records))
	for i, r := range records {
		c, err := r.changes()
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		changes = append(changes, c)
	}

	results, importErr := a.Service.Import(cmd.Context(), changes)
	out := cmd.OutOrStdout()
	for _, res := range results {
		printSubmit(out, res)
		if err := writeReport(out, importOut, res); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "%d of %d records saved\n", len(results), len(records))
	return importErr
}

func printSubmit(w io.Writer, res *samples.SubmitResult) {
	if res.Created {
		fmt.Fprintf(w, "%s: appended at row %d\n", res.SampleNumber, res.Row)
	} else {
		fmt.Fprintf(w, "%s: updated row %d\n", res.SampleNumber, res.Row)
	}
	if len(res.DuplicateRows) > 0 {
		fmt.Fprintf(w, "  warning: sample number also found in rows %v\n", res.DuplicateRows)
	}
	if res.ArchiveLocation != "" {
		fmt.Fprintf(w, "  archived: %s\n", res.ArchiveLocation)
	}
}

func writeReport(w io.Writer, dir string, res *samples.SubmitResult) error {
	if dir == "" || len(res.Report) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, res.FileName)
	if err := os.WriteFile(path, res.Report, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(w, "  report: %s\n", path)
	return nil
}
