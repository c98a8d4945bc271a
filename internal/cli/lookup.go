package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/oliveiraenergia/oilsample/internal/domain"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <sample-number>",
	Short: "Show the stored record for a sample number",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	res, err := a.Service.Lookup(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !res.Found {
		fmt.Fprintf(out, "%s: not found, a new record would be appended\n", res.SampleNumber)
		return nil
	}
	fmt.Fprintf(out, "%s: row %d\n", res.SampleNumber, res.Row)
	if len(res.DuplicateRows) > 0 {
		fmt.Fprintf(out, "warning: sample number also found in rows %v\n", res.DuplicateRows)
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Section", "Field", "Value"})
	for _, s := range domain.Sections {
		for _, f := range s.Fields {
			t.AppendRow(table.Row{s.Title, f.Label, res.Form.Get(f.Key)})
		}
		t.AppendSeparator()
	}

	extras := make([]string, 0, len(res.Extras))
	for h := range res.Extras {
		extras = append(extras, h)
	}
	sort.Strings(extras)
	for _, h := range extras {
		t.AppendRow(table.Row{"Planilha", h, res.Extras[h]})
	}
	t.Render()
	return nil
}
