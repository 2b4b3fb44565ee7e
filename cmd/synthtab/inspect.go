package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leengari/synthtab/internal/compare"
	"github.com/leengari/synthtab/internal/domain/dataset"
	"github.com/leengari/synthtab/internal/loader"
)

var inspectFlags struct {
	categorical []string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the inferred schema and per-column summary of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringSliceVar(&inspectFlags.categorical, "categorical", nil,
		"columns to force to CATEGORICAL")
}

func runInspect(cmd *cobra.Command, args []string) error {
	ds, err := loader.Load(args[0], loader.Options{Categorical: inspectFlags.categorical}, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d rows, %d columns\n\n", args[0], ds.Len(), ds.NumColumns())

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tKIND\tNULLS\tSUMMARY")
	for _, col := range ds.Columns() {
		nulls := 0
		for _, v := range col.Values {
			if v == nil {
				nulls++
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", col.Name, col.Kind, nulls, summarize(col))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return nil
}

// summarize renders a one-line description of a column's contents.
func summarize(col *dataset.Column) string {
	switch col.Kind {
	case dataset.KindNumeric:
		vals := col.NumericValues()
		if len(vals) == 0 {
			return "no values"
		}
		m := compare.Summarize(vals)
		return fmt.Sprintf("mean=%.4g stddev=%.4g min=%.4g max=%.4g", m.Mean, m.StdDev, m.Min, m.Max)
	case dataset.KindDatetime:
		ts := col.TimeValues()
		if len(ts) == 0 {
			return "no values"
		}
		lo, hi := ts[0], ts[0]
		for _, t := range ts[1:] {
			if t.Before(lo) {
				lo = t
			}
			if t.After(hi) {
				hi = t
			}
		}
		return fmt.Sprintf("%s .. %s", lo.Format("2006-01-02"), hi.Format("2006-01-02"))
	default:
		distinct := map[string]struct{}{}
		for _, s := range col.StringValues() {
			distinct[s] = struct{}{}
		}
		return fmt.Sprintf("%d distinct values", len(distinct))
	}
}
