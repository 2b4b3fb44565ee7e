package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/leengari/synthtab/internal/compare"
	"github.com/leengari/synthtab/internal/domain/dataset"
)

const previewRows = 10

func clockSeed() int64 {
	return time.Now().UnixNano()
}

// printPreview renders the leading rows of a dataset as an aligned table
func printPreview(out io.Writer, ds *dataset.Dataset) {
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)

	for i, col := range ds.Columns() {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col.Name)
	}
	fmt.Fprintln(w)

	for r := 0; r < ds.Len() && r < previewRows; r++ {
		for i, col := range ds.Columns() {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, dataset.FormatCell(col.Values[r]))
		}
		fmt.Fprintln(w)
	}
	w.Flush()

	if ds.Len() > previewRows {
		fmt.Fprintf(out, "... %d more rows\n", ds.Len()-previewRows)
	}
	fmt.Fprintln(out)
}

// printComparisons renders original vs synthetic distribution summaries
func printComparisons(out io.Writer, comparisons []*compare.Comparison) {
	for _, cmp := range comparisons {
		fmt.Fprintf(out, "Distribution of %s (%s)\n", cmp.Column, cmp.Kind)

		w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
		switch {
		case cmp.Numeric != nil:
			fmt.Fprintln(w, "\tcount\tmean\tstddev\tmin\tmax")
			printMoments(w, "original", cmp.Numeric.Original)
			printMoments(w, "synthetic", cmp.Numeric.Synthetic)
		case cmp.Categorical != nil:
			fmt.Fprintln(w, "value\toriginal\tsynthetic")
			for _, c := range cmp.Categorical.Categories {
				fmt.Fprintf(w, "%s\t%.1f%%\t%.1f%%\n",
					c.Value, c.OriginalShare*100, c.SyntheticShare*100)
			}
		}
		w.Flush()
		fmt.Fprintln(out)
	}
}

func printMoments(w io.Writer, label string, m compare.Moments) {
	fmt.Fprintf(w, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\n",
		label, m.Count, m.Mean, m.StdDev, m.Min, m.Max)
}
