// Package compare computes distribution summaries for original versus
// synthetic columns: binned histograms and density estimates over a
// shared numeric range, frequency counts over the union of observed
// categories. Only the summary computation lives here; rendering
// belongs to the callers.
package compare

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/leengari/synthtab/internal/domain/dataset"
)

const (
	defaultBins = 20
	densityGrid = 64
)

// Comparison is the distribution summary for one column pair. Exactly
// one of Numeric or Categorical is set, matching the column kind
// (datetime columns summarize numerically over unix seconds).
type Comparison struct {
	Column      string
	Kind        dataset.Kind
	Numeric     *NumericComparison
	Categorical *CategoricalComparison
}

// Moments are the scalar summary statistics of one side
type Moments struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Bin is one histogram bucket over the shared range, [Lo, Hi) except
// the last bin which closes at Hi
type Bin struct {
	Lo        float64
	Hi        float64
	Original  int
	Synthetic int
}

// NumericComparison summarizes a numeric column pair over the shared
// [Lo, Hi] range spanning both sides' observed extremes
type NumericComparison struct {
	Lo   float64
	Hi   float64
	Bins []Bin

	Original  Moments
	Synthetic Moments

	// Gaussian KDE evaluated on Grid; nil when either side is
	// degenerate (empty or zero variance), in which case the histogram
	// alone carries the summary
	Grid             []float64
	OriginalDensity  []float64
	SyntheticDensity []float64
}

// CategoryCount is the per-side frequency of one observed category
type CategoryCount struct {
	Value          string
	Original       int
	Synthetic      int
	OriginalShare  float64
	SyntheticShare float64
}

// CategoricalComparison summarizes a categorical or text column pair
// over the union of both sides' observed categories
type CategoricalComparison struct {
	Categories []CategoryCount
}

// Columns compares two same-named, same-kind columns. Degenerate inputs
// (empty, all-null, zero variance) yield a valid degenerate summary.
func Columns(original, synthetic *dataset.Column) (*Comparison, error) {
	if original.Name != synthetic.Name || original.Kind != synthetic.Kind {
		return nil, fmt.Errorf("cannot compare column %s (%s) with column %s (%s)",
			original.Name, original.Kind, synthetic.Name, synthetic.Kind)
	}

	cmp := &Comparison{Column: original.Name, Kind: original.Kind}
	switch original.Kind {
	case dataset.KindNumeric:
		cmp.Numeric = Numeric(original.NumericValues(), synthetic.NumericValues())
	case dataset.KindDatetime:
		cmp.Numeric = Numeric(toUnix(original.TimeValues()), toUnix(synthetic.TimeValues()))
	case dataset.KindCategorical, dataset.KindText:
		cmp.Categorical = Categorical(original.StringValues(), synthetic.StringValues())
	default:
		return nil, fmt.Errorf("column %s: unknown kind %q", original.Name, original.Kind)
	}
	return cmp, nil
}

// Dataset compares every shared column of two schema-equal datasets in
// column order
func Dataset(original, synthetic *dataset.Dataset) ([]*Comparison, error) {
	if !original.SchemaEqual(synthetic) {
		return nil, fmt.Errorf("datasets do not share a schema")
	}
	out := make([]*Comparison, 0, original.NumColumns())
	for i, col := range original.Columns() {
		cmp, err := Columns(col, synthetic.Columns()[i])
		if err != nil {
			return nil, err
		}
		out = append(out, cmp)
	}
	return out, nil
}

// Numeric builds the histogram/density summary for two numeric value
// slices. The bin range spans both sides; a zero-width range degrades
// to a single bin holding everything.
func Numeric(original, synthetic []float64) *NumericComparison {
	cmp := &NumericComparison{
		Original:  moments(original),
		Synthetic: moments(synthetic),
	}

	all := make([]float64, 0, len(original)+len(synthetic))
	all = append(all, original...)
	all = append(all, synthetic...)
	if len(all) == 0 {
		// both sides empty: zero-bin summary, still valid
		return cmp
	}

	cmp.Lo = floats.Min(all)
	cmp.Hi = floats.Max(all)

	if cmp.Lo == cmp.Hi {
		// zero variance across both sides: one bin holds every value
		cmp.Bins = []Bin{{
			Lo: cmp.Lo, Hi: cmp.Hi,
			Original: len(original), Synthetic: len(synthetic),
		}}
		return cmp
	}

	cmp.Bins = make([]Bin, defaultBins)
	width := (cmp.Hi - cmp.Lo) / defaultBins
	for i := range cmp.Bins {
		cmp.Bins[i].Lo = cmp.Lo + float64(i)*width
		cmp.Bins[i].Hi = cmp.Lo + float64(i+1)*width
	}
	for _, v := range original {
		cmp.Bins[binIndex(v, cmp.Lo, width)].Original++
	}
	for _, v := range synthetic {
		cmp.Bins[binIndex(v, cmp.Lo, width)].Synthetic++
	}

	cmp.Grid, cmp.OriginalDensity, cmp.SyntheticDensity = densities(original, synthetic, cmp.Lo, cmp.Hi)
	return cmp
}

// Categorical builds frequency counts over the union of both sides'
// observed categories, ordered by combined count descending, ties by
// name, so repeated runs yield identical output
func Categorical(original, synthetic []string) *CategoricalComparison {
	origCounts := countValues(original)
	synCounts := countValues(synthetic)

	union := make(map[string]struct{}, len(origCounts)+len(synCounts))
	for v := range origCounts {
		union[v] = struct{}{}
	}
	for v := range synCounts {
		union[v] = struct{}{}
	}

	cmp := &CategoricalComparison{Categories: make([]CategoryCount, 0, len(union))}
	for v := range union {
		c := CategoryCount{Value: v, Original: origCounts[v], Synthetic: synCounts[v]}
		if len(original) > 0 {
			c.OriginalShare = float64(c.Original) / float64(len(original))
		}
		if len(synthetic) > 0 {
			c.SyntheticShare = float64(c.Synthetic) / float64(len(synthetic))
		}
		cmp.Categories = append(cmp.Categories, c)
	}

	sort.Slice(cmp.Categories, func(i, j int) bool {
		a, b := cmp.Categories[i], cmp.Categories[j]
		if at, bt := a.Original+a.Synthetic, b.Original+b.Synthetic; at != bt {
			return at > bt
		}
		return a.Value < b.Value
	})
	return cmp
}

// Summarize computes the scalar moments of a single value slice.
func Summarize(values []float64) Moments {
	return moments(values)
}

func moments(values []float64) Moments {
	if len(values) == 0 {
		return Moments{}
	}
	return Moments{
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		StdDev: stat.StdDev(values, nil),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
}

func binIndex(v, lo, width float64) int {
	i := int((v - lo) / width)
	if i < 0 {
		i = 0
	}
	if i >= defaultBins {
		i = defaultBins - 1 // the last bin closes at Hi
	}
	return i
}

// densities evaluates a gaussian KDE for each side on a shared grid.
// Either side being degenerate (fewer than two values, or zero
// variance) disables the density curves, leaving the histogram as the
// visibly degenerate but valid summary.
func densities(original, synthetic []float64, lo, hi float64) (grid, origDensity, synDensity []float64) {
	bwOrig := silverman(original)
	bwSyn := silverman(synthetic)
	if bwOrig == 0 || bwSyn == 0 {
		return nil, nil, nil
	}

	grid = make([]float64, densityGrid)
	step := (hi - lo) / float64(densityGrid-1)
	for i := range grid {
		grid[i] = lo + float64(i)*step
	}
	return grid, kde(grid, original, bwOrig), kde(grid, synthetic, bwSyn)
}

func silverman(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sigma := stat.StdDev(values, nil)
	return 1.06 * sigma * math.Pow(float64(len(values)), -0.2)
}

func kde(grid, values []float64, bandwidth float64) []float64 {
	const invSqrt2Pi = 0.3989422804014327
	out := make([]float64, len(grid))
	norm := 1 / (float64(len(values)) * bandwidth)
	for i, x := range grid {
		sum := 0.0
		for _, v := range values {
			z := (x - v) / bandwidth
			sum += invSqrt2Pi * math.Exp(-0.5*z*z)
		}
		out[i] = sum * norm
	}
	return out
}

func countValues(values []string) map[string]int {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	return counts
}

func toUnix(times []time.Time) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = float64(t.Unix())
	}
	return out
}
