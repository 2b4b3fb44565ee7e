package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/leengari/synthtab/internal/domain/dataset"
	derrors "github.com/leengari/synthtab/internal/domain/errors"
)

// Cardinality beyond which a categorical column is considered extreme:
// the model degrades to memorized resampling and says so.
const extremeCardinality = 200

// Empirical fits per-column empirical distributions and samples from
// them: numeric columns draw a smoothed bootstrap (observed value plus
// gaussian noise at the Silverman bandwidth), categorical and text
// columns draw frequency-weighted observed values, datetime columns
// draw uniformly over the observed window. Deterministic under a seed.
type Empirical struct {
	rng    *rand.Rand
	logger *slog.Logger
	schema []dataset.ColumnSpec
	models []columnModel
	fitted bool
}

type columnModel struct {
	spec     dataset.Kind
	nullRate float64

	// numeric
	values    []float64
	bandwidth float64

	// categorical / text
	categories []string
	weights    []int

	// datetime
	start time.Time
	end   time.Time
}

// NewEmpirical creates an unfitted empirical generator. The same seed
// over the same source dataset reproduces the same samples.
func NewEmpirical(seed int64, logger *slog.Logger) *Empirical {
	return &Empirical{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

func (g *Empirical) Name() string { return "empirical" }

// Fit learns per-column distributions from the source dataset
func (g *Empirical) Fit(ctx context.Context, src *dataset.Dataset) error {
	if src == nil || src.NumColumns() == 0 {
		return &derrors.ModelError{Model: g.Name(), Stage: "fit",
			Err: fmt.Errorf("source dataset is empty")}
	}
	if src.Len() == 0 {
		return &derrors.ModelError{Model: g.Name(), Stage: "fit",
			Err: fmt.Errorf("source dataset has no rows to learn from")}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	g.schema = src.Schema()
	g.models = make([]columnModel, src.NumColumns())

	for i, col := range src.Columns() {
		m, err := g.fitColumn(col, src.Len())
		if err != nil {
			return &derrors.ModelError{Model: g.Name(), Stage: "fit", Err: err}
		}
		g.models[i] = m
	}

	g.fitted = true
	g.logger.Info("model fitted",
		slog.String("model", g.Name()),
		slog.Int("rows", src.Len()),
		slog.Int("columns", src.NumColumns()),
	)
	return nil
}

func (g *Empirical) fitColumn(col *dataset.Column, rows int) (columnModel, error) {
	m := columnModel{spec: col.Kind}

	switch col.Kind {
	case dataset.KindNumeric:
		m.values = col.NumericValues()
		m.nullRate = nullRate(len(m.values), rows)
		if len(m.values) > 0 {
			sigma := stat.StdDev(m.values, nil)
			// Silverman's rule; collapses to zero for constant columns,
			// which then resample the constant exactly
			m.bandwidth = 1.06 * sigma * math.Pow(float64(len(m.values)), -0.2)
		}
	case dataset.KindCategorical, dataset.KindText:
		observed := col.StringValues()
		m.nullRate = nullRate(len(observed), rows)
		counts := make(map[string]int, len(observed))
		for _, v := range observed {
			if _, seen := counts[v]; !seen {
				m.categories = append(m.categories, v)
			}
			counts[v]++
		}
		m.weights = make([]int, len(m.categories))
		for i, c := range m.categories {
			m.weights[i] = counts[c]
		}
		if len(m.categories) > extremeCardinality {
			g.logger.Warn("extreme cardinality, model degrades to resampling observed values",
				slog.String("column", col.Name),
				slog.Int("distinct", len(m.categories)),
			)
		}
	case dataset.KindDatetime:
		times := col.TimeValues()
		m.nullRate = nullRate(len(times), rows)
		for i, t := range times {
			if i == 0 || t.Before(m.start) {
				m.start = t
			}
			if i == 0 || t.After(m.end) {
				m.end = t
			}
		}
	default:
		return m, fmt.Errorf("column %s: unknown kind %q", col.Name, col.Kind)
	}

	if m.nullRate == 1 {
		g.logger.Warn("column holds only nulls, synthetic cells will all be null",
			slog.String("column", col.Name))
	}
	return m, nil
}

// Sample draws n synthetic rows with the fitted schema
func (g *Empirical) Sample(ctx context.Context, n int) (*dataset.Dataset, error) {
	if !g.fitted {
		return nil, &derrors.ModelError{Model: g.Name(), Stage: "sample",
			Err: fmt.Errorf("model has not been fitted")}
	}
	if n < 0 {
		return nil, &derrors.ModelError{Model: g.Name(), Stage: "sample",
			Err: fmt.Errorf("negative row count %d", n)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := dataset.New(g.schema...)
	if err != nil {
		return nil, &derrors.ModelError{Model: g.Name(), Stage: "sample", Err: err}
	}

	for r := 0; r < n; r++ {
		row := make(map[string]interface{}, len(g.schema))
		for i, spec := range g.schema {
			row[spec.Name] = g.drawCell(&g.models[i])
		}
		if err := out.AppendRow(row); err != nil {
			return nil, &derrors.ModelError{Model: g.Name(), Stage: "sample", Err: err}
		}
	}
	return out, nil
}

func (g *Empirical) drawCell(m *columnModel) interface{} {
	if m.nullRate > 0 && g.rng.Float64() < m.nullRate {
		return nil
	}

	switch m.spec {
	case dataset.KindNumeric:
		if len(m.values) == 0 {
			return nil
		}
		base := m.values[g.rng.Intn(len(m.values))]
		return base + g.rng.NormFloat64()*m.bandwidth
	case dataset.KindCategorical, dataset.KindText:
		if len(m.categories) == 0 {
			return nil
		}
		return m.categories[weightedIndex(g.rng, m.weights)]
	case dataset.KindDatetime:
		if m.start.IsZero() && m.end.IsZero() {
			return nil
		}
		span := m.end.Sub(m.start)
		if span <= 0 {
			return m.start
		}
		return m.start.Add(time.Duration(g.rng.Int63n(int64(span) + 1)))
	}
	return nil
}

// weightedIndex draws an index proportionally to integer weights
func weightedIndex(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	target := rng.Intn(total)
	for i, w := range weights {
		target -= w
		if target < 0 {
			return i
		}
	}
	return len(weights) - 1
}

func nullRate(observed, rows int) float64 {
	if rows == 0 {
		return 0
	}
	return float64(rows-observed) / float64(rows)
}
