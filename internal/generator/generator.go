// Package generator defines the capability boundary around the
// generative model and the implementations that stand behind it. The
// model is an injected dependency: anything that can fit a source
// dataset and sample schema-matching rows satisfies Generator, so the
// filtering and comparison stages never depend on a concrete model.
package generator

import (
	"context"

	"github.com/leengari/synthtab/internal/domain/dataset"
)

// Generator produces synthetic datasets with a fixed column schema.
//
// Fit may fail or degrade on inputs the model cannot learn from
// (extreme cardinality, too few rows); callers surface that to the
// user and never retry automatically. Sample(n) returns a dataset with
// exactly n rows and the schema established by Fit; n of zero yields
// an empty but schema-valid dataset.
type Generator interface {
	Name() string
	Fit(ctx context.Context, src *dataset.Dataset) error
	Sample(ctx context.Context, n int) (*dataset.Dataset, error)
}
