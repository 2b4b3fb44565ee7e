// Package filter rejects generated rows that violate the session's
// constraint store and resamples the deficit from the generator under
// an explicit, bounded policy.
package filter

import (
	"context"
	"log/slog"

	"github.com/leengari/synthtab/internal/domain/constraint"
	"github.com/leengari/synthtab/internal/domain/dataset"
	derrors "github.com/leengari/synthtab/internal/domain/errors"
	"github.com/leengari/synthtab/internal/generator"
)

// Policy bounds the resampling loop. An unbounded loop never
// terminates when a constraint's feasible region carries near-zero
// model mass, so the rounds are capped and the shortfall is reported
// instead.
type Policy struct {
	// MaxRounds is the number of additional Sample calls allowed after
	// the initial batch
	MaxRounds int
	// MinBatch floors the per-round batch size so a one-row deficit
	// over a low-acceptance constraint does not crawl row by row
	MinBatch int
}

// DefaultPolicy matches the CLI defaults
func DefaultPolicy() Policy {
	return Policy{MaxRounds: 10, MinBatch: 50}
}

// Keep returns the rows of ds accepted by the store, preserving order,
// along with the rejected count. Unconstrained columns are never
// checked.
func Keep(ds *dataset.Dataset, store *constraint.Store) (*dataset.Dataset, int) {
	if store == nil || store.Len() == 0 {
		return ds, 0
	}
	out := ds.Empty()
	rejected := 0
	for i := 0; i < ds.Len(); i++ {
		if store.CheckRow(ds.Row(i)) {
			out.AppendFrom(ds, i)
		} else {
			rejected++
		}
	}
	return out, rejected
}

// SampleFiltered draws n constraint-satisfying rows from the generator.
// It samples an initial batch of n, keeps the passing rows, then
// requests additional batches sized to the remaining deficit (floored
// at MinBatch) until the target is met or the round budget is spent.
//
// On shortfall it returns the rows it has together with a typed
// ShortfallError; the partial dataset is still valid and every row in
// it satisfies the store.
func SampleFiltered(ctx context.Context, gen generator.Generator, store *constraint.Store, n int, policy Policy, logger *slog.Logger) (*dataset.Dataset, error) {
	batch, err := gen.Sample(ctx, n)
	if err != nil {
		return nil, err
	}
	kept, rejected := Keep(batch, store)
	if rejected > 0 {
		logger.Debug("initial batch filtered",
			slog.Int("kept", kept.Len()),
			slog.Int("rejected", rejected),
		)
	}

	rounds := 0
	for kept.Len() < n && rounds < policy.MaxRounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rounds++

		deficit := n - kept.Len()
		size := deficit
		if size < policy.MinBatch {
			size = policy.MinBatch
		}

		batch, err := gen.Sample(ctx, size)
		if err != nil {
			return nil, err
		}
		passed, rejected := Keep(batch, store)
		logger.Debug("resample round",
			slog.Int("round", rounds),
			slog.Int("batch", size),
			slog.Int("kept", passed.Len()),
			slog.Int("rejected", rejected),
		)

		for i := 0; i < passed.Len() && kept.Len() < n; i++ {
			kept.AppendFrom(passed, i)
		}
	}

	if kept.Len() < n {
		logger.Warn("constraint filtering fell short of the requested row count",
			slog.Int("requested", n),
			slog.Int("delivered", kept.Len()),
			slog.Int("rounds", rounds),
		)
		return kept, &derrors.ShortfallError{
			Requested: n,
			Delivered: kept.Len(),
			Rounds:    rounds,
		}
	}
	return kept, nil
}
