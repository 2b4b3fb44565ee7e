// Package session orchestrates one generation request end to end:
// validate constraints, fit the model, sample and filter, optionally
// combine with the original, and summarize distributions. Sessions are
// ephemeral; the constraint store is consumed once and discarded with
// the request.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leengari/synthtab/internal/compare"
	"github.com/leengari/synthtab/internal/domain/constraint"
	"github.com/leengari/synthtab/internal/domain/dataset"
	derrors "github.com/leengari/synthtab/internal/domain/errors"
	"github.com/leengari/synthtab/internal/filter"
	"github.com/leengari/synthtab/internal/generator"
)

// Request describes one generation run
type Request struct {
	// Source is the uploaded dataset; nil for from-scratch fabrication
	Source *dataset.Dataset
	// Rows is the requested synthetic row count
	Rows int
	// Constraints holds the session's per-column limits; nil means
	// unconstrained
	Constraints *constraint.Store
	// Combine concatenates the original rows ahead of the synthetic
	// ones in the output
	Combine bool
	// Compare computes distribution summaries of original vs synthetic
	Compare bool
	// Policy bounds constraint resampling. The zero value selects
	// defaults; an explicit MaxRounds of 0 with a nonzero MinBatch
	// disables resampling after the initial batch.
	Policy filter.Policy
}

// Result is the outcome of one generation run
type Result struct {
	ID        string
	Requested int
	Delivered int
	// Shortfall is set when filtering could not reach the requested
	// count within the resample budget; the delivered rows are valid
	Shortfall *derrors.ShortfallError

	// Synthetic holds only generated rows; Output is what gets
	// exported (original rows first when combining)
	Synthetic *dataset.Dataset
	Output    *dataset.Dataset

	Comparisons []*compare.Comparison
}

// Session runs generation requests against an injected generator
type Session struct {
	gen    generator.Generator
	logger *slog.Logger
}

// New creates a session around the given generator
func New(gen generator.Generator, logger *slog.Logger) *Session {
	return &Session{gen: gen, logger: logger}
}

// Run executes one request. Model failures and invalid constraints are
// returned as errors; a filtering shortfall is reported in the Result
// rather than failing the run, since the delivered rows still satisfy
// every constraint.
func (s *Session) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Rows < 0 {
		return nil, fmt.Errorf("requested row count cannot be negative, got %d", req.Rows)
	}
	if req.Combine && req.Source == nil {
		return nil, fmt.Errorf("cannot combine with the original: no source dataset")
	}
	store := req.Constraints
	if store == nil {
		store = constraint.NewStore()
	}
	policy := req.Policy
	if policy == (filter.Policy{}) {
		policy = filter.DefaultPolicy()
	}

	res := &Result{ID: uuid.New().String(), Requested: req.Rows}
	logger := s.logger.With(
		slog.String("request_id", res.ID),
		slog.String("model", s.gen.Name()),
	)

	// 1. Constraints must be feasible for the source schema before any
	// model work happens
	if req.Source != nil {
		if err := store.Validate(req.Source.Schema()); err != nil {
			return nil, err
		}
	}

	// 2. Fit. A model failure is surfaced, never retried.
	if err := s.gen.Fit(ctx, req.Source); err != nil {
		logger.Warn("model fitting failed", slog.Any("error", err))
		return nil, err
	}

	// 3. Sample under the constraint filter
	synthetic, err := filter.SampleFiltered(ctx, s.gen, store, req.Rows, policy, logger)
	if err != nil {
		var shortfall *derrors.ShortfallError
		if !errors.As(err, &shortfall) {
			logger.Warn("sampling failed", slog.Any("error", err))
			return nil, err
		}
		res.Shortfall = shortfall
	}
	res.Synthetic = synthetic
	res.Delivered = synthetic.Len()

	// 4. Synthetic output must preserve the source schema exactly
	if req.Source != nil && !req.Source.SchemaEqual(synthetic) {
		return nil, &derrors.SchemaError{
			Reason: "synthetic dataset does not preserve the source column set",
		}
	}

	// 5. Combine keeps original rows first
	res.Output = synthetic
	if req.Combine {
		combined, err := req.Source.Concat(synthetic)
		if err != nil {
			return nil, err
		}
		res.Output = combined
	}

	// 6. Distribution summaries
	if req.Compare && req.Source != nil {
		comparisons, err := compare.Dataset(req.Source, synthetic)
		if err != nil {
			return nil, err
		}
		res.Comparisons = comparisons
	}

	logger.Info("generation run complete",
		slog.Int("requested", res.Requested),
		slog.Int("delivered", res.Delivered),
		slog.Bool("combined", req.Combine),
		slog.Bool("shortfall", res.Shortfall != nil),
	)
	return res, nil
}
