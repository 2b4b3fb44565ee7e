// Package errors defines the typed error taxonomy of the generation
// pipeline: unreadable input, infeasible constraints, model failure,
// and filtering shortfall. Every error is recoverable by returning the
// caller to the previous input step; none is fatal to the process.
package errors

import (
	"fmt"
	"strings"
)

// LoadError reports a malformed or unreadable input file.
// Generation is blocked until the user supplies a readable file.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("cannot load %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// ConstraintError reports a value or declaration that violates a
// column constraint
type ConstraintError struct {
	Column     string      // column name
	Value      interface{} // offending value (may be nil)
	Constraint string      // "range", "allow_list", "time_window", "kind"
	Reason     string      // human-readable explanation (optional)
}

func (e *ConstraintError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("constraint violation on column %s", e.Column))
	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("(%s)", e.Constraint))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	return strings.Join(parts, " - ")
}

// InfeasibleError reports a constraint whose value domain is empty
// (min above max, empty allow-list, window start after end). Rejected
// at constraint-entry time so generation never silently yields zero rows.
type InfeasibleError struct {
	Column     string
	Constraint string
	Reason     string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("infeasible %s constraint on column %s: %s", e.Constraint, e.Column, e.Reason)
}

// ModelError reports a generative model failure or non-convergence.
// Surfaced to the user as a warning; never retried automatically.
type ModelError struct {
	Model string // generator name
	Stage string // "fit" or "sample"
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s failed during %s: %v", e.Model, e.Stage, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// ShortfallError reports that constraint filtering left fewer rows than
// requested after the resample budget was spent. The delivered rows are
// still valid; callers decide whether the discrepancy is fatal.
type ShortfallError struct {
	Requested int
	Delivered int
	Rounds    int // resample rounds consumed
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("delivered %d of %d requested rows after %d resample rounds",
		e.Delivered, e.Requested, e.Rounds)
}

// SchemaError reports a column-schema mismatch between two datasets
// that were expected to align (combining, round-tripping)
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch: %s", e.Reason)
}
