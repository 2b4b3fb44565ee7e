package constraint

import (
	"github.com/leengari/synthtab/internal/domain/dataset"
	derrors "github.com/leengari/synthtab/internal/domain/errors"
)

// Store holds the active per-column constraints of one generation
// session. It is populated once from user input, consumed by the
// filter, and discarded with the session.
type Store struct {
	constraints map[string]Constraint
	order       []string
}

// NewStore creates an empty constraint store
func NewStore() *Store {
	return &Store{constraints: make(map[string]Constraint)}
}

// Set declares a constraint for a column. Feasibility is checked at
// entry time: an empty domain is rejected here, not discovered later as
// a generation run that yields zero rows.
func (s *Store) Set(column string, c Constraint) error {
	if err := c.Feasible(); err != nil {
		return infeasible(column, c, err)
	}
	if _, exists := s.constraints[column]; !exists {
		s.order = append(s.order, column)
	}
	s.constraints[column] = c
	return nil
}

// Get returns the constraint declared for a column, if any
func (s *Store) Get(column string) (Constraint, bool) {
	c, ok := s.constraints[column]
	return c, ok
}

// Constrained reports whether the column has a declared constraint
func (s *Store) Constrained(column string) bool {
	_, ok := s.constraints[column]
	return ok
}

// Columns returns the constrained column names in declaration order
func (s *Store) Columns() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of constrained columns
func (s *Store) Len() int {
	return len(s.constraints)
}

// Validate checks every declared constraint against a dataset schema:
// the column must exist and the constraint family must be compatible
// with the column kind (range on numeric, allow-list on categorical or
// text, window on datetime).
func (s *Store) Validate(schema []dataset.ColumnSpec) error {
	kinds := make(map[string]dataset.Kind, len(schema))
	for _, spec := range schema {
		kinds[spec.Name] = spec.Kind
	}
	for _, column := range s.order {
		c := s.constraints[column]
		kind, exists := kinds[column]
		if !exists {
			return &derrors.ConstraintError{
				Column:     column,
				Constraint: c.Name(),
				Reason:     "column does not exist in the dataset",
			}
		}
		if !c.CompatibleWith(kind) {
			return &derrors.ConstraintError{
				Column:     column,
				Constraint: c.Name(),
				Reason:     "constraint is not compatible with column kind " + string(kind),
			}
		}
	}
	return nil
}

// CheckRow reports whether a candidate row passes every declared
// constraint. Unconstrained columns are never checked; a row is
// accepted only when all constrained columns pass.
func (s *Store) CheckRow(row map[string]interface{}) bool {
	for column, c := range s.constraints {
		if !c.Check(row[column]) {
			return false
		}
	}
	return true
}

// Explain returns the first violation a row commits, or nil when the
// row passes. Violations are reported in declaration order so the
// result is deterministic.
func (s *Store) Explain(row map[string]interface{}) *derrors.ConstraintError {
	for _, column := range s.order {
		c := s.constraints[column]
		if !c.Check(row[column]) {
			return &derrors.ConstraintError{
				Column:     column,
				Value:      row[column],
				Constraint: c.Name(),
				Reason:     "value outside declared domain " + c.String(),
			}
		}
	}
	return nil
}
