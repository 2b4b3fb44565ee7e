// Package constraint holds user-declared per-column limits on the
// permissible value domain of generated data: inclusive numeric ranges,
// categorical allow-lists, and datetime windows.
package constraint

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/leengari/synthtab/internal/domain/dataset"
	derrors "github.com/leengari/synthtab/internal/domain/errors"
)

// Constraint restricts the permissible values of one column
type Constraint interface {
	// Check reports whether a single cell value lies inside the domain.
	// Null cells never pass a constraint.
	Check(v interface{}) bool
	// CompatibleWith reports whether the constraint can apply to a
	// column of the given kind
	CompatibleWith(k dataset.Kind) bool
	// Feasible returns an error when the declared domain is empty
	Feasible() error
	// Name is the constraint family: "range", "allow_list", "time_window"
	Name() string
	String() string
}

// Range is an inclusive numeric interval [Min, Max]
type Range struct {
	Min float64
	Max float64
}

func (r Range) Check(v interface{}) bool {
	f, ok := v.(float64)
	return ok && f >= r.Min && f <= r.Max
}

func (r Range) CompatibleWith(k dataset.Kind) bool { return k == dataset.KindNumeric }

func (r Range) Feasible() error {
	if r.Min > r.Max {
		return fmt.Errorf("min %g is greater than max %g", r.Min, r.Max)
	}
	return nil
}

func (r Range) Name() string   { return "range" }
func (r Range) String() string { return fmt.Sprintf("[%g, %g]", r.Min, r.Max) }

// AllowList is a set of permitted categorical or text values
type AllowList struct {
	values map[string]struct{}
}

// NewAllowList builds an allow-list from the given values, dropping
// duplicates
func NewAllowList(values ...string) AllowList {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return AllowList{values: set}
}

func (a AllowList) Check(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, allowed := a.values[s]
	return allowed
}

func (a AllowList) CompatibleWith(k dataset.Kind) bool {
	return k == dataset.KindCategorical || k == dataset.KindText
}

func (a AllowList) Feasible() error {
	if len(a.values) == 0 {
		return fmt.Errorf("allow-list is empty")
	}
	return nil
}

// Values returns the permitted values in sorted order
func (a AllowList) Values() []string {
	out := make([]string, 0, len(a.values))
	for v := range a.values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (a AllowList) Name() string { return "allow_list" }

func (a AllowList) String() string {
	return "{" + strings.Join(a.Values(), ", ") + "}"
}

// TimeWindow is an inclusive datetime interval [Start, End]
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func (w TimeWindow) Check(v interface{}) bool {
	t, ok := v.(time.Time)
	return ok && !t.Before(w.Start) && !t.After(w.End)
}

func (w TimeWindow) CompatibleWith(k dataset.Kind) bool { return k == dataset.KindDatetime }

func (w TimeWindow) Feasible() error {
	if w.Start.After(w.End) {
		return fmt.Errorf("window starts %s after it ends %s",
			w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
	}
	return nil
}

func (w TimeWindow) Name() string { return "time_window" }

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s, %s]", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}

// compile-time interface checks
var (
	_ Constraint = Range{}
	_ Constraint = AllowList{}
	_ Constraint = TimeWindow{}
)

// infeasible wraps a Feasible() failure into the typed error the error
// taxonomy expects
func infeasible(column string, c Constraint, err error) error {
	return &derrors.InfeasibleError{
		Column:     column,
		Constraint: c.Name(),
		Reason:     err.Error(),
	}
}
