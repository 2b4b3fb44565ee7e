// Package config loads a declarative generation spec from YAML, the
// file-based alternative to spelling a whole session out in CLI flags.
package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leengari/synthtab/internal/domain/constraint"
)

// ConstraintSpec declares one column constraint. Exactly one family
// must be used: min/max (numeric range), allow (categorical
// allow-list), or after/before (datetime window). Open-ended range and
// window bounds are permitted.
type ConstraintSpec struct {
	Column string   `yaml:"column"`
	Min    *float64 `yaml:"min,omitempty"`
	Max    *float64 `yaml:"max,omitempty"`
	Allow  []string `yaml:"allow,omitempty"`
	After  string   `yaml:"after,omitempty"`
	Before string   `yaml:"before,omitempty"`
}

// Spec is a full generation request in file form
type Spec struct {
	Input       string           `yaml:"input"`
	Rows        int              `yaml:"rows"`
	Seed        int64            `yaml:"seed,omitempty"`
	Combine     bool             `yaml:"combine,omitempty"`
	Compare     bool             `yaml:"compare,omitempty"`
	Output      string           `yaml:"output"`
	Format      string           `yaml:"format,omitempty"`
	Categorical []string         `yaml:"categorical,omitempty"`
	MaxRounds   int              `yaml:"max_resample_rounds,omitempty"`
	Strict      bool             `yaml:"strict,omitempty"`
	Constraints []ConstraintSpec `yaml:"constraints,omitempty"`
}

// Load reads and validates a spec file. Unknown keys are rejected so a
// typo does not silently drop a constraint.
func Load(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open spec file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var spec Spec
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("cannot parse spec file %s: %w", path, err)
	}
	if err := spec.validate(); err != nil {
		return nil, fmt.Errorf("invalid spec file %s: %w", path, err)
	}
	return &spec, nil
}

func (s *Spec) validate() error {
	if s.Rows < 0 {
		return fmt.Errorf("rows cannot be negative")
	}
	if s.Output == "" {
		return fmt.Errorf("output path is required")
	}
	for i, c := range s.Constraints {
		if c.Column == "" {
			return fmt.Errorf("constraint %d: column is required", i+1)
		}
		if _, err := c.Build(); err != nil {
			return err
		}
	}
	return nil
}

// Build turns the declaration into a domain constraint
func (c ConstraintSpec) Build() (constraint.Constraint, error) {
	hasRange := c.Min != nil || c.Max != nil
	hasAllow := len(c.Allow) > 0
	hasWindow := c.After != "" || c.Before != ""

	families := 0
	for _, set := range []bool{hasRange, hasAllow, hasWindow} {
		if set {
			families++
		}
	}
	if families != 1 {
		return nil, fmt.Errorf("constraint on %s: declare exactly one of min/max, allow, or after/before", c.Column)
	}

	switch {
	case hasRange:
		r := constraint.Range{Min: math.Inf(-1), Max: math.Inf(1)}
		if c.Min != nil {
			r.Min = *c.Min
		}
		if c.Max != nil {
			r.Max = *c.Max
		}
		return r, nil
	case hasAllow:
		return constraint.NewAllowList(c.Allow...), nil
	default:
		w := constraint.TimeWindow{
			Start: time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC),
		}
		if c.After != "" {
			t, err := parseDate(c.After)
			if err != nil {
				return nil, fmt.Errorf("constraint on %s: %w", c.Column, err)
			}
			w.Start = t
		}
		if c.Before != "" {
			t, err := parseDate(c.Before)
			if err != nil {
				return nil, fmt.Errorf("constraint on %s: %w", c.Column, err)
			}
			w.End = t
		}
		return w, nil
	}
}

// Store builds the session constraint store from the declared
// constraints, rejecting infeasible domains at entry time
func (s *Spec) Store() (*constraint.Store, error) {
	store := constraint.NewStore()
	for _, spec := range s.Constraints {
		c, err := spec.Build()
		if err != nil {
			return nil, err
		}
		if err := store.Set(spec.Column, c); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q (expected YYYY-MM-DD)", raw)
}
