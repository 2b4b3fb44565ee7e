package generator

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/leengari/synthtab/internal/domain/constraint"
	"github.com/leengari/synthtab/internal/domain/dataset"
	derrors "github.com/leengari/synthtab/internal/domain/errors"
)

// The fabricator's field catalog: customer-record fields synthesized
// from scratch, no source dataset required.
const (
	FieldCustomerID     = "customer_id"
	FieldName           = "name"
	FieldAge            = "age"
	FieldEmail          = "email"
	FieldGender         = "gender"
	FieldMaritalStatus  = "marital_status"
	FieldDisability     = "disability"
	FieldHospitalVisits = "hospital_visits"
	FieldPolicyStart    = "policy_start_date"
	FieldPolicyEnd      = "policy_end_date"
)

// CatalogFields lists every fabricatable field in catalog order
func CatalogFields() []string {
	return []string{
		FieldCustomerID, FieldName, FieldAge, FieldEmail,
		FieldGender, FieldMaritalStatus, FieldDisability,
		FieldHospitalVisits, FieldPolicyStart, FieldPolicyEnd,
	}
}

var catalogKinds = map[string]dataset.Kind{
	FieldCustomerID:     dataset.KindText,
	FieldName:           dataset.KindText,
	FieldAge:            dataset.KindNumeric,
	FieldEmail:          dataset.KindText,
	FieldGender:         dataset.KindCategorical,
	FieldMaritalStatus:  dataset.KindCategorical,
	FieldDisability:     dataset.KindCategorical,
	FieldHospitalVisits: dataset.KindNumeric,
	FieldPolicyStart:    dataset.KindDatetime,
	FieldPolicyEnd:      dataset.KindDatetime,
}

var (
	genders        = []string{"Male", "Female", "Other"}
	maritalStates  = []string{"Single", "Married", "Divorced", "Widowed"}
	disabilities   = []string{"None", "Physical", "Visual", "Hearing", "Cognitive", "Chronic Condition"}
	disabilityOdds = []float32{70, 10, 5, 5, 5, 5}
	emailDomains   = []string{"gmail.com", "yahoo.com", "hotmail.com", "outlook.com"}
)

// Fabricator synthesizes customer records from the field catalog. It
// satisfies Generator with no source dataset: Fit validates the field
// selection against the constraint store and ignores any source.
//
// Where a constraint narrows a field's domain, fabrication draws from
// the narrowed domain directly instead of rejecting afterwards: an age
// range samples inside the range, an allow-list samples its members, a
// time window samples inside the window.
type Fabricator struct {
	faker  *gofakeit.Faker
	fields []string
	store  *constraint.Store
	// domains for email addresses; narrowed via SetEmailDomains
	domains []string
}

// NewFabricator creates a fabricator for the selected catalog fields.
// A nil store means unconstrained. The seed fixes the output.
func NewFabricator(fields []string, store *constraint.Store, seed uint64) *Fabricator {
	if store == nil {
		store = constraint.NewStore()
	}
	return &Fabricator{
		faker:   gofakeit.New(seed),
		fields:  fields,
		store:   store,
		domains: emailDomains,
	}
}

func (f *Fabricator) Name() string { return "fabricator" }

// Schema returns the column specs of the selected fields
func (f *Fabricator) Schema() []dataset.ColumnSpec {
	specs := make([]dataset.ColumnSpec, len(f.fields))
	for i, field := range f.fields {
		specs[i] = dataset.ColumnSpec{Name: field, Kind: catalogKinds[field]}
	}
	return specs
}

// Fit validates the field selection; the source dataset is ignored
func (f *Fabricator) Fit(ctx context.Context, _ *dataset.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(f.fields) == 0 {
		return &derrors.ModelError{Model: f.Name(), Stage: "fit",
			Err: fmt.Errorf("no fields selected")}
	}
	for _, field := range f.fields {
		if _, known := catalogKinds[field]; !known {
			return &derrors.ModelError{Model: f.Name(), Stage: "fit",
				Err: fmt.Errorf("unknown field %q (catalog: %s)", field, strings.Join(CatalogFields(), ", "))}
		}
	}
	return f.store.Validate(f.Schema())
}

// SetEmailDomains restricts fabricated email addresses to the given
// domains. This rides generator-side rather than in the constraint
// store because the store constrains full cell values, not address
// suffixes.
func (f *Fabricator) SetEmailDomains(domains []string) {
	if len(domains) > 0 {
		f.domains = domains
	}
}

// Sample fabricates n records over the selected fields
func (f *Fabricator) Sample(ctx context.Context, n int) (*dataset.Dataset, error) {
	if n < 0 {
		return nil, &derrors.ModelError{Model: f.Name(), Stage: "sample",
			Err: fmt.Errorf("negative row count %d", n)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := dataset.New(f.Schema()...)
	if err != nil {
		return nil, &derrors.ModelError{Model: f.Name(), Stage: "sample", Err: err}
	}

	for r := 0; r < n; r++ {
		row := make(map[string]interface{}, len(f.fields))
		name := f.faker.Name()
		for _, field := range f.fields {
			row[field] = f.fabricate(field, name)
		}
		if err := out.AppendRow(row); err != nil {
			return nil, &derrors.ModelError{Model: f.Name(), Stage: "sample", Err: err}
		}
	}
	return out, nil
}

func (f *Fabricator) fabricate(field, name string) interface{} {
	switch field {
	case FieldCustomerID:
		return fmt.Sprintf("CUST-%04d", f.faker.Number(1000, 9999))
	case FieldName:
		return name
	case FieldAge:
		return float64(f.numberIn(field, 1, 85))
	case FieldEmail:
		local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
		return local + "@" + f.domains[f.faker.Number(0, len(f.domains)-1)]
	case FieldGender:
		return f.choiceIn(field, genders)
	case FieldMaritalStatus:
		return f.choiceIn(field, maritalStates)
	case FieldDisability:
		if _, constrained := f.store.Get(field); constrained {
			return f.choiceIn(field, disabilities)
		}
		pick, err := f.faker.Weighted(asAny(disabilities), disabilityOdds)
		if err != nil {
			return disabilities[0]
		}
		return pick.(string)
	case FieldHospitalVisits:
		return float64(f.numberIn(field, 0, 10))
	case FieldPolicyStart, FieldPolicyEnd:
		return f.dateIn(field)
	}
	return nil
}

// numberIn draws an integer in [lo, hi], narrowed by a range
// constraint. Fractional bounds round inward so every draw lies inside
// the constrained interval.
func (f *Fabricator) numberIn(field string, lo, hi int) int {
	if c, ok := f.store.Get(field); ok {
		if r, isRange := c.(constraint.Range); isRange {
			if !math.IsInf(r.Min, -1) {
				if min := int(math.Ceil(r.Min)); min > lo {
					lo = min
				}
			}
			if !math.IsInf(r.Max, 1) {
				if max := int(math.Floor(r.Max)); max < hi {
					hi = max
				}
			}
			if hi < lo {
				hi = lo
			}
		}
	}
	return f.faker.Number(lo, hi)
}

// choiceIn draws from the defaults, narrowed by an allow-list constraint
func (f *Fabricator) choiceIn(field string, defaults []string) string {
	pool := defaults
	if c, ok := f.store.Get(field); ok {
		if allow, isList := c.(constraint.AllowList); isList {
			var narrowed []string
			for _, v := range defaults {
				if allow.Check(v) {
					narrowed = append(narrowed, v)
				}
			}
			if len(narrowed) == 0 {
				// allow-list names values outside the catalog defaults;
				// honor it verbatim so the filter invariant still holds
				narrowed = allow.Values()
			}
			pool = narrowed
		}
	}
	return pool[f.faker.Number(0, len(pool)-1)]
}

// dateIn draws a date in the default ±5y window, narrowed by a time
// window constraint
func (f *Fabricator) dateIn(field string) time.Time {
	start := time.Now().AddDate(-5, 0, 0)
	end := time.Now().AddDate(5, 0, 0)
	if c, ok := f.store.Get(field); ok {
		if w, isWindow := c.(constraint.TimeWindow); isWindow {
			// no day-truncation here: a truncated date could fall just
			// outside a window that starts mid-day
			return f.faker.DateRange(w.Start, w.End)
		}
	}
	return f.faker.DateRange(start, end).Truncate(24 * time.Hour)
}

func asAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
