package dataset

import (
	"fmt"
	"time"
)

// Column is a named, uniformly-kinded sequence of cell values.
// Cells are stored column-major; a nil cell represents a null.
type Column struct {
	Name   string
	Kind   Kind
	Values []interface{}
}

// ColumnSpec describes one column of a dataset schema
type ColumnSpec struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// Dataset is an ordered sequence of named columns. All columns have the
// same length; that shared length is the row count.
type Dataset struct {
	columns []*Column
	byName  map[string]int
}

// New creates an empty dataset with the given column specs
func New(specs ...ColumnSpec) (*Dataset, error) {
	ds := &Dataset{byName: make(map[string]int, len(specs))}
	for _, spec := range specs {
		if _, err := ds.AddColumn(spec.Name, spec.Kind); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// MustNew is New for schemas known to be valid (tests, fixed catalogs)
func MustNew(specs ...ColumnSpec) *Dataset {
	ds, err := New(specs...)
	if err != nil {
		panic(err)
	}
	return ds
}

// AddColumn appends an empty column to the dataset. It fails on a
// duplicate name, an invalid kind, or when the dataset already holds rows
// (a late column would break row alignment).
func (ds *Dataset) AddColumn(name string, kind Kind) (*Column, error) {
	if name == "" {
		return nil, fmt.Errorf("column name cannot be empty")
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("column %s: invalid kind %q", name, kind)
	}
	if _, exists := ds.byName[name]; exists {
		return nil, fmt.Errorf("duplicate column name %q", name)
	}
	if ds.Len() > 0 {
		return nil, fmt.Errorf("cannot add column %s to a dataset that already holds rows", name)
	}
	col := &Column{Name: name, Kind: kind}
	ds.byName[name] = len(ds.columns)
	ds.columns = append(ds.columns, col)
	return col, nil
}

// Len returns the row count
func (ds *Dataset) Len() int {
	if len(ds.columns) == 0 {
		return 0
	}
	return len(ds.columns[0].Values)
}

// NumColumns returns the column count
func (ds *Dataset) NumColumns() int {
	return len(ds.columns)
}

// Columns returns the columns in declaration order
func (ds *Dataset) Columns() []*Column {
	return ds.columns
}

// Column returns the named column, or nil if absent
func (ds *Dataset) Column(name string) *Column {
	i, ok := ds.byName[name]
	if !ok {
		return nil
	}
	return ds.columns[i]
}

// Schema returns the ordered column specs
func (ds *Dataset) Schema() []ColumnSpec {
	specs := make([]ColumnSpec, len(ds.columns))
	for i, col := range ds.columns {
		specs[i] = ColumnSpec{Name: col.Name, Kind: col.Kind}
	}
	return specs
}

// SchemaEqual reports whether both datasets share the exact ordered
// column set with matching kinds
func (ds *Dataset) SchemaEqual(other *Dataset) bool {
	if other == nil || len(ds.columns) != len(other.columns) {
		return false
	}
	for i, col := range ds.columns {
		o := other.columns[i]
		if col.Name != o.Name || col.Kind != o.Kind {
			return false
		}
	}
	return true
}

// Row materializes row i as a column-name keyed map
func (ds *Dataset) Row(i int) map[string]interface{} {
	row := make(map[string]interface{}, len(ds.columns))
	for _, col := range ds.columns {
		row[col.Name] = col.Values[i]
	}
	return row
}

// AppendRow appends one row. Every column of the schema must be present
// in the map (nil for null) with a kind-compatible value.
func (ds *Dataset) AppendRow(row map[string]interface{}) error {
	for name := range row {
		if _, ok := ds.byName[name]; !ok {
			return fmt.Errorf("row references unknown column %q", name)
		}
	}
	for _, col := range ds.columns {
		v, ok := row[col.Name]
		if !ok {
			return fmt.Errorf("row missing column %q", col.Name)
		}
		if !ValueMatches(v, col.Kind) {
			return fmt.Errorf("column %s: value %v (%T) does not match kind %s", col.Name, v, v, col.Kind)
		}
	}
	// All checks passed, now mutate
	for _, col := range ds.columns {
		col.Values = append(col.Values, NormalizeValue(row[col.Name], col.Kind))
	}
	return nil
}

// AppendFrom appends row i of src, which must be schema-equal
func (ds *Dataset) AppendFrom(src *Dataset, i int) {
	for j, col := range ds.columns {
		col.Values = append(col.Values, src.columns[j].Values[i])
	}
}

// Concat returns a new dataset holding the rows of ds followed by the
// rows of other. Both operands must be schema-equal.
func (ds *Dataset) Concat(other *Dataset) (*Dataset, error) {
	if !ds.SchemaEqual(other) {
		return nil, fmt.Errorf("cannot concatenate datasets with different schemas")
	}
	out := ds.Empty()
	for i := 0; i < ds.Len(); i++ {
		out.AppendFrom(ds, i)
	}
	for i := 0; i < other.Len(); i++ {
		out.AppendFrom(other, i)
	}
	return out, nil
}

// Empty returns a zero-row dataset with the same schema
func (ds *Dataset) Empty() *Dataset {
	out, _ := New(ds.Schema()...)
	return out
}

// Head returns up to n leading rows as maps, for previews
func (ds *Dataset) Head(n int) []map[string]interface{} {
	if n > ds.Len() {
		n = ds.Len()
	}
	rows := make([]map[string]interface{}, n)
	for i := 0; i < n; i++ {
		rows[i] = ds.Row(i)
	}
	return rows
}

// NumericValues returns the non-null cells of a numeric column
func (c *Column) NumericValues() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}

// TimeValues returns the non-null cells of a datetime column
func (c *Column) TimeValues() []time.Time {
	out := make([]time.Time, 0, len(c.Values))
	for _, v := range c.Values {
		if t, ok := v.(time.Time); ok {
			out = append(out, t)
		}
	}
	return out
}

// StringValues returns the non-null cells of a categorical or text column
func (c *Column) StringValues() []string {
	out := make([]string, 0, len(c.Values))
	for _, v := range c.Values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
