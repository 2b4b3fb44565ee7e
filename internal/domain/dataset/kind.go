package dataset

import "time"

// Kind classifies the values a column may hold
type Kind string

const (
	KindNumeric     Kind = "NUMERIC"
	KindCategorical Kind = "CATEGORICAL"
	KindDatetime    Kind = "DATETIME"
	KindText        Kind = "TEXT"
)

// Valid reports whether k is one of the defined column kinds
func (k Kind) Valid() bool {
	switch k {
	case KindNumeric, KindCategorical, KindDatetime, KindText:
		return true
	}
	return false
}

// ValueMatches reports whether a cell value is storable under kind k.
// Nil cells (nulls) are storable under every kind.
func ValueMatches(v interface{}, k Kind) bool {
	if v == nil {
		return true
	}
	switch k {
	case KindNumeric:
		switch v.(type) {
		case float64, int64, int:
			return true
		}
	case KindDatetime:
		_, ok := v.(time.Time)
		return ok
	case KindCategorical, KindText:
		_, ok := v.(string)
		return ok
	}
	return false
}

// NormalizeValue coerces the numeric integer forms to float64 so that
// every numeric cell carries the same concrete type. Other kinds pass
// through untouched.
func NormalizeValue(v interface{}, k Kind) interface{} {
	if v == nil {
		return nil
	}
	if k == KindNumeric {
		switch n := v.(type) {
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return v
}
