package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// datetimeLayouts are the accepted textual datetime forms, tried in order.
// The first layout is also the canonical export form.
var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// Thresholds for promoting a text column to categorical: few distinct
// values relative to the column length, and a small absolute ceiling.
const (
	categoricalMaxDistinct = 25
	categoricalMaxRatio    = 0.5
)

// InferKind determines the kind of a column from its raw string cells.
// Empty strings are treated as nulls and do not vote. Precedence:
// numeric, then datetime, then categorical/text by distinct-value ratio.
func InferKind(raw []string) Kind {
	distinct := make(map[string]struct{})
	numeric := true
	datetime := true
	seen := 0

	for _, cell := range raw {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		seen++
		distinct[cell] = struct{}{}

		if numeric {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric = false
			}
		}
		// Voted independently of the numeric flag: every non-null cell
		// must parse as a datetime, including ones that look numeric
		if datetime {
			if _, err := parseDatetime(cell); err != nil {
				datetime = false
			}
		}
	}

	if seen == 0 {
		return KindText
	}
	if numeric {
		return KindNumeric
	}
	if datetime {
		return KindDatetime
	}
	if len(distinct) <= categoricalMaxDistinct &&
		float64(len(distinct))/float64(seen) <= categoricalMaxRatio {
		return KindCategorical
	}
	return KindText
}

// ParseCell converts a raw string cell to the stored value form for the
// given kind. Empty cells become nulls for every kind.
func ParseCell(raw string, kind Kind) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch kind {
	case KindNumeric:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", raw)
		}
		return f, nil
	case KindDatetime:
		t, err := parseDatetime(raw)
		if err != nil {
			return nil, err
		}
		return t, nil
	case KindCategorical, KindText:
		return raw, nil
	}
	return nil, fmt.Errorf("invalid kind %q", kind)
}

// FormatCell renders a stored cell back to its textual form. Nulls
// render as the empty string. The output round-trips through ParseCell.
func FormatCell(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(c, 'g', -1, 64)
	case time.Time:
		return c.Format(datetimeLayouts[0])
	case string:
		return c
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprintf("%v", c)
	}
}

func parseDatetime(raw string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not a datetime: %q", raw)
}
