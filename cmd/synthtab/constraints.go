package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/leengari/synthtab/internal/domain/constraint"
)

// buildStore assembles the session constraint store from the three
// repeatable flag families:
//
//	--range  col=min:max     (either end may be open: col=20: or col=:30)
//	--allow  col=v1,v2,...
//	--window col=start..end  (YYYY-MM-DD, either end may be open)
//
// Feasibility is checked as each constraint enters the store.
func buildStore(rangeFlags, allowFlags, windowFlags []string) (*constraint.Store, error) {
	store := constraint.NewStore()

	for _, flag := range rangeFlags {
		column, c, err := parseRangeFlag(flag)
		if err != nil {
			return nil, err
		}
		if err := store.Set(column, c); err != nil {
			return nil, err
		}
	}
	for _, flag := range allowFlags {
		column, c, err := parseAllowFlag(flag)
		if err != nil {
			return nil, err
		}
		if err := store.Set(column, c); err != nil {
			return nil, err
		}
	}
	for _, flag := range windowFlags {
		column, c, err := parseWindowFlag(flag)
		if err != nil {
			return nil, err
		}
		if err := store.Set(column, c); err != nil {
			return nil, err
		}
	}

	return store, nil
}

func parseRangeFlag(flag string) (string, constraint.Range, error) {
	column, spec, err := splitFlag(flag, "--range")
	if err != nil {
		return "", constraint.Range{}, err
	}

	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return "", constraint.Range{}, fmt.Errorf("--range %s: expected col=min:max", flag)
	}

	r := constraint.Range{Min: math.Inf(-1), Max: math.Inf(1)}
	if parts[0] != "" {
		if r.Min, err = strconv.ParseFloat(parts[0], 64); err != nil {
			return "", constraint.Range{}, fmt.Errorf("--range %s: bad min %q", flag, parts[0])
		}
	}
	if parts[1] != "" {
		if r.Max, err = strconv.ParseFloat(parts[1], 64); err != nil {
			return "", constraint.Range{}, fmt.Errorf("--range %s: bad max %q", flag, parts[1])
		}
	}
	return column, r, nil
}

func parseAllowFlag(flag string) (string, constraint.AllowList, error) {
	column, spec, err := splitFlag(flag, "--allow")
	if err != nil {
		return "", constraint.AllowList{}, err
	}

	var values []string
	for _, v := range strings.Split(spec, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return column, constraint.NewAllowList(values...), nil
}

func parseWindowFlag(flag string) (string, constraint.TimeWindow, error) {
	column, spec, err := splitFlag(flag, "--window")
	if err != nil {
		return "", constraint.TimeWindow{}, err
	}

	parts := strings.SplitN(spec, "..", 2)
	if len(parts) != 2 {
		return "", constraint.TimeWindow{}, fmt.Errorf("--window %s: expected col=start..end", flag)
	}

	w := constraint.TimeWindow{
		Start: time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC),
	}
	if parts[0] != "" {
		if w.Start, err = time.Parse("2006-01-02", parts[0]); err != nil {
			return "", constraint.TimeWindow{}, fmt.Errorf("--window %s: bad start %q (expected YYYY-MM-DD)", flag, parts[0])
		}
	}
	if parts[1] != "" {
		if w.End, err = time.Parse("2006-01-02", parts[1]); err != nil {
			return "", constraint.TimeWindow{}, fmt.Errorf("--window %s: bad end %q (expected YYYY-MM-DD)", flag, parts[1])
		}
		// inclusive through the whole end day
		w.End = w.End.Add(24*time.Hour - time.Second)
	}
	return column, w, nil
}

func splitFlag(flag, name string) (column, spec string, err error) {
	parts := strings.SplitN(flag, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", fmt.Errorf("%s %s: expected col=<spec>", name, flag)
	}
	return strings.TrimSpace(parts[0]), parts[1], nil
}
