package main

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/synthtab/internal/domain/constraint"
)

func TestBuildStoreFromFlags(t *testing.T) {
	store, err := buildStore(
		[]string{"age=20:30"},
		[]string{"gender=Female,Male"},
		[]string{"policy_start_date=2023-01-01..2023-12-31"},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())

	c, ok := store.Get("age")
	require.True(t, ok)
	assert.Equal(t, constraint.Range{Min: 20, Max: 30}, c)

	c, _ = store.Get("gender")
	assert.Equal(t, []string{"Female", "Male"}, c.(constraint.AllowList).Values())

	c, _ = store.Get("policy_start_date")
	w := c.(constraint.TimeWindow)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.True(t, w.Check(time.Date(2023, 12, 31, 18, 0, 0, 0, time.UTC)),
		"the end day is included whole")
	assert.False(t, w.Check(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseRangeFlagOpenEnds(t *testing.T) {
	_, r, err := parseRangeFlag("age=18:")
	require.NoError(t, err)
	assert.Equal(t, 18.0, r.Min)
	assert.True(t, math.IsInf(r.Max, 1))

	_, r, err = parseRangeFlag("age=:65")
	require.NoError(t, err)
	assert.True(t, math.IsInf(r.Min, -1))
	assert.Equal(t, 65.0, r.Max)
}

func TestParseFlagErrors(t *testing.T) {
	_, _, err := parseRangeFlag("age")
	assert.Error(t, err, "missing = separator")

	_, _, err = parseRangeFlag("age=20")
	assert.Error(t, err, "missing : separator")

	_, _, err = parseRangeFlag("age=low:30")
	assert.Error(t, err)

	_, _, err = parseWindowFlag("joined=2023-01-01")
	assert.Error(t, err, "missing .. separator")

	_, _, err = parseWindowFlag("joined=01/01/2023..2023-12-31")
	assert.Error(t, err)
}

func TestBuildStoreRejectsInfeasibleFlag(t *testing.T) {
	_, err := buildStore([]string{"age=30:20"}, nil, nil)
	assert.Error(t, err)

	_, err = buildStore(nil, []string{"gender="}, nil)
	assert.Error(t, err, "an empty allow-list has no feasible domain")
}
