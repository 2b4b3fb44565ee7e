package constraint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leengari/synthtab/internal/domain/dataset"
)

func TestRangeCheck(t *testing.T) {
	r := Range{Min: 20, Max: 30}

	assert.True(t, r.Check(20.0), "bounds are inclusive")
	assert.True(t, r.Check(30.0), "bounds are inclusive")
	assert.True(t, r.Check(25.5))
	assert.False(t, r.Check(19.999))
	assert.False(t, r.Check(30.001))
	assert.False(t, r.Check(nil), "nulls never pass")
	assert.False(t, r.Check("25"), "non-numeric values never pass")
}

func TestRangeFeasible(t *testing.T) {
	assert.NoError(t, Range{Min: 1, Max: 1}.Feasible(), "a single point is a valid domain")
	assert.Error(t, Range{Min: 2, Max: 1}.Feasible())
}

func TestAllowListCheck(t *testing.T) {
	a := NewAllowList("Female", "Male")

	assert.True(t, a.Check("Female"))
	assert.False(t, a.Check("female"), "matching is case sensitive")
	assert.False(t, a.Check("Other"))
	assert.False(t, a.Check(nil))
	assert.False(t, a.Check(42.0))
}

func TestAllowListValuesSortedAndDeduplicated(t *testing.T) {
	a := NewAllowList("b", "a", "b", "c")
	assert.Equal(t, []string{"a", "b", "c"}, a.Values())
	assert.NoError(t, a.Feasible())
	assert.Error(t, NewAllowList().Feasible())
}

func TestTimeWindowCheck(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	w := TimeWindow{Start: start, End: end}

	assert.True(t, w.Check(start), "bounds are inclusive")
	assert.True(t, w.Check(end), "bounds are inclusive")
	assert.True(t, w.Check(time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)))
	assert.False(t, w.Check(start.Add(-time.Second)))
	assert.False(t, w.Check(end.Add(time.Second)))
	assert.False(t, w.Check(nil))

	assert.Error(t, TimeWindow{Start: end, End: start}.Feasible())
}

func TestKindCompatibility(t *testing.T) {
	assert.True(t, Range{}.CompatibleWith(dataset.KindNumeric))
	assert.False(t, Range{}.CompatibleWith(dataset.KindCategorical))

	assert.True(t, NewAllowList("x").CompatibleWith(dataset.KindCategorical))
	assert.True(t, NewAllowList("x").CompatibleWith(dataset.KindText))
	assert.False(t, NewAllowList("x").CompatibleWith(dataset.KindNumeric))

	assert.True(t, TimeWindow{}.CompatibleWith(dataset.KindDatetime))
	assert.False(t, TimeWindow{}.CompatibleWith(dataset.KindText))
}
