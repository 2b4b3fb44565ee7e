package compare

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/synthtab/internal/domain/dataset"
)

func TestNumericHistogramSharedRange(t *testing.T) {
	original := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	synthetic := []float64{5, 6, 7, 8, 9, 10, 11, 12, 13, 14}

	c := Numeric(original, synthetic)
	assert.Equal(t, 0.0, c.Lo)
	assert.Equal(t, 14.0, c.Hi)
	require.Len(t, c.Bins, 20)

	var origTotal, synTotal int
	for _, b := range c.Bins {
		origTotal += b.Original
		synTotal += b.Synthetic
	}
	assert.Equal(t, len(original), origTotal, "every original value lands in some bin")
	assert.Equal(t, len(synthetic), synTotal)

	assert.Equal(t, 1, c.Bins[len(c.Bins)-1].Synthetic, "the maximum lands in the closed last bin")

	assert.Equal(t, 10, c.Original.Count)
	assert.InDelta(t, 4.5, c.Original.Mean, 1e-9)
	assert.InDelta(t, 9.5, c.Synthetic.Mean, 1e-9)

	require.Len(t, c.Grid, 64)
	require.Len(t, c.OriginalDensity, 64)
	require.Len(t, c.SyntheticDensity, 64)
	assert.Equal(t, c.Lo, c.Grid[0])
	assert.InDelta(t, c.Hi, c.Grid[len(c.Grid)-1], 1e-9)
}

func TestNumericDegenerateInputs(t *testing.T) {
	empty := Numeric(nil, nil)
	assert.Empty(t, empty.Bins)
	assert.Equal(t, Moments{}, empty.Original)

	point := Numeric([]float64{3, 3, 3}, []float64{3})
	require.Len(t, point.Bins, 1, "zero variance collapses to a single bin")
	assert.Equal(t, 3, point.Bins[0].Original)
	assert.Equal(t, 1, point.Bins[0].Synthetic)
	assert.Nil(t, point.Grid, "density curves are disabled for degenerate sides")

	oneSided := Numeric([]float64{1, 2, 3}, nil)
	assert.Len(t, oneSided.Bins, 20)
	assert.Nil(t, oneSided.Grid, "an empty synthetic side disables the density curves")
}

func TestCategoricalUnionOrdering(t *testing.T) {
	original := []string{"Female", "Female", "Male", "Female"}
	synthetic := []string{"Male", "Male", "Other"}

	c := Categorical(original, synthetic)
	require.Len(t, c.Categories, 3)

	// Female 3+0, Male 1+2 tie at 3; name breaks the tie. Other last.
	assert.Equal(t, "Female", c.Categories[0].Value)
	assert.Equal(t, "Male", c.Categories[1].Value)
	assert.Equal(t, "Other", c.Categories[2].Value)

	assert.InDelta(t, 0.75, c.Categories[0].OriginalShare, 1e-9)
	assert.InDelta(t, 0.0, c.Categories[0].SyntheticShare, 1e-9)
	assert.InDelta(t, 2.0/3.0, c.Categories[1].SyntheticShare, 1e-9)
}

func TestCategoricalIsDeterministic(t *testing.T) {
	original := []string{"a", "b", "c", "a"}
	synthetic := []string{"c", "d"}

	first := Categorical(original, synthetic)
	for i := 0; i < 10; i++ {
		assert.Empty(t, cmp.Diff(first, Categorical(original, synthetic)))
	}
}

func TestColumnsRejectsMismatch(t *testing.T) {
	a := &dataset.Column{Name: "age", Kind: dataset.KindNumeric}
	b := &dataset.Column{Name: "income", Kind: dataset.KindNumeric}
	_, err := Columns(a, b)
	assert.Error(t, err)

	c := &dataset.Column{Name: "age", Kind: dataset.KindText}
	_, err = Columns(a, c)
	assert.Error(t, err)
}

func TestColumnsDatetimeSummarizesNumerically(t *testing.T) {
	day := func(d int) interface{} {
		return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC)
	}
	orig := &dataset.Column{Name: "joined", Kind: dataset.KindDatetime,
		Values: []interface{}{day(1), day(10), day(20)}}
	syn := &dataset.Column{Name: "joined", Kind: dataset.KindDatetime,
		Values: []interface{}{day(5), day(15)}}

	c, err := Columns(orig, syn)
	require.NoError(t, err)
	require.NotNil(t, c.Numeric)
	assert.Nil(t, c.Categorical)
	assert.Equal(t, 3, c.Numeric.Original.Count)
	assert.Equal(t, float64(day(1).(time.Time).Unix()), c.Numeric.Lo)
}

func TestDatasetRequiresSharedSchema(t *testing.T) {
	a := dataset.MustNew(dataset.ColumnSpec{Name: "v", Kind: dataset.KindNumeric})
	b := dataset.MustNew(dataset.ColumnSpec{Name: "v", Kind: dataset.KindText})
	_, err := Dataset(a, b)
	assert.Error(t, err)

	c := dataset.MustNew(dataset.ColumnSpec{Name: "v", Kind: dataset.KindNumeric})
	out, err := Dataset(a, c)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "v", out[0].Column)
}
