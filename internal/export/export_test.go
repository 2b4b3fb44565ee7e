package export

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/synthtab/internal/domain/dataset"
	"github.com/leengari/synthtab/internal/loader"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.MustNew(
		dataset.ColumnSpec{Name: "age", Kind: dataset.KindNumeric},
		dataset.ColumnSpec{Name: "gender", Kind: dataset.KindCategorical},
		dataset.ColumnSpec{Name: "joined", Kind: dataset.KindDatetime},
	)
	require.NoError(t, ds.AppendRow(map[string]interface{}{
		"age": 34.5, "gender": "Female",
		"joined": time.Date(2023, 1, 15, 9, 30, 0, 0, time.UTC),
	}))
	require.NoError(t, ds.AppendRow(map[string]interface{}{
		"age": nil, "gender": "Male",
		"joined": time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
	}))
	return ds
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{
		"":      FormatCSV,
		"csv":   FormatCSV,
		"CSV":   FormatCSV,
		"json":  FormatJSON,
		"xlsx":  FormatXLSX,
		"excel": FormatXLSX,
	} {
		got, err := ParseFormat(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, err := ParseFormat("parquet")
	assert.Error(t, err)
}

func TestCSVRoundTripThroughLoader(t *testing.T) {
	ds := sampleDataset(t)
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Write(ds, path, FormatCSV, testLogger()))

	back, err := loader.Load(path, loader.Options{Categorical: []string{"gender"}}, testLogger())
	require.NoError(t, err)

	assert.True(t, ds.SchemaEqual(back), "schema survives the round trip")
	assert.Equal(t, ds.Len(), back.Len())
	assert.Equal(t, ds.Column("age").NumericValues(), back.Column("age").NumericValues())
	assert.Equal(t, ds.Column("joined").TimeValues(), back.Column("joined").TimeValues())
	assert.Nil(t, back.Row(1)["age"], "nulls survive as empty cells")
}

func TestXLSXRoundTripThroughLoader(t *testing.T) {
	ds := sampleDataset(t)
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, Write(ds, path, FormatXLSX, testLogger()))

	back, err := loader.Load(path, loader.Options{Categorical: []string{"gender"}}, testLogger())
	require.NoError(t, err)
	assert.True(t, ds.SchemaEqual(back))
	assert.Equal(t, ds.Len(), back.Len())
}

func TestMarshalJSONRecords(t *testing.T) {
	data, err := MarshalJSON(sampleDataset(t))
	require.NoError(t, err)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, 34.5, records[0]["age"])
	assert.Equal(t, "Female", records[0]["gender"])
	assert.Equal(t, "2023-01-15 09:30:00", records[0]["joined"], "datetimes serialize in canonical text form")
	assert.Nil(t, records[1]["age"])
}

func TestWriteLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.csv")
	require.NoError(t, Write(sampleDataset(t), path, FormatCSV, testLogger()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
