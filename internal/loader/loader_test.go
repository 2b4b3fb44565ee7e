package loader

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/synthtab/internal/domain/dataset"
	derrors "github.com/leengari/synthtab/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const customerCSV = `customer_id,age,gender,policy_start_date
CUST-0001,34,Female,2023-01-15
CUST-0002,51,Male,2023-03-02
CUST-0003,,Female,2023-07-19
CUST-0004,28,Male,2023-11-30
`

func TestLoadCSV(t *testing.T) {
	ds, err := Load(writeTempCSV(t, customerCSV), Options{}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Len())
	require.Equal(t, 4, ds.NumColumns())

	assert.Equal(t, dataset.KindText, ds.Column("customer_id").Kind)
	assert.Equal(t, dataset.KindNumeric, ds.Column("age").Kind)
	assert.Equal(t, dataset.KindCategorical, ds.Column("gender").Kind)
	assert.Equal(t, dataset.KindDatetime, ds.Column("policy_start_date").Kind)

	assert.Equal(t, []float64{34, 51, 28}, ds.Column("age").NumericValues(),
		"the empty cell loads as a null and is skipped")
	assert.Nil(t, ds.Row(2)["age"])
	assert.Equal(t, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), ds.Row(0)["policy_start_date"])
}

func TestLoadForcesCategorical(t *testing.T) {
	// zip looks numeric but must stay categorical when forced
	csv := "zip\n10001\n10002\n10001\n"
	ds, err := Load(writeTempCSV(t, csv), Options{Categorical: []string{"zip"}}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, dataset.KindCategorical, ds.Column("zip").Kind)
	assert.Equal(t, []string{"10001", "10002", "10001"}, ds.Column("zip").StringValues())
}

func TestLoadKindOverride(t *testing.T) {
	csv := "code\nA1\nB2\nA1\n"
	ds, err := Load(writeTempCSV(t, csv),
		Options{KindOverrides: map[string]dataset.Kind{"code": dataset.KindText}}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, dataset.KindText, ds.Column("code").Kind)
}

func TestLoadMixedNumericDateColumnDegradesToText(t *testing.T) {
	// A numeric cell ahead of date cells must not tip the column to
	// DATETIME and then fail the numeric cell's parse
	csv := "note\n5\n2021-01-01\n2021-02-01\n"
	ds, err := Load(writeTempCSV(t, csv), Options{}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, dataset.KindText, ds.Column("note").Kind)
	assert.Equal(t, []string{"5", "2021-01-01", "2021-02-01"}, ds.Column("note").StringValues())
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty file", ""},
		{"duplicate header", "age,age\n1,2\n"},
		{"blank header cell", "age, \n1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTempCSV(t, tt.csv), Options{}, testLogger())
			require.Error(t, err)
			var lerr *derrors.LoadError
			assert.True(t, errors.As(err, &lerr), "loader failures carry a LoadError: %v", err)
		})
	}
}

func TestLoadRejectsUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.parquet")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	_, err := Load(path, Options{}, testLogger())
	assert.Error(t, err)
}

func TestParseCSVRowWidthMismatch(t *testing.T) {
	_, _, err := parseCSV("test.csv", strings.NewReader("a,b\n1,2,3\n"))
	require.Error(t, err)
	var lerr *derrors.LoadError
	assert.True(t, errors.As(err, &lerr))
}
