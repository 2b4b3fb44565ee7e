// Package export serializes a dataset to a downloadable file. CSV is
// the primary format; JSON records and XLSX workbooks are also
// supported. All writes go through a temp file plus atomic rename so a
// failed export never leaves a partial file behind.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/leengari/synthtab/internal/domain/dataset"
)

// Format identifies an output serialization
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat resolves a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", "":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected csv, json or xlsx)", s)
}

// Write serializes the dataset to path in the given format
func Write(ds *dataset.Dataset, path string, format Format, logger *slog.Logger) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = MarshalCSV(ds)
	case FormatJSON:
		data, err = MarshalJSON(ds)
	case FormatXLSX:
		data, err = marshalXLSX(ds)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to serialize dataset: %w", err)
	}

	if err := writeAtomic(path, data); err != nil {
		return err
	}

	logger.Info("dataset exported",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("rows", ds.Len()),
	)
	return nil
}

// MarshalCSV renders the dataset as CSV with a header row. Cell
// formatting round-trips through the loader: numbers in shortest form,
// datetimes as "2006-01-02 15:04:05", nulls as empty cells.
func MarshalCSV(ds *dataset.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, ds.NumColumns())
	for i, col := range ds.Columns() {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	record := make([]string, ds.NumColumns())
	for r := 0; r < ds.Len(); r++ {
		for i, col := range ds.Columns() {
			record[i] = dataset.FormatCell(col.Values[r])
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// MarshalJSON renders the dataset as an array of record objects,
// mirroring the records orientation of the CSV form
func MarshalJSON(ds *dataset.Dataset) ([]byte, error) {
	records := make([]map[string]interface{}, ds.Len())
	for r := 0; r < ds.Len(); r++ {
		row := make(map[string]interface{}, ds.NumColumns())
		for _, col := range ds.Columns() {
			v := col.Values[r]
			if t, ok := v.(time.Time); ok {
				v = dataset.FormatCell(t)
			}
			row[col.Name] = v
		}
		records[r] = row
	}
	return json.MarshalIndent(records, "", "  ")
}

// marshalXLSX renders the dataset as a single-sheet workbook
func marshalXLSX(ds *dataset.Dataset) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, col := range ds.Columns() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col.Name); err != nil {
			return nil, err
		}
	}
	for r := 0; r < ds.Len(); r++ {
		for i, col := range ds.Columns() {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, dataset.FormatCell(col.Values[r])); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeAtomic writes data via temp file + atomic rename
func writeAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}
