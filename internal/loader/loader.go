// Package loader parses one tabular file (CSV or XLSX) into an
// in-memory dataset, inferring each column's kind from its cells.
package loader

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leengari/synthtab/internal/domain/dataset"
	derrors "github.com/leengari/synthtab/internal/domain/errors"
)

// Options adjusts schema inference
type Options struct {
	// Categorical forces the named columns to the categorical kind
	// regardless of the distinct-value heuristic
	Categorical []string
	// KindOverrides pins specific columns to a kind
	KindOverrides map[string]dataset.Kind
}

// Load reads the file at path into a dataset, dispatching on the file
// extension (.csv or .xlsx)
func Load(path string, opts Options, logger *slog.Logger) (*dataset.Dataset, error) {
	var (
		header  []string
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		header, records, err = readCSV(path)
	case ".xlsx":
		header, records, err = readXLSX(path)
	default:
		return nil, &derrors.LoadError{
			Path:   path,
			Reason: "unsupported file extension, expected .csv or .xlsx",
		}
	}
	if err != nil {
		return nil, err
	}

	ds, err := build(path, header, records, opts)
	if err != nil {
		return nil, err
	}

	logger.Info("dataset loaded",
		slog.String("path", path),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", ds.NumColumns()),
	)
	return ds, nil
}

// build turns a header row plus raw string records into a typed dataset
func build(path string, header []string, records [][]string, opts Options) (*dataset.Dataset, error) {
	if len(header) == 0 {
		return nil, &derrors.LoadError{Path: path, Reason: "missing header row"}
	}

	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &derrors.LoadError{Path: path, Reason: "empty column name in header"}
		}
		if _, dup := seen[name]; dup {
			return nil, &derrors.LoadError{Path: path, Reason: "duplicate column name " + name}
		}
		seen[name] = struct{}{}
	}

	forced := make(map[string]dataset.Kind, len(opts.KindOverrides)+len(opts.Categorical))
	for name, kind := range opts.KindOverrides {
		forced[name] = kind
	}
	for _, name := range opts.Categorical {
		forced[name] = dataset.KindCategorical
	}

	// Column-major view of the raw cells
	cells := make([][]string, len(header))
	for i := range header {
		cells[i] = make([]string, 0, len(records))
	}
	for r, record := range records {
		if len(record) != len(header) {
			return nil, &derrors.LoadError{
				Path:   path,
				Reason: "row " + strconv.Itoa(r+2) + " has " + strconv.Itoa(len(record)) + " cells, header has " + strconv.Itoa(len(header)),
			}
		}
		for i, cell := range record {
			cells[i] = append(cells[i], cell)
		}
	}

	specs := make([]dataset.ColumnSpec, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		kind, ok := forced[name]
		if !ok {
			kind = dataset.InferKind(cells[i])
		}
		specs[i] = dataset.ColumnSpec{Name: name, Kind: kind}
	}

	ds, err := dataset.New(specs...)
	if err != nil {
		return nil, &derrors.LoadError{Path: path, Reason: "invalid schema", Err: err}
	}

	for r := range records {
		row := make(map[string]interface{}, len(specs))
		for i, spec := range specs {
			v, err := dataset.ParseCell(cells[i][r], spec.Kind)
			if err != nil {
				return nil, &derrors.LoadError{
					Path:   path,
					Reason: "column " + spec.Name + ", row " + strconv.Itoa(r+2),
					Err:    err,
				}
			}
			row[spec.Name] = v
		}
		if err := ds.AppendRow(row); err != nil {
			return nil, &derrors.LoadError{Path: path, Reason: "row " + strconv.Itoa(r + 2), Err: err}
		}
	}

	return ds, nil
}

