package loader

import (
	"encoding/csv"
	"io"
	"os"

	derrors "github.com/leengari/synthtab/internal/domain/errors"
)

// readCSV reads a CSV file into a header row and raw string records
func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &derrors.LoadError{Path: path, Reason: "cannot open file", Err: err}
	}
	defer f.Close()

	return parseCSV(path, f)
}

// parseCSV is split from readCSV so tests can feed readers directly
func parseCSV(path string, r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, &derrors.LoadError{Path: path, Reason: "file is empty"}
	}
	if err != nil {
		return nil, nil, &derrors.LoadError{Path: path, Reason: "malformed CSV header", Err: err}
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, &derrors.LoadError{Path: path, Reason: "malformed CSV record", Err: err}
		}
		records = append(records, record)
	}

	return header, records, nil
}
