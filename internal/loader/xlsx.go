package loader

import (
	"github.com/xuri/excelize/v2"

	derrors "github.com/leengari/synthtab/internal/domain/errors"
)

// readXLSX reads the first sheet of an XLSX workbook into a header row
// and raw string records. Trailing short rows are padded to the header
// width, matching how spreadsheets omit empty trailing cells.
func readXLSX(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, &derrors.LoadError{Path: path, Reason: "cannot open workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, &derrors.LoadError{Path: path, Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, &derrors.LoadError{Path: path, Reason: "cannot read sheet " + sheets[0], Err: err}
	}
	if len(rows) == 0 {
		return nil, nil, &derrors.LoadError{Path: path, Reason: "sheet " + sheets[0] + " is empty"}
	}

	header := rows[0]
	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		records = append(records, row[:len(header)])
	}

	return header, records, nil
}
