package export

import (
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet   = "Datos"
	maxColumnWidth = 50
)

// encodeXLSX builds a single-sheet workbook. Each column is as wide as its
// longest value plus two, capped at 50 characters.
func encodeXLSX(rows []Row, sheet string) ([]byte, error) {
	if sheet == "" {
		sheet = defaultSheet
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	headers := rows[0].Headers()
	widths := make([]int, len(headers))
	for col, h := range headers {
		if err := setCell(f, sheet, col, 1, h); err != nil {
			return nil, err
		}
		widths[col] = utf8.RuneCountInString(h)
	}
	for i, row := range rows {
		values := valuesByHeader(row)
		for col, h := range headers {
			v := values[h]
			if err := setCell(f, sheet, col, i+2, v); err != nil {
				return nil, err
			}
			widths[col] = max(widths[col], utf8.RuneCountInString(v))
		}
	}

	for col, w := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, float64(ColumnWidth(w))); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ColumnWidth is the sheet width for a column whose longest text has n characters.
func ColumnWidth(n int) int {
	return min(n+2, maxColumnWidth)
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	return f.SetCellStr(sheet, cell, value)
}
