package export

import (
	"bytes"
	"encoding/csv"
)

// encodeCSV writes a header line from the first row followed by one line per
// row. Values holding the delimiter, a quote or a newline are quoted.
func encodeCSV(rows []Row, delimiter rune) ([]byte, error) {
	if delimiter == 0 {
		delimiter = ','
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delimiter

	headers := rows[0].Headers()
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		values := valuesByHeader(row)
		for i, h := range headers {
			record[i] = values[h]
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func valuesByHeader(row Row) map[string]string {
	values := make(map[string]string, len(row))
	for _, c := range row {
		values[c.Header] = c.Value
	}
	return values
}
