package runner

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// EncodeDraws writes a draw matrix as CSV, one parameter per column and
// one draw per row, with a header row of parameter names.
func EncodeDraws(names []string, columns [][]float64) ([]byte, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("have %d names for %d columns", len(names), len(columns))
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no draws to encode")
	}

	n := len(columns[0])
	for i, col := range columns {
		if len(col) != n {
			return nil, fmt.Errorf("column %s has %d draws, want %d", names[i], len(col), n)
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(names); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, len(columns))
	for i := 0; i < n; i++ {
		for j, col := range columns {
			row[j] = strconv.FormatFloat(col[i], 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing draws: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeDraws parses a CSV draw matrix back into named columns.
func DecodeDraws(data []byte) ([]string, [][]float64, error) {
	r := csv.NewReader(bytes.NewReader(data))

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make([][]float64, len(header))
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++
		if len(record) != len(header) {
			return nil, nil, fmt.Errorf("line %d: %d fields, want %d", line, len(record), len(header))
		}
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d, column %s: %w", line, header[j], err)
			}
			columns[j] = append(columns[j], v)
		}
	}
	return header, columns, nil
}
