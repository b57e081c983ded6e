package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// parseCSV reads comma-separated text. The first non-empty line is the
// header. Rows may be shorter or longer than the header; missing cells read
// as "" and surplus cells are ignored.
func parseCSV(data []byte) (*ParseResult, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w header: %v", ErrInvalidCSV, err)
	}

	result := &ParseResult{
		Format:  FormatCSV,
		Columns: append([]string(nil), header...),
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}
		result.Rows = append(result.Rows, newRecord(header, row))
	}

	return result, nil
}

// writeCSV writes every record using columns as the field order.
func writeCSV(w io.Writer, columns []string, rows []Record) (int, error) {
	if len(columns) == 0 {
		return 0, nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return 0, err
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row[ColumnKey(i, col)]
		}
		if err := cw.Write(record); err != nil {
			return 0, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return len(rows), nil
}
