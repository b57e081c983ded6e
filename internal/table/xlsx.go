package table

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// exportSheet is the sheet name of exported workbooks.
const exportSheet = "Sheet1"

// parseXLSX reads the active sheet of a workbook. The first row is the
// header; blank data rows are skipped.
func parseXLSX(data []byte) (*ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyFile
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrInvalidWorkbook, sheet, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyFile
	}

	header := rows[0]
	result := &ParseResult{
		Format:  FormatXLSX,
		Columns: append([]string(nil), header...),
	}

	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		result.Rows = append(result.Rows, newRecord(header, row))
	}

	return result, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// writeXLSX writes a single-sheet workbook. Rows without firstname,
// lastname or email are left out.
func writeXLSX(w io.Writer, columns []string, rows []Record) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return 0, fmt.Errorf("open stream writer: %w", err)
	}

	line := 1
	writeRow := func(values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		line++
		return sw.SetRow(cell, cells)
	}

	if len(columns) > 0 {
		if err := writeRow(columns); err != nil {
			return 0, fmt.Errorf("write header: %w", err)
		}
	}

	written := 0
	values := make([]string, len(columns))
	for _, row := range rows {
		if !row.Complete() {
			continue
		}
		for i, col := range columns {
			values[i] = row[ColumnKey(i, col)]
		}
		if err := writeRow(values); err != nil {
			return 0, fmt.Errorf("write row %d: %w", line, err)
		}
		written++
	}

	if err := sw.Flush(); err != nil {
		return 0, fmt.Errorf("flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	return written, nil
}
