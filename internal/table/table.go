package table

import (
	"fmt"
	"io"
)

// Parse reads an uploaded file. The format comes from the filename when it
// has a known extension, otherwise from the content.
func Parse(r io.Reader, filename string) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	switch DetectFormat(filename, data) {
	case FormatXLSX:
		return parseXLSX(data)
	default:
		return parseCSV(data)
	}
}

// Write serializes rows in the given format and returns how many rows were
// written. Errors are wrapped with ErrExport.
func Write(w io.Writer, format Format, columns []string, rows []Record) (int, error) {
	var (
		n   int
		err error
	)
	switch format {
	case FormatCSV:
		n, err = writeCSV(w, columns, rows)
	case FormatXLSX:
		n, err = writeXLSX(w, columns, rows)
	default:
		return 0, fmt.Errorf("%w: unsupported format %q", ErrExport, format)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrExport, format, err)
	}
	return n, nil
}
