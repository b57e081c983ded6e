package table

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a tabular file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// zipMagic prefixes every XLSX workbook (an OOXML zip container).
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// ParseFormat converts a user-supplied format name to a Format.
// The empty string is rejected; callers apply their own default.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel", "spreadsheet":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// DetectFormat picks the format from the filename extension, falling back
// to sniffing the first bytes of the content.
func DetectFormat(filename string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return FormatCSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	}
	if bytes.HasPrefix(head, zipMagic) {
		return FormatXLSX
	}
	return FormatCSV
}

// ContentType returns the MIME type used for downloads.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	if f == FormatXLSX {
		return ".xlsx"
	}
	return ".csv"
}

func (f Format) String() string { return string(f) }
