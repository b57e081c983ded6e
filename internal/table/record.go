package table

import (
	"errors"
	"fmt"
	"strconv"
)

// Standard user fields. Every parsed record carries these keys.
const (
	FieldFirstName   = "firstname"
	FieldLastName    = "lastname"
	FieldEmail       = "email"
	FieldDepartments = "departments"
	FieldCreated     = "created"
	FieldGroups      = "groups"
)

// StandardFields lists the fields guaranteed on every record, in template
// column order.
var StandardFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldDepartments,
	FieldCreated,
	FieldGroups,
}

// Separators used inside single cells.
const (
	GroupSeparator      = ";"
	DepartmentSeparator = ","
)

var (
	// ErrEmptyFile is returned when a file has no header row.
	ErrEmptyFile = errors.New("empty file: no header row found")

	// ErrMalformedFile wraps decode failures of structurally invalid files.
	ErrMalformedFile = errors.New("malformed file")

	// Specific malformed-file causes. Each wraps ErrMalformedFile.
	ErrInvalidCSV      = fmt.Errorf("%w: invalid csv", ErrMalformedFile)
	ErrInvalidWorkbook = fmt.Errorf("%w: invalid workbook", ErrMalformedFile)
	ErrEncoding        = fmt.Errorf("%w: encoding error", ErrMalformedFile)

	// ErrExport wraps failures while serializing an export.
	ErrExport = errors.New("export failed")
)

// Record is one user row: field name to cell value.
type Record map[string]string

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Complete reports whether the identifying fields are all non-empty.
func (r Record) Complete() bool {
	return r[FieldFirstName] != "" && r[FieldLastName] != "" && r[FieldEmail] != ""
}

// ParseResult is the outcome of parsing an uploaded file.
type ParseResult struct {
	Format  Format
	Columns []string
	Rows    []Record
}

// ColumnKey is the record key for header cell i. A blank header cell is
// keyed by its 1-based position, "column_<n>", so its values survive a
// round trip.
func ColumnKey(i int, name string) string {
	if name == "" {
		return "column_" + strconv.Itoa(i+1)
	}
	return name
}

// newRecord builds a record from a header and a row of cells. Cells past
// the end of row read as "". A repeated header name keeps the later cell.
func newRecord(header, row []string) Record {
	rec := make(Record, len(header)+len(StandardFields))
	for _, f := range StandardFields {
		rec[f] = ""
	}
	for i, name := range header {
		key := ColumnKey(i, name)
		if i < len(row) {
			rec[key] = row[i]
		} else {
			rec[key] = ""
		}
	}
	return rec
}
