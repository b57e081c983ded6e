// Package table converts uploaded tabular files into user records and back.
//
// Two formats are supported: comma-separated text and XLSX workbooks. Both
// parse into the same [ParseResult]: the header row captured verbatim as the
// column order, plus one [Record] per data row. Each record carries a key
// for every non-empty header cell and always carries the standard user
// fields ([StandardFields]), which default to "" when the file lacks them.
//
// Export is the reverse: [Write] serializes records in column order. XLSX
// export drops rows missing firstname, lastname or email; CSV export keeps
// every row.
package table
