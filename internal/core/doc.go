// Package core holds the in-memory user roster and its operations.
//
// A [Service] owns exactly one dataset: the column order and rows of the
// last uploaded file. It is created once at startup and injected into the
// HTTP layer; nothing in this package is global.
//
// # Operations
//
//   - [Service.Upload] parses a CSV or XLSX file and replaces the dataset.
//   - [Service.Search] filters rows by name/email substring or department.
//   - [Service.UpdateGroups] adds and removes group labels on selected rows.
//   - [Service.ListGroups] lists every distinct group label.
//   - [Service.Export] serializes the dataset back to CSV or XLSX.
//
// An empty dataset is valid: reads return empty results, not errors.
//
// # Row identity
//
// Rows are addressed by [RowID], "firstname_lastname_email". The identity is
// derived rather than stored, so rows sharing all three fields are updated
// together.
//
// # Error Handling
//
// Technical errors map to user-facing messages through [MapError]; each
// message has a code (FILE*, UPL*, REQ*, EXP*, RATE001, ERR000) for support.
package core
