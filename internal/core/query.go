package core

import (
	"strings"

	"github.com/JonMunkholm/roster/internal/table"
)

// Search returns the rows matching query or department, in stored order.
//
// A row matches when the lower-cased query is a substring of its lastname,
// firstname or email (lower-cased), or when department is non-empty and is
// exactly one of the row's comma-separated departments. An empty query
// therefore matches every row. The returned records are copies.
func (s *Service) Search(query, department string) []table.Record {
	query = strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]table.Record, 0, len(s.dataset.Rows))
	for _, row := range s.dataset.Rows {
		if matches(row, query, department) {
			out = append(out, row.Clone())
		}
	}
	return out
}

// matches expects query already lower-cased.
func matches(row table.Record, query, department string) bool {
	if strings.Contains(strings.ToLower(row[table.FieldLastName]), query) ||
		strings.Contains(strings.ToLower(row[table.FieldFirstName]), query) ||
		strings.Contains(strings.ToLower(row[table.FieldEmail]), query) {
		return true
	}
	if department == "" {
		return false
	}
	for _, d := range strings.Split(row[table.FieldDepartments], table.DepartmentSeparator) {
		if d == department {
			return true
		}
	}
	return false
}
