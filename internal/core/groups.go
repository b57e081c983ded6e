package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JonMunkholm/roster/internal/table"
)

// GroupUpdate is a bulk group-membership edit. All three lists are
// required; a nil list means the field was absent from the request.
type GroupUpdate struct {
	UserIDs        []string `json:"userIds"`
	GroupsToAdd    []string `json:"groupsToAdd"`
	GroupsToRemove []string `json:"groupsToRemove"`
}

// Validate reports the first absent field, then the first group label that
// could not be stored: an empty label, or one containing the separator.
func (u GroupUpdate) Validate() error {
	switch {
	case u.UserIDs == nil:
		return missingField("userIds")
	case u.GroupsToAdd == nil:
		return missingField("groupsToAdd")
	case u.GroupsToRemove == nil:
		return missingField("groupsToRemove")
	}
	if err := validLabels("groupsToAdd", u.GroupsToAdd); err != nil {
		return err
	}
	return validLabels("groupsToRemove", u.GroupsToRemove)
}

func validLabels(field string, labels []string) error {
	for _, g := range labels {
		if g == "" || strings.Contains(g, table.GroupSeparator) {
			return fmt.Errorf("%w: %s: group label %q must be non-empty and must not contain %q",
				ErrInvalidRequest, field, g, table.GroupSeparator)
		}
	}
	return nil
}

func missingField(name string) error {
	return &fieldError{field: name}
}

type fieldError struct{ field string }

func (e *fieldError) Error() string { return ErrMissingField.Error() + ": " + e.field }
func (e *fieldError) Unwrap() error { return ErrMissingField }

// RowID is the wire identity of a row: firstname_lastname_email. Rows
// sharing all three fields share an identity and are edited together.
func RowID(row table.Record) string {
	return row[table.FieldFirstName] + "_" + row[table.FieldLastName] + "_" + row[table.FieldEmail]
}

// UpdateGroups applies u to every row whose RowID is listed and returns
// the number of rows touched. Groups are added first and removed second,
// so a label in both lists ends up absent. The groups field is rewritten
// as sorted, semicolon-joined labels.
func (s *Service) UpdateGroups(u GroupUpdate) (int, error) {
	if err := u.Validate(); err != nil {
		return 0, err
	}

	ids := make(map[string]struct{}, len(u.UserIDs))
	for _, id := range u.UserIDs {
		ids[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, row := range s.dataset.Rows {
		if _, ok := ids[RowID(row)]; !ok {
			continue
		}
		set := splitGroups(row[table.FieldGroups])
		for _, g := range u.GroupsToAdd {
			set[g] = struct{}{}
		}
		for _, g := range u.GroupsToRemove {
			delete(set, g)
		}
		row[table.FieldGroups] = joinGroups(set)
		updated++
	}

	s.recorder.RecordGroupUpdate(updated)
	return updated, nil
}

// ListGroups returns every distinct group label across all rows, sorted.
func (s *Service) ListGroups() []string {
	s.mu.RLock()
	all := make(map[string]struct{})
	for _, row := range s.dataset.Rows {
		for g := range splitGroups(row[table.FieldGroups]) {
			all[g] = struct{}{}
		}
	}
	s.mu.RUnlock()

	return sortedKeys(all)
}

// splitGroups parses a groups cell. Empty labels are dropped.
func splitGroups(cell string) map[string]struct{} {
	set := make(map[string]struct{})
	if cell == "" {
		return set
	}
	for _, g := range strings.Split(cell, table.GroupSeparator) {
		if g != "" {
			set[g] = struct{}{}
		}
	}
	return set
}

func joinGroups(set map[string]struct{}) string {
	return strings.Join(sortedKeys(set), table.GroupSeparator)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
