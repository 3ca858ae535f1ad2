// Package allocation decodes the JSON allocation shapes shared by the entry
// sources.
package allocation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"timesheet-dashboard/internal/domain"
)

// List decodes either a list of {label, percentage} objects or a
// {label: percentage} object. The object form is ordered by label.
type List []domain.Allocation

func (a *List) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("allocation: empty JSON")
	}
	switch b[0] {
	case 'n':
		*a = nil
		return nil
	case '[':
		var list []struct {
			Label      string  `json:"label"`
			Percentage float64 `json:"percentage"`
		}
		if err := json.Unmarshal(b, &list); err != nil {
			return fmt.Errorf("allocation list: %w", err)
		}
		out := make([]domain.Allocation, 0, len(list))
		for _, it := range list {
			out = append(out, domain.Allocation{Label: it.Label, Percentage: it.Percentage})
		}
		*a = out
		return nil
	case '{':
		var m map[string]float64
		if err := json.Unmarshal(b, &m); err != nil {
			return fmt.Errorf("allocation map: %w", err)
		}
		labels := make([]string, 0, len(m))
		for l := range m {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		out := make([]domain.Allocation, 0, len(labels))
		for _, l := range labels {
			out = append(out, domain.Allocation{Label: l, Percentage: m[l]})
		}
		*a = out
		return nil
	default:
		return fmt.Errorf("allocation: unexpected JSON %s", string(b))
	}
}

// Decode reads a stored allocation column. Empty input and JSON null yield nil.
func Decode(b []byte) ([]domain.Allocation, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	var l List
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, err
	}
	return []domain.Allocation(l), nil
}
