package dataset

import (
	"fmt"
	"strings"
)

// Validate checks every working row against the schema rules and returns one
// human-readable issue per violation: duplicate ids, empty required fields,
// and unrecognized values in constrained fields. Advisory only; it never
// mutates rows and never blocks other operations.
func (d *Dataset) Validate() []string {
	var issues []string

	seen := make(map[string]int, len(d.working))
	for i, row := range d.working {
		label := rowLabel(i, row)

		if first, dup := seen[row.ID]; dup {
			issues = append(issues, fmt.Sprintf("%s: duplicate id %q (also used by row %d)", label, row.ID, first+1))
		} else {
			seen[row.ID] = i
		}

		for _, f := range requiredFields {
			if strings.TrimSpace(row.Fields[f]) == "" {
				issues = append(issues, fmt.Sprintf("%s: required field %q is empty", label, f))
			}
		}

		for _, f := range AllFields {
			allowed, constrained := enumFields[f]
			if !constrained {
				continue
			}
			value := strings.TrimSpace(row.Fields[f])
			if value == "" {
				continue
			}
			if !contains(allowed, value) {
				issues = append(issues, fmt.Sprintf("%s: unrecognized %s value %q (expected one of: %s)",
					label, f, value, strings.Join(allowed, ", ")))
			}
		}
	}

	return issues
}

func rowLabel(index int, row Row) string {
	name := strings.TrimSpace(row.Fields[FieldServiceName])
	if name == "" {
		return fmt.Sprintf("row %d", index+1)
	}
	return fmt.Sprintf("row %d (%s)", index+1, name)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
