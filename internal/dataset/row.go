package dataset

import (
	"math"
	"strings"
	"time"
)

// Record is one decoded spreadsheet row: schema field name to cell value,
// plus the "id" key when the sheet carried one. The codec resolves raw
// column headers to schema field names and drops unknown columns.
type Record map[string]string

// Row is one unit of the onboarding dataset.
type Row struct {
	ID          string           `json:"id"`
	Fields      map[Field]string `json:"fields"`
	Completion  int              `json:"completion"`
	LastUpdated time.Time        `json:"lastUpdated"`
}

func newRowFields() map[Field]string {
	fields := make(map[Field]string, len(AllFields))
	for _, f := range AllFields {
		fields[f] = ""
	}
	return fields
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	fields := make(map[Field]string, len(r.Fields))
	for f, v := range r.Fields {
		fields[f] = v
	}
	return Row{
		ID:          r.ID,
		Fields:      fields,
		Completion:  r.Completion,
		LastUpdated: r.LastUpdated,
	}
}

// equalValues compares identity and field values only. Derived fields are a
// pure function of the values and the mutation timestamp must not make an
// otherwise reverted edit look dirty.
func (r Row) equalValues(other Row) bool {
	if r.ID != other.ID {
		return false
	}
	for _, f := range AllFields {
		if r.Fields[f] != other.Fields[f] {
			return false
		}
	}
	return true
}

// RowCompletion scores a row's field values: the rounded percentage of
// tracked fields holding a non-empty value. Pure; identical values always
// yield identical scores.
func RowCompletion(fields map[Field]string) int {
	filled := 0
	for _, f := range trackedFields {
		if strings.TrimSpace(fields[f]) != "" {
			filled++
		}
	}
	return int(math.Round(100 * float64(filled) / float64(len(trackedFields))))
}
