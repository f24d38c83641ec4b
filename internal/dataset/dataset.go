package dataset

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Codec serializes rows to and from spreadsheet bytes. The engine never
// inspects binary structure.
type Codec interface {
	Decode(data []byte) ([]Record, error)
	Encode(rows []Row) ([]byte, error)
}

// LoadError reports spreadsheet bytes that could not be parsed into the row
// schema. After a LoadError the dataset is empty, never stale.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("spreadsheet load failed: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SaveError reports a failed serialization. The working set and baseline are
// untouched; unsaved changes remain pending.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("spreadsheet save failed: %v", e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Options configures a Dataset. Clock and NewID exist for deterministic
// tests; production code leaves them nil.
type Options struct {
	Codec Codec
	Clock func() time.Time
	NewID func() string
}

// Dataset holds the mutable working set and the baseline snapshot taken at
// the last successful load or save. Not safe for concurrent use; the caller
// serializes access.
type Dataset struct {
	codec Codec
	clock func() time.Time
	newID func() string

	working  []Row
	baseline []Row
}

// New creates an empty dataset.
func New(opts Options) *Dataset {
	d := &Dataset{
		codec: opts.Codec,
		clock: opts.Clock,
		newID: opts.NewID,
	}
	if d.clock == nil {
		d.clock = time.Now
	}
	if d.newID == nil {
		d.newID = uuid.NewString
	}
	return d
}

// Load replaces the entire dataset with rows decoded from spreadsheet bytes.
// Loading is never additive. On failure both working set and baseline are
// cleared and a *LoadError is returned. Unknown columns were already dropped
// by the codec; missing schema fields default to empty. A row keeps the id
// the sheet carried when it is unique, otherwise it gets a fresh one.
func (d *Dataset) Load(data []byte) error {
	if d.codec == nil {
		d.working = nil
		d.baseline = nil
		return &LoadError{Err: errors.New("no codec configured")}
	}
	records, err := d.codec.Decode(data)
	if err != nil {
		d.working = nil
		d.baseline = nil
		return &LoadError{Err: err}
	}

	now := d.clock()
	seen := make(map[string]bool, len(records))
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		fields := newRowFields()
		for _, f := range AllFields {
			fields[f] = rec[string(f)]
		}
		id := rec["id"]
		if id == "" || seen[id] {
			id = d.newID()
		}
		seen[id] = true
		rows = append(rows, Row{
			ID:          id,
			Fields:      fields,
			Completion:  RowCompletion(fields),
			LastUpdated: now,
		})
	}

	d.working = rows
	d.baseline = copyRows(rows)
	return nil
}

// Save serializes the working set. On success the baseline advances to match
// the working set, clearing unsaved-changes status. On failure the baseline
// is untouched and a *SaveError is returned.
func (d *Dataset) Save() ([]byte, error) {
	if d.codec == nil {
		return nil, &SaveError{Err: errors.New("no codec configured")}
	}
	data, err := d.codec.Encode(copyRows(d.working))
	if err != nil {
		return nil, &SaveError{Err: err}
	}
	d.baseline = copyRows(d.working)
	return data, nil
}

// Reset discards unsaved edits, replacing the working set with a copy of the
// baseline.
func (d *Dataset) Reset() {
	d.working = copyRows(d.baseline)
}

// HasUnsavedChanges reports structural inequality between the working set and
// the baseline, compared by value. Reverting an edit to its original value
// makes the dataset clean again.
func (d *Dataset) HasUnsavedChanges() bool {
	if len(d.working) != len(d.baseline) {
		return true
	}
	for i := range d.working {
		if !d.working[i].equalValues(d.baseline[i]) {
			return true
		}
	}
	return false
}

// Rows returns an independent copy of the working set in order.
func (d *Dataset) Rows() []Row {
	return copyRows(d.working)
}

// Len reports the working set size.
func (d *Dataset) Len() int {
	return len(d.working)
}

// UpdateCell replaces one field's value on the row with the matching id,
// re-deriving completion and stamping the mutation time. Silent no-op when no
// row matches; reports whether a row was updated.
func (d *Dataset) UpdateCell(id string, field Field, value string) bool {
	for i := range d.working {
		if d.working[i].ID != id {
			continue
		}
		d.working[i].Fields[field] = value
		d.working[i].Completion = RowCompletion(d.working[i].Fields)
		d.working[i].LastUpdated = d.clock()
		return true
	}
	return false
}

// AddRow appends a new row with a fresh unique id and empty field values.
func (d *Dataset) AddRow() Row {
	fields := newRowFields()
	row := Row{
		ID:          d.newID(),
		Fields:      fields,
		Completion:  RowCompletion(fields),
		LastUpdated: d.clock(),
	}
	d.working = append(d.working, row)
	return row.Clone()
}

// DeleteRow removes the row with the matching id. Silent no-op when absent;
// other rows keep their ids and order.
func (d *Dataset) DeleteRow(id string) bool {
	for i := range d.working {
		if d.working[i].ID == id {
			d.working = append(d.working[:i], d.working[i+1:]...)
			return true
		}
	}
	return false
}

// DuplicateRow appends a copy of the row with the matching id under a fresh
// unique id, marking the service name with a copy suffix. Silent no-op when
// the source id is absent.
func (d *Dataset) DuplicateRow(id string) (Row, bool) {
	for i := range d.working {
		if d.working[i].ID != id {
			continue
		}
		dup := d.working[i].Clone()
		dup.ID = d.newID()
		dup.Fields[FieldServiceName] = dup.Fields[FieldServiceName] + " (Copy)"
		dup.Completion = RowCompletion(dup.Fields)
		dup.LastUpdated = d.clock()
		d.working = append(d.working, dup)
		return dup.Clone(), true
	}
	return Row{}, false
}

func copyRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
