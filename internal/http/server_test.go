package httpapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/onboardops/onboardops/internal/config"
	"github.com/onboardops/onboardops/internal/dataset"
	"github.com/onboardops/onboardops/internal/directory"
	"github.com/onboardops/onboardops/internal/excel"
)

type fakeDirectory struct {
	users    []directory.User
	teams    []directory.Team
	services []directory.Service
	err      error
	lastOpts directory.ListOptions
}

func (f *fakeDirectory) ListUsers(ctx context.Context, opts directory.ListOptions) ([]directory.User, error) {
	f.lastOpts = opts
	return f.users, f.err
}

func (f *fakeDirectory) ListTeams(ctx context.Context, opts directory.ListOptions) ([]directory.Team, error) {
	f.lastOpts = opts
	return f.teams, f.err
}

func (f *fakeDirectory) ListServices(ctx context.Context, opts directory.ListOptions) ([]directory.Service, error) {
	f.lastOpts = opts
	return f.services, f.err
}

func newTestServer(t *testing.T, dir *fakeDirectory) (*EchoServer, *dataset.Dataset) {
	t.Helper()
	ds := dataset.New(dataset.Options{Codec: excel.Codec{}})
	es, err := NewEchoServer(config.Config{}, dir, ds)
	if err != nil {
		t.Fatalf("NewEchoServer: %v", err)
	}
	return es, ds
}

func doJSON(t *testing.T, es *EchoServer, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	es.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	es, _ := newTestServer(t, &fakeDirectory{})
	rec := doJSON(t, es, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestDirectoryUsersEndpoint(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{users: []directory.User{{ID: "U1", Name: "Ada"}, {ID: "U2", Name: "Lin"}}}
	es, _ := newTestServer(t, dir)

	rec := doJSON(t, es, http.MethodGet, "/api/directory/users?query=ada&team_ids[]=T1&sort_by=name", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var payload struct {
		Users []directory.User `json:"users"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.Users) != 2 || payload.Users[0].ID != "U1" {
		t.Fatalf("users = %+v", payload.Users)
	}
	if dir.lastOpts.Query != "ada" || dir.lastOpts.SortBy != "name" {
		t.Fatalf("filters not forwarded: %+v", dir.lastOpts)
	}
	if len(dir.lastOpts.TeamIDs) != 1 || dir.lastOpts.TeamIDs[0] != "T1" {
		t.Fatalf("team ids not forwarded: %+v", dir.lastOpts.TeamIDs)
	}
}

func TestDirectoryErrorSurfacesAsBadGateway(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{err: &directory.FetchError{Resource: "teams", Offset: 0, Err: errors.New("boom")}}
	es, _ := newTestServer(t, dir)

	rec := doJSON(t, es, http.MethodGet, "/api/directory/teams", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "directory fetch failed") {
		t.Fatalf("body = %s", rec.Body)
	}
}

func TestDatasetRowLifecycleOverHTTP(t *testing.T) {
	t.Parallel()

	es, _ := newTestServer(t, &fakeDirectory{})

	// Add a row.
	rec := doJSON(t, es, http.MethodPost, "/api/dataset/rows", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, want 201: %s", rec.Code, rec.Body)
	}
	var row dataset.Row
	if err := json.Unmarshal(rec.Body.Bytes(), &row); err != nil {
		t.Fatalf("unmarshal row: %v", err)
	}
	if row.ID == "" || row.Completion != 0 {
		t.Fatalf("row = %+v", row)
	}

	// Update a cell.
	body, _ := json.Marshal(map[string]string{"field": "service_name", "value": "payments"})
	rec = doJSON(t, es, http.MethodPatch, "/api/dataset/rows/"+row.ID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body)
	}

	// Unknown field is a client error.
	body, _ = json.Marshal(map[string]string{"field": "bogus", "value": "x"})
	rec = doJSON(t, es, http.MethodPatch, "/api/dataset/rows/"+row.ID, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d, want 400", rec.Code)
	}

	// Duplicate.
	rec = doJSON(t, es, http.MethodPost, "/api/dataset/rows/"+row.ID+"/duplicate", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("duplicate status = %d: %s", rec.Code, rec.Body)
	}
	var dup dataset.Row
	if err := json.Unmarshal(rec.Body.Bytes(), &dup); err != nil {
		t.Fatalf("unmarshal dup: %v", err)
	}
	if got := dup.Fields[dataset.FieldServiceName]; got != "payments (Copy)" {
		t.Fatalf("dup name = %q", got)
	}

	// Status shows two dirty rows.
	rec = doJSON(t, es, http.MethodGet, "/api/dataset/status", nil)
	var status struct {
		Rows              int  `json:"rows"`
		HasUnsavedChanges bool `json:"hasUnsavedChanges"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if status.Rows != 2 || !status.HasUnsavedChanges {
		t.Fatalf("status = %+v", status)
	}

	// Delete the duplicate; deleting again is a 404.
	rec = doJSON(t, es, http.MethodDelete, "/api/dataset/rows/"+dup.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, es, http.MethodDelete, "/api/dataset/rows/"+dup.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestDatasetExportThenLoadRoundTrip(t *testing.T) {
	t.Parallel()

	es, ds := newTestServer(t, &fakeDirectory{})
	row := ds.AddRow()
	ds.UpdateCell(row.ID, dataset.FieldServiceName, "payments")

	rec := doJSON(t, es, http.MethodGet, "/api/dataset/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d: %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "onboarding.xlsx") {
		t.Fatalf("Content-Disposition = %q", got)
	}

	// Export is a synchronization point.
	if ds.HasUnsavedChanges() {
		t.Fatal("dirty after export")
	}

	// Round-trip the exported bytes back through load.
	loadRec := doJSON(t, es, http.MethodPost, "/api/dataset/load", rec.Body.Bytes())
	if loadRec.Code != http.StatusOK {
		t.Fatalf("load status = %d: %s", loadRec.Code, loadRec.Body)
	}
	rows := ds.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if got := rows[0].Fields[dataset.FieldServiceName]; got != "payments" {
		t.Fatalf("service_name = %q", got)
	}
	if rows[0].ID != row.ID {
		t.Fatalf("row id changed across round-trip: %q != %q", rows[0].ID, row.ID)
	}
}

func TestDatasetLoadRejectsGarbage(t *testing.T) {
	t.Parallel()

	es, ds := newTestServer(t, &fakeDirectory{})
	ds.AddRow()

	rec := doJSON(t, es, http.MethodPost, "/api/dataset/load", []byte("not a workbook"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body)
	}
	// Failed load clears, never leaves stale rows.
	if ds.Len() != 0 {
		t.Fatalf("rows = %d, want 0", ds.Len())
	}
}

func TestDatasetProgressAndValidationEndpoints(t *testing.T) {
	t.Parallel()

	es, ds := newTestServer(t, &fakeDirectory{})
	ds.AddRow()

	rec := doJSON(t, es, http.MethodGet, "/api/dataset/progress", nil)
	var progress dataset.Progress
	if err := json.Unmarshal(rec.Body.Bytes(), &progress); err != nil {
		t.Fatalf("unmarshal progress: %v", err)
	}
	if progress.Total != 1 || progress.NotStarted != 1 {
		t.Fatalf("progress = %+v", progress)
	}

	rec = doJSON(t, es, http.MethodGet, "/api/dataset/validation", nil)
	var validation struct {
		Issues []string `json:"issues"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &validation); err != nil {
		t.Fatalf("unmarshal validation: %v", err)
	}
	// A fresh empty row violates every required-field rule.
	if len(validation.Issues) == 0 {
		t.Fatal("expected validation issues for an empty row")
	}
}
