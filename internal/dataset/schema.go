// Package dataset is the editable enrichment engine: an in-memory working set
// of service onboarding rows with dirty tracking against a baseline snapshot,
// per-row completion scoring, advisory validation, and row-level CRUD.
//
// The engine is single-threaded by contract; callers serialize access to a
// Dataset instance. It never logs and never talks to collaborators except
// through the Codec boundary.
package dataset

import (
	"github.com/onboardops/onboardops/internal/normalize"
)

// Field names one enrichment column.
type Field string

const (
	FieldServiceName        Field = "service_name"
	FieldServiceID          Field = "service_id"
	FieldServiceDescription Field = "service_description"
	FieldBusinessService    Field = "business_service"
	FieldCMDBCIName         Field = "cmdb_ci_name"
	FieldCMDBCISysID        Field = "cmdb_ci_sysid"
	FieldCMDBClass          Field = "cmdb_class"
	FieldOwnerName          Field = "owner_name"
	FieldOwnerEmail         Field = "owner_email"
	FieldSecondaryOwner     Field = "secondary_owner"
	FieldEngineeringManager Field = "engineering_manager"
	FieldVPOwner            Field = "vp_owner"
	FieldTeamName           Field = "team_name"
	FieldTeamID             Field = "team_id"
	FieldTeamConfirmed      Field = "team_confirmed"
	FieldEscalationPolicy   Field = "escalation_policy"
	FieldRunbookURL         Field = "runbook_url"
	FieldTier               Field = "tier"
	FieldEnvironment        Field = "environment"
	FieldOnboardingStatus   Field = "onboarding_status"
	FieldMonitoringEnabled  Field = "monitoring_enabled"
	FieldNotes              Field = "notes"
)

// AllFields is the fixed schema in spreadsheet column order.
var AllFields = []Field{
	FieldServiceName,
	FieldServiceID,
	FieldServiceDescription,
	FieldBusinessService,
	FieldCMDBCIName,
	FieldCMDBCISysID,
	FieldCMDBClass,
	FieldOwnerName,
	FieldOwnerEmail,
	FieldSecondaryOwner,
	FieldEngineeringManager,
	FieldVPOwner,
	FieldTeamName,
	FieldTeamID,
	FieldTeamConfirmed,
	FieldEscalationPolicy,
	FieldRunbookURL,
	FieldTier,
	FieldEnvironment,
	FieldOnboardingStatus,
	FieldMonitoringEnabled,
	FieldNotes,
}

// trackedFields drives completion scoring: a row's completion is the
// percentage of these fields holding a non-empty value.
var trackedFields = []Field{
	FieldServiceName,
	FieldBusinessService,
	FieldCMDBCIName,
	FieldCMDBCISysID,
	FieldOwnerName,
	FieldOwnerEmail,
	FieldEngineeringManager,
	FieldTeamName,
	FieldTeamConfirmed,
	FieldEscalationPolicy,
	FieldTier,
	FieldOnboardingStatus,
}

// requiredFields drives validation: an empty value is reported as an issue.
var requiredFields = []Field{
	FieldServiceName,
	FieldCMDBCIName,
	FieldOwnerEmail,
	FieldTeamName,
}

// enumFields lists recognized values for constrained fields. The empty string
// is always allowed; validation flags anything else not in the list.
var enumFields = map[Field][]string{
	FieldTeamConfirmed:     {"Yes", "No", "Pending"},
	FieldOnboardingStatus:  {"Not Started", "In Progress", "Complete"},
	FieldTier:              {"1", "2", "3", "4"},
	FieldEnvironment:       {"production", "staging", "development"},
	FieldMonitoringEnabled: {"Yes", "No"},
}

var fieldByKey = func() map[string]Field {
	m := make(map[string]Field, len(AllFields))
	for _, f := range AllFields {
		m[normalize.Key(string(f))] = f
	}
	return m
}()

// FieldFromHeader resolves a spreadsheet column header to a schema field.
// Matching is insensitive to case, spaces, underscores, and dashes.
func FieldFromHeader(header string) (Field, bool) {
	f, ok := fieldByKey[normalize.Key(header)]
	return f, ok
}

// TrackedFieldCount reports how many fields drive completion scoring.
func TrackedFieldCount() int {
	return len(trackedFields)
}
