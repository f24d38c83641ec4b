// Package excel implements the dataset codec boundary over real xlsx bytes.
package excel

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/onboardops/onboardops/internal/dataset"
	"github.com/onboardops/onboardops/internal/normalize"
)

const defaultSheet = "Onboarding"

// headerTitles maps schema fields to the column headers written on export.
// Decoding is tolerant: any header matching a field after normalization is
// accepted, so round-trips and hand-edited sheets both work.
var headerTitles = map[dataset.Field]string{
	dataset.FieldServiceName:        "Service Name",
	dataset.FieldServiceID:          "Service ID",
	dataset.FieldServiceDescription: "Service Description",
	dataset.FieldBusinessService:    "Business Service",
	dataset.FieldCMDBCIName:         "CMDB CI Name",
	dataset.FieldCMDBCISysID:        "CMDB CI SysID",
	dataset.FieldCMDBClass:          "CMDB Class",
	dataset.FieldOwnerName:          "Owner Name",
	dataset.FieldOwnerEmail:         "Owner Email",
	dataset.FieldSecondaryOwner:     "Secondary Owner",
	dataset.FieldEngineeringManager: "Engineering Manager",
	dataset.FieldVPOwner:            "VP Owner",
	dataset.FieldTeamName:           "Team Name",
	dataset.FieldTeamID:             "Team ID",
	dataset.FieldTeamConfirmed:      "Team Confirmed",
	dataset.FieldEscalationPolicy:   "Escalation Policy",
	dataset.FieldRunbookURL:         "Runbook URL",
	dataset.FieldTier:               "Tier",
	dataset.FieldEnvironment:        "Environment",
	dataset.FieldOnboardingStatus:   "Onboarding Status",
	dataset.FieldMonitoringEnabled:  "Monitoring Enabled",
	dataset.FieldNotes:              "Notes",
}

// Codec reads and writes onboarding spreadsheets.
type Codec struct{}

// Decode parses xlsx bytes into records keyed by schema field name. The first
// sheet is read; the first row is the header. Unknown columns are dropped and
// short rows are padded with empty values. An "Id" column, when present, is
// carried through so row identity survives a save/load round-trip.
func (Codec) Decode(data []byte) ([]dataset.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Column index to record key; empty entries are ignored columns.
	columns := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		if normalize.Key(header) == "id" {
			columns[i] = "id"
			continue
		}
		if field, ok := dataset.FieldFromHeader(header); ok {
			columns[i] = string(field)
		}
	}

	records := make([]dataset.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := dataset.Record{}
		for i, key := range columns {
			if key == "" {
				continue
			}
			if i < len(row) {
				rec[key] = normalize.Trim(row[i])
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Encode writes rows to a single-sheet workbook: an Id column, every schema
// field in order, then the derived Completion and Last Updated columns.
func (Codec) Encode(rows []dataset.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), defaultSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	headers := make([]any, 0, len(dataset.AllFields)+3)
	headers = append(headers, "Id")
	for _, field := range dataset.AllFields {
		headers = append(headers, headerTitles[field])
	}
	headers = append(headers, "Completion", "Last Updated")
	if err := setRow(f, 1, headers); err != nil {
		return nil, err
	}

	for i, row := range rows {
		values := make([]any, 0, len(headers))
		values = append(values, row.ID)
		for _, field := range dataset.AllFields {
			values = append(values, row.Fields[field])
		}
		values = append(values, row.Completion, row.LastUpdated.Format("2006-01-02 15:04:05"))
		if err := setRow(f, i+2, values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(defaultSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
