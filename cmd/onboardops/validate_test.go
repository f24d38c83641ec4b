package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/onboardops/onboardops/internal/dataset"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "onboarding.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func newValidateTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out
}

func TestRunValidateCleanSheet(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Service Name", "CMDB CI Name", "Owner Email", "Team Name"},
		{"payments", "ci-payments", "owner@example.com", "platform"},
	})

	cmd, out := newValidateTestCmd()
	if err := runValidate(cmd, path); err != nil {
		t.Fatalf("runValidate: %v", err)
	}
	if !strings.Contains(out.String(), "no issues") {
		t.Fatalf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "1 rows") {
		t.Fatalf("output missing progress line: %q", out.String())
	}
}

func TestRunValidateReportsIssues(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Service Name", "Team Confirmed"},
		{"payments", "Maybe"},
	})

	cmd, out := newValidateTestCmd()
	err := runValidate(cmd, path)
	var ee *exitError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *exitError, got %T: %v", err, err)
	}
	if ee.code != exitCodeValidationIssues {
		t.Fatalf("code = %d, want %d", ee.code, exitCodeValidationIssues)
	}
	if !strings.Contains(out.String(), "unrecognized team_confirmed value") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunValidateRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.xlsx")
	if err := os.WriteFile(path, []byte("not a workbook"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cmd, _ := newValidateTestCmd()
	err := runValidate(cmd, path)
	var le *dataset.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *dataset.LoadError, got %T: %v", err, err)
	}
}
