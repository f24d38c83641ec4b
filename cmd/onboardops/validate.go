package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/onboardops/onboardops/internal/dataset"
	"github.com/onboardops/onboardops/internal/excel"
)

// exitCodeValidationIssues distinguishes "sheet has issues" from hard failures.
const exitCodeValidationIssues = 2

var validateCmd = &cobra.Command{
	Use:   "validate <file.xlsx>",
	Short: "Validate an onboarding spreadsheet and print completion progress.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd, args[0])
	},
}

func runValidate(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ds := dataset.New(dataset.Options{Codec: excel.Codec{}})
	if err := ds.Load(data); err != nil {
		return err
	}

	progress := ds.OverallProgress()
	cmd.Printf("%d rows: %d complete, %d in progress, %d not started (average %d%%)\n",
		progress.Total, progress.Completed, progress.InProgress, progress.NotStarted, progress.AverageCompletion)

	issues := ds.Validate()
	if len(issues) == 0 {
		cmd.Println("no issues")
		return nil
	}
	for _, issue := range issues {
		cmd.Println(issue)
	}
	return &exitError{
		code:   exitCodeValidationIssues,
		err:    fmt.Errorf("%d validation issues", len(issues)),
		silent: true,
	}
}
