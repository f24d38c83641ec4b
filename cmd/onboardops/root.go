package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "onboardops",
	Short:         "OnboardOps tracks service onboarding completeness against the incident directory.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setCurrentCommandExecutionContext(commandExecutionContext{
			CommandPath:       cmd.CommandPath(),
			UsesStructuredLog: commandUsesStructuredLogging(cmd),
		})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// commandUsesStructuredLogging reports whether a command emits structured
// logs. The long-running server does; one-shot commands print plain output
// for humans and pipelines.
func commandUsesStructuredLogging(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if strings.TrimSpace(c.Name()) == "serve" {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(serveCmd, fetchCmd, validateCmd)
}
