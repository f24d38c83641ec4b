package main

import "testing"

func TestCommandUsesStructuredLogging(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"serve", true},
		{"fetch", false},
		{"validate", false},
	}
	for _, tc := range cases {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() != tc.name {
				continue
			}
			found = true
			if got := commandUsesStructuredLogging(cmd); got != tc.want {
				t.Fatalf("commandUsesStructuredLogging(%q) = %v, want %v", cmd.CommandPath(), got, tc.want)
			}
		}
		if !found {
			t.Fatalf("command %q not registered", tc.name)
		}
	}
}
