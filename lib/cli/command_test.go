// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesToSubcommand(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "entrypoint-render",
		Subcommands: []*Command{
			{Name: "plan", Run: func(args []string) error {
				called = "plan"
				return nil
			}},
			{Name: "render", Run: func(args []string) error {
				called = "render"
				receivedArgs = args
				return nil
			}},
		},
	}

	if err := root.Execute([]string{"render", "server.xml.tmpl"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "render" {
		t.Errorf("dispatched to %q, want %q", called, "render")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "server.xml.tmpl" {
		t.Errorf("args = %v, want [server.xml.tmpl]", receivedArgs)
	}
}

func TestExecuteFlagParsing(t *testing.T) {
	var format string
	command := &Command{
		Name: "context",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("context", pflag.ContinueOnError)
			flagSet.StringVar(&format, "format", "table", "output format")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	if err := command.Execute([]string{"--format", "yaml"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if format != "yaml" {
		t.Errorf("format = %q, want yaml", format)
	}
}

func TestExecuteUnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "context",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("context", pflag.ContinueOnError)
			flagSet.String("format", "table", "output format")
			flagSet.Bool("show-secrets", false, "print secret values")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--formt", "yaml"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "--format") {
		t.Errorf("error %q should suggest --format", err)
	}
}

func TestExecuteUnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name:        "entrypoint-render",
		Subcommands: []*Command{{Name: "context"}, {Name: "render"}},
	}

	err := root.Execute([]string{"rendr"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "render"`) {
		t.Errorf("error %q should suggest render", err)
	}
}

func TestExecuteSubcommandRequired(t *testing.T) {
	root := &Command{Name: "entrypoint-render", Subcommands: []*Command{{Name: "plan"}}}
	if err := root.Execute(nil); err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("Execute(nil) error = %v, want subcommand required", err)
	}
}

func TestPrintHelp(t *testing.T) {
	root := &Command{
		Name:        "entrypoint-render",
		Description: "Preview what the entrypoint would generate.",
		Subcommands: []*Command{
			{Name: "plan", Summary: "Show artifacts and the launch command"},
		},
		Examples: []Example{{Description: "Render server.xml", Command: "entrypoint-render render server.xml.tmpl"}},
	}

	var buffer bytes.Buffer
	root.PrintHelp(&buffer)
	help := buffer.String()
	for _, want := range []string{
		"Preview what the entrypoint would generate.",
		"entrypoint-render <command> [flags]",
		"plan",
		"Show artifacts and the launch command",
		"# Render server.xml",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "plan", 4},
		{"plan", "plan", 0},
		{"rendr", "render", 1},
		{"contxet", "context", 2},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestUsageErrors(t *testing.T) {
	root := &Command{
		Name: "entrypoint-render",
		Subcommands: []*Command{
			{Name: "fails", Run: func(args []string) error { return errors.New("run failed") }},
		},
	}

	err := root.Execute([]string{"nope"})
	if !IsUsageError(err) {
		t.Errorf("unknown command error %v is not a UsageError", err)
	}
	var usage *UsageError
	if errors.As(err, &usage) && usage.Command != "entrypoint-render" {
		t.Errorf("UsageError.Command = %q, want entrypoint-render", usage.Command)
	}

	err = root.Execute([]string{"fails"})
	if err == nil || IsUsageError(err) {
		t.Errorf("Run error %v reported as a usage error", err)
	}
}

func TestHelpOutputIsInherited(t *testing.T) {
	var buffer bytes.Buffer
	root := &Command{
		Name:       "entrypoint-render",
		HelpOutput: &buffer,
		Subcommands: []*Command{
			{Name: "plan", Summary: "Show artifacts", Run: func(args []string) error { return nil }},
		},
	}

	if err := root.Execute([]string{"plan", "--help"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(buffer.String(), "entrypoint-render plan [flags]") {
		t.Errorf("help for plan not written to HelpOutput:\n%s", buffer.String())
	}
}
