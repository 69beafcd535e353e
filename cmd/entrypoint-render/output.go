// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jira-docker/entrypoint/lib/artifact"
	"github.com/jira-docker/entrypoint/lib/bootstrap"
	"github.com/jira-docker/entrypoint/lib/launch"
)

const redacted = "<redacted>"

// isSecret reports whether a variable's value should be hidden.
func isSecret(key string) bool {
	for _, marker := range []string{"password", "secret", "token"} {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}

var (
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	outcomeStyles = map[artifact.Outcome]lipgloss.Style{
		artifact.Written:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		artifact.Kept:          lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		artifact.NotApplicable: dimStyle,
	}
)

// contextTable renders entries as two aligned columns in key order.
func contextTable(keys []string, entries map[string]string) string {
	width := 0
	for _, key := range keys {
		width = max(width, lipgloss.Width(key))
	}
	column := keyStyle.Width(width + 2)

	var builder strings.Builder
	for _, key := range keys {
		builder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, column.Render(key), entries[key]))
		builder.WriteByte('\n')
	}
	return builder.String()
}

type planStep struct {
	descriptor artifact.Descriptor
	outcome    artifact.Outcome
}

func planReport(plan *bootstrap.Plan, steps []planStep, privileged bool, command launch.Command) string {
	var builder strings.Builder

	builder.WriteString(headingStyle.Render("Artifacts"))
	builder.WriteByte('\n')
	if plan.EmbeddedTemplates {
		builder.WriteString(dimStyle.Render(fmt.Sprintf("  templates: built-in (%s not found)", plan.Config.Paths.Templates)))
	} else {
		builder.WriteString(dimStyle.Render("  templates: " + plan.Config.Paths.Templates))
	}
	builder.WriteByte('\n')

	outcomeColumn := lipgloss.NewStyle().Width(7)
	for _, step := range steps {
		mode := step.descriptor.Mode
		if mode == 0 {
			mode = artifact.DefaultMode
		}
		label := outcomeColumn.Render(outcomeStyles[step.outcome].Render(step.outcome.String()))
		fmt.Fprintf(&builder, "  %s %s %s\n", label, step.descriptor.Target,
			dimStyle.Render(fmt.Sprintf("(%s, %s %04o)", step.descriptor.Template, step.descriptor.Owner, mode)))
	}

	builder.WriteByte('\n')
	builder.WriteString(headingStyle.Render("Ownership"))
	builder.WriteByte('\n')
	if privileged {
		fmt.Fprintf(&builder, "  %s -> %s %04o (recursive)\n", plan.Launch.Home, plan.Launch.Owner, plan.Launch.HomeMode)
	} else {
		builder.WriteString(dimStyle.Render("  skipped: not running as root"))
		builder.WriteByte('\n')
	}

	builder.WriteByte('\n')
	builder.WriteString(headingStyle.Render("Exec"))
	builder.WriteByte('\n')
	fmt.Fprintf(&builder, "  %s\n", command)
	if command.Identity != nil {
		builder.WriteString(dimStyle.Render(fmt.Sprintf("  as uid %d gid %d", command.Identity.UID, command.Identity.GID)))
		builder.WriteByte('\n')
	}
	return builder.String()
}
