// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/jira-docker/entrypoint/lib/artifact"
	"github.com/jira-docker/entrypoint/lib/bootstrap"
	"github.com/jira-docker/entrypoint/lib/cli"
	"github.com/jira-docker/entrypoint/lib/environ"
	"github.com/jira-docker/entrypoint/lib/launch"
	"github.com/jira-docker/entrypoint/lib/logging"
	"github.com/jira-docker/entrypoint/lib/render"
	"github.com/jira-docker/entrypoint/lib/version"
)

// tool holds what the commands read from the process, so tests can
// substitute a buffer, a literal environment and a launcher whose
// privilege probe is fixed.
type tool struct {
	out         io.Writer
	environment []string
	terminal    bool
	newLauncher func(*slog.Logger) *launch.Launcher
}

func (t *tool) root() *cli.Command {
	return &cli.Command{
		Name:        "entrypoint-render",
		HelpOutput:  t.out,
		Description: "Preview the configuration the Jira container entrypoint would generate\nfrom the current environment. Nothing is written and nothing is exec'd.",
		Subcommands: []*cli.Command{
			t.renderCommand(),
			t.contextCommand(),
			t.settingsCommand(),
			t.planCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Fprintf(t.out, "entrypoint-render %s\n", version.Info())
					return nil
				},
			},
		},
	}
}

// prepare runs the entrypoint's CollectingEnv step. Logging defaults
// to warnings so that previews print only their own output.
func (t *tool) prepare() (*bootstrap.Plan, *slog.Logger, error) {
	level := slog.LevelWarn
	if value := environ.FromEnviron(t.environment).Value(logging.LevelVariable); value != "" {
		parsed, err := logging.ParseLevel(value)
		if err != nil {
			return nil, nil, err
		}
		level = parsed
	}
	logger := logging.NewWithWriter(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), level)

	plan, err := bootstrap.Prepare(bootstrap.Input{Environ: t.environment}, logger)
	if err != nil {
		return nil, nil, err
	}
	return plan, logger, nil
}

func (t *tool) renderCommand() *cli.Command {
	var color, style string
	return &cli.Command{
		Name:    "render",
		Summary: "Render one template to stdout",
		Usage:   "entrypoint-render render <template> [flags]",
		Examples: []cli.Example{
			{Description: "Show the server.xml the entrypoint would write", Command: "entrypoint-render render server.xml"},
			{Command: "ATL_TOMCAT_PORT=9090 entrypoint-render render server.xml.tmpl --color never"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("render", pflag.ContinueOnError)
			flagSet.StringVar(&color, "color", "auto", "syntax highlighting: auto, always or never")
			flagSet.StringVar(&style, "style", "monokai", "chroma style used for highlighting")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("render takes exactly one template name")
			}
			highlight, err := t.wantColor(color)
			if err != nil {
				return err
			}

			name := args[0]
			if !strings.HasSuffix(name, render.TemplateSuffix) {
				name += render.TemplateSuffix
			}

			plan, _, err := t.prepare()
			if err != nil {
				return err
			}
			content, err := plan.Renderer.Render(name, plan.Context)
			if err != nil {
				return err
			}

			if !highlight {
				_, err := io.WriteString(t.out, content)
				return err
			}
			return quick.Highlight(t.out, content, lexerFor(name), "terminal256", style)
		},
	}
}

func (t *tool) wantColor(mode string) (bool, error) {
	switch mode {
	case "auto":
		return t.terminal, nil
	case "always":
		return true, nil
	case "never":
		return false, nil
	default:
		return false, fmt.Errorf("--color must be auto, always or never, got %q", mode)
	}
}

// lexerFor picks the chroma lexer for a template's output format.
func lexerFor(name string) string {
	if render.FormatOf(name) == render.FormatXML {
		return "xml"
	}
	return "properties"
}

func (t *tool) contextCommand() *cli.Command {
	var format string
	var showSecrets bool
	return &cli.Command{
		Name:    "context",
		Summary: "Print the variables templates see",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("context", pflag.ContinueOnError)
			flagSet.StringVar(&format, "format", "table", "output format: table or yaml")
			flagSet.BoolVar(&showSecrets, "show-secrets", false, "print password and secret values instead of redacting them")
			return flagSet
		},
		Run: func(args []string) error {
			plan, _, err := t.prepare()
			if err != nil {
				return err
			}
			entries := plan.Context.Map()
			if !showSecrets {
				for key := range entries {
					if isSecret(key) {
						entries[key] = redacted
					}
				}
			}

			switch format {
			case "yaml":
				return encodeYAML(t.out, entries)
			case "table":
				_, err := io.WriteString(t.out, contextTable(plan.Context.Keys(), entries))
				return err
			default:
				return fmt.Errorf("--format must be table or yaml, got %q", format)
			}
		},
	}
}

func (t *tool) settingsCommand() *cli.Command {
	return &cli.Command{
		Name:    "settings",
		Summary: "Print the typed settings decoded from the environment as YAML",
		Run: func(args []string) error {
			plan, _, err := t.prepare()
			if err != nil {
				return err
			}
			settings := plan.Settings
			if settings.Database.Password != "" {
				settings.Database.Password = redacted
			}
			document := struct {
				Settings any `yaml:"settings"`
				Config   any `yaml:"config"`
			}{settings, plan.Config}
			return encodeYAML(t.out, document)
		},
	}
}

func (t *tool) planCommand() *cli.Command {
	return &cli.Command{
		Name:    "plan",
		Summary: "Show which artifacts would be written and the final exec",
		Run: func(args []string) error {
			plan, logger, err := t.prepare()
			if err != nil {
				return err
			}
			launcher := t.newLauncher(logger)
			conditions := artifact.Conditions{
				Context:    plan.Context,
				Privileged: launcher.Privileged(),
			}

			steps := make([]planStep, 0, len(plan.Descriptors))
			for _, descriptor := range plan.Descriptors {
				outcome, err := artifact.Decide(descriptor, conditions)
				if err != nil {
					return err
				}
				steps = append(steps, planStep{descriptor: descriptor, outcome: outcome})
			}

			command, err := launcher.Resolve(plan.Launch)
			if err != nil {
				return err
			}
			_, err = io.WriteString(t.out, planReport(plan, steps, conditions.Privileged, command))
			return err
		},
	}
}

func encodeYAML(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	return encoder.Close()
}
