// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is a node in a command tree. A command with Subcommands
// dispatches on its first positional argument; a command with Run is
// a leaf. A command may have both, in which case Run handles
// invocations that name no subcommand.
type Command struct {
	Name string

	// Summary is the one-line description listed in the parent's help.
	Summary string

	// Description replaces Summary at the top of the command's own help.
	Description string

	// Usage overrides the synthesized usage line.
	Usage string

	Examples []Example

	// Flags builds a fresh flag set for each invocation. Nil means the
	// command takes no flags.
	Flags func() *pflag.FlagSet

	Subcommands []*Command

	Run func(args []string) error

	// HelpOutput receives help text. Subcommands inherit it from their
	// parent; the root defaults to stderr.
	HelpOutput io.Writer

	parent *Command
}

// Example is one entry of a command's help examples.
type Example struct {
	Description string
	Command     string
}

// UsageError reports a command line the tree could not dispatch or
// parse. Hint, when set, is a "did you mean" suggestion.
type UsageError struct {
	Command string
	Message string
	Hint    string
}

func (e *UsageError) Error() string {
	var builder strings.Builder
	builder.WriteString(e.Message)
	if e.Hint != "" {
		fmt.Fprintf(&builder, " (did you mean %s?)", e.Hint)
	}
	fmt.Fprintf(&builder, "\n\nRun '%s --help' for usage.", e.Command)
	return builder.String()
}

// IsUsageError reports whether err came from dispatch or flag parsing
// rather than from a command's Run.
func IsUsageError(err error) bool {
	var usage *UsageError
	return errors.As(err, &usage)
}

// Execute dispatches args through the tree and runs the selected
// command.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.helpOutput())
		return nil
	}

	if len(c.Subcommands) > 0 && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, err := c.lookup(args[0])
		if err != nil {
			return err
		}
		return sub.Execute(args[1:])
	}

	if c.Run == nil {
		c.PrintHelp(c.helpOutput())
		if len(c.Subcommands) == 0 {
			return fmt.Errorf("no action defined for %q", c.fullName())
		}
		if len(args) == 0 {
			return c.usageError("subcommand required", "")
		}
		return c.usageError(fmt.Sprintf("subcommand required (got flag %q)", args[0]), "")
	}

	positional, err := c.parseFlags(args)
	if err != nil {
		return err
	}
	return c.Run(positional)
}

func (c *Command) lookup(name string) (*Command, error) {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			sub.parent = c
			return sub, nil
		}
	}
	hint := suggestCommand(name, c.Subcommands)
	if hint != "" {
		hint = fmt.Sprintf("%q", hint)
	}
	return nil, c.usageError(fmt.Sprintf("unknown command %q", name), hint)
}

// parseFlags returns the positional arguments left after flags.
func (c *Command) parseFlags(args []string) ([]string, error) {
	if c.Flags == nil {
		return args, nil
	}
	flagSet := c.Flags()
	flagSet.SetOutput(io.Discard)
	if err := flagSet.Parse(args); err != nil {
		hint := ""
		if strings.Contains(err.Error(), "unknown") {
			hint = suggestFlag(args, c.Flags())
		}
		return nil, c.usageError(err.Error(), hint)
	}
	return flagSet.Args(), nil
}

func (c *Command) usageError(message, hint string) *UsageError {
	return &UsageError{Command: c.fullName(), Message: message, Hint: hint}
}

// PrintHelp writes the command's help to w.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	if text := c.Description; text != "" {
		fmt.Fprintf(w, "%s\n\n", text)
	} else if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	usage := c.Usage
	if usage == "" {
		usage = name + " [flags]"
		if len(c.Subcommands) > 0 {
			usage = name + " <command> [flags]"
		}
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", usage)

	if len(c.Subcommands) > 0 {
		fmt.Fprintln(w, "\nCommands:")
		table := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(table, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		table.Flush()
	}

	if c.Flags != nil {
		if flags := c.Flags().FlagUsages(); flags != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", flags)
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprintln(w, "\nExamples:")
		for i, example := range c.Examples {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for details.\n", name)
	}
}

func (c *Command) helpOutput() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.HelpOutput != nil {
			return command.HelpOutput
		}
	}
	return os.Stderr
}

func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	}
	return false
}
