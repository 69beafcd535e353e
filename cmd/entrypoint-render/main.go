// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"golang.org/x/term"

	"github.com/jira-docker/entrypoint/lib/launch"
	"github.com/jira-docker/entrypoint/lib/process"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

func run(args []string) error {
	t := &tool{
		out:         os.Stdout,
		environment: os.Environ(),
		terminal:    term.IsTerminal(int(os.Stdout.Fd())),
		newLauncher: launch.New,
	}
	return t.root().Execute(args)
}
