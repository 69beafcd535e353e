// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"os"

	"github.com/jira-docker/entrypoint/lib/bootstrap"
	"github.com/jira-docker/entrypoint/lib/environ"
	"github.com/jira-docker/entrypoint/lib/fault"
	"github.com/jira-docker/entrypoint/lib/launch"
	"github.com/jira-docker/entrypoint/lib/logging"
	"github.com/jira-docker/entrypoint/lib/process"
	"github.com/jira-docker/entrypoint/lib/version"
)

// newLauncher is replaced in tests so the final exec is recorded
// instead of performed.
var newLauncher = launch.New

func main() {
	if err := run(os.Args[1:], os.Environ()); err != nil {
		process.Fatal(err)
	}
}

func run(args []string, environment []string) error {
	level, err := logging.ParseLevel(environ.FromEnviron(environment).Value(logging.LevelVariable))
	if err != nil {
		return fault.AtStep(fault.StepCollectingEnv, fault.MissingInput, err)
	}
	logger := logging.New(level)
	logger.Info("entrypoint starting", append(version.LogAttrs(), slog.Int("args", len(args)))...)

	err = bootstrap.New(logger, newLauncher(logger)).Run(bootstrap.Input{
		Environ: environment,
		Args:    args,
	})
	if err != nil {
		logger.Error("startup failed", "error", err)
	}
	return err
}
