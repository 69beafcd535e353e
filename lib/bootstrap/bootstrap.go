// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"log/slog"

	"github.com/jira-docker/entrypoint/lib/artifact"
	"github.com/jira-docker/entrypoint/lib/config"
	"github.com/jira-docker/entrypoint/lib/environ"
	"github.com/jira-docker/entrypoint/lib/fault"
	"github.com/jira-docker/entrypoint/lib/fsperm"
	"github.com/jira-docker/entrypoint/lib/launch"
	"github.com/jira-docker/entrypoint/lib/render"
	"github.com/jira-docker/entrypoint/templates"
)

// ServerSkipWarning is logged when server.xml cannot be generated
// because the container was started without root.
const ServerSkipWarning = "container not started as root; tomcat bootstrapping skipped"

// Input is everything Prepare reads from the process.
type Input struct {
	// Environ is the environment snapshot, normally os.Environ().
	Environ []string

	// Args are forwarded to the start script, normally os.Args[1:].
	Args []string

	// NewID generates the run identifier. Nil selects
	// [environ.NewRunID].
	NewID func() string
}

// Plan is the outcome of CollectingEnv.
type Plan struct {
	Context  environ.Context
	Settings config.Settings
	Config   *config.Config

	// Renderer resolves templates in Config.Paths.Templates, or in the
	// embedded set when that directory does not exist.
	Renderer render.Renderer

	// EmbeddedTemplates reports that the embedded set is in use.
	EmbeddedTemplates bool

	Descriptors []artifact.Descriptor
	Launch      launch.Options
}

// Prepare performs the CollectingEnv step.
func Prepare(input Input, logger *slog.Logger) (*Plan, error) {
	plan, err := prepare(input, logger)
	if err != nil {
		return nil, fault.AtStep(fault.StepCollectingEnv, fault.MissingInput, err)
	}
	return plan, nil
}

func prepare(input Input, logger *slog.Logger) (*Plan, error) {
	// The marker path comes from the config, and the config may refer
	// to environment variables, so both are read from the raw
	// environment before the marker is consulted.
	raw := environ.FromEnviron(input.Environ)

	settings, err := config.ParseSettings(raw)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(raw)
	if err != nil {
		return nil, err
	}

	context, err := environ.Collect(environ.Source{
		Environ:    input.Environ,
		MarkerPath: cfg.Paths.Marker,
		NewID:      input.NewID,
	})
	if err != nil {
		return nil, err
	}
	previous, restarted := context.Get(environ.KeyLocalContainerID)
	logger.Debug("collected environment",
		"variables", context.Len(),
		"run_id", context.Value(environ.KeyUUID),
		"previous_run_id", previous,
		"restart", restarted,
	)

	root, embedded, err := render.OpenTemplates(cfg.Paths.Templates)
	if err != nil {
		return nil, err
	}
	if embedded {
		logger.Info("templates directory not found; using built-in templates", "directory", cfg.Paths.Templates)
	}

	homeMode, err := cfg.HomeMode()
	if err != nil {
		return nil, fault.New(fault.MissingInput, err)
	}

	return &Plan{
		Context:           context,
		Settings:          settings,
		Config:            cfg,
		Renderer:          render.NewFSRenderer(root),
		EmbeddedTemplates: embedded,
		Descriptors:       Descriptors(cfg, settings),
		Launch: launch.Options{
			StartScript:   cfg.Paths.StartScript,
			Args:          input.Args,
			Environ:       input.Environ,
			Home:          settings.Home,
			HomeMode:      homeMode,
			Owner:         RuntimeOwner(settings),
			PrivilegeDrop: cfg.Launcher.PrivilegeDrop,
			SuPath:        cfg.Launcher.SuPath,
		},
	}, nil
}

// RuntimeOwner is the user and group the application runs as.
func RuntimeOwner(settings config.Settings) fsperm.Owner {
	return fsperm.Owner{User: settings.RunUser, Group: settings.RunGroup}
}

// Descriptors returns the Jira artifacts in generation order.
func Descriptors(cfg *config.Config, settings config.Settings) []artifact.Descriptor {
	runtime := RuntimeOwner(settings)
	return []artifact.Descriptor{
		{
			Template:    templates.ServerXML,
			Target:      cfg.Paths.ServerConfig,
			When:        artifact.Privileged,
			SkipWarning: ServerSkipWarning,
			Overwrite:   true,
			Owner:       fsperm.Root,
		},
		{
			Template:  templates.ContainerID,
			Target:    cfg.Paths.Marker,
			Overwrite: true,
			Owner:     runtime,
		},
		{
			Template: templates.DatabaseConfigXML,
			Target:   cfg.Paths.DatabaseConfig,
			Owner:    runtime,
		},
		{
			Template: templates.ClusterProperties,
			Target:   cfg.Paths.ClusterConfig,
			When:     artifact.Equals(config.ClusteredVariable, "true"),
			Owner:    runtime,
		},
	}
}

// Bootstrapper runs the startup sequence.
type Bootstrapper struct {
	logger   *slog.Logger
	launcher *launch.Launcher
}

// New returns a Bootstrapper that launches through launcher.
func New(logger *slog.Logger, launcher *launch.Launcher) *Bootstrapper {
	return &Bootstrapper{logger: logger, launcher: launcher}
}

// Run performs the whole sequence. It returns only on failure.
func (b *Bootstrapper) Run(input Input) error {
	plan, err := Prepare(input, b.logger)
	if err != nil {
		return err
	}
	return b.Execute(plan)
}

// Execute runs GeneratingConfigs, FixingPermissions and Exec for a
// prepared plan. It returns only on failure.
func (b *Bootstrapper) Execute(plan *Plan) error {
	conditions := artifact.Conditions{
		Context:    plan.Context,
		Privileged: b.launcher.Privileged(),
	}

	writer := artifact.NewWriter(plan.Renderer, b.logger)
	if _, err := writer.WriteAll(plan.Descriptors, conditions); err != nil {
		return fault.AtStep(fault.StepGeneratingConfigs, fault.FilesystemError, err)
	}

	if err := b.launcher.FixPermissions(plan.Launch); err != nil {
		return fault.AtStep(fault.StepFixingPermissions, fault.FilesystemError, err)
	}

	err := b.launcher.Exec(plan.Launch)
	return fault.AtStep(fault.StepExec, fault.LaunchError, err)
}
