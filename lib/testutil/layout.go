// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jira-docker/entrypoint/lib/fsperm"
)

// Layout is a scratch copy of the directories the image provides.
type Layout struct {
	// Install stands in for /opt/atlassian/jira. Install/conf and
	// Install/bin exist.
	Install string

	// Home stands in for /var/atlassian/application-data/jira.
	Home string

	// Marker is the marker file path. The file is not created.
	Marker string

	// Templates is a path that does not exist, so renderers fall back
	// to the embedded templates.
	Templates string

	// Config is an entrypoint config file pointing the marker and
	// templates at this layout.
	Config string
}

// NewLayout creates the directories of a Layout.
func NewLayout(t *testing.T) Layout {
	t.Helper()
	root := t.TempDir()
	layout := Layout{
		Install:   filepath.Join(root, "opt", "atlassian", "jira"),
		Home:      filepath.Join(root, "var", "atlassian", "application-data", "jira"),
		Marker:    filepath.Join(root, "etc", "container_id"),
		Templates: filepath.Join(root, "opt", "atlassian", "etc"),
		Config:    filepath.Join(root, "entrypoint.yaml"),
	}
	for _, directory := range []string{
		filepath.Join(layout.Install, "conf"),
		filepath.Join(layout.Install, "bin"),
		layout.Home,
		filepath.Dir(layout.Marker),
	} {
		if err := os.MkdirAll(directory, 0755); err != nil {
			t.Fatalf("creating %s: %v", directory, err)
		}
	}

	document := map[string]any{
		"paths": map[string]string{
			"templates": layout.Templates,
			"marker":    layout.Marker,
		},
	}
	data, err := yaml.Marshal(document)
	if err != nil {
		t.Fatalf("encoding config: %v", err)
	}
	if err := os.WriteFile(layout.Config, data, 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return layout
}

// Environ returns the environment the image sets for this layout, run
// as the current owner and pointing ENTRYPOINT_CONFIG at l.Config,
// followed by extra "KEY=value" entries.
func (l Layout) Environ(t *testing.T, extra ...string) []string {
	t.Helper()
	owner := CurrentOwner(t)
	environ := []string{
		"JIRA_INSTALL_DIR=" + l.Install,
		"JIRA_HOME=" + l.Home,
		"RUN_USER=" + owner.User,
		"RUN_GROUP=" + owner.Group,
		"ENTRYPOINT_CONFIG=" + l.Config,
	}
	return append(environ, extra...)
}

// WriteMarker writes content to the layout's marker file.
func (l Layout) WriteMarker(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(l.Marker, []byte(content), 0644); err != nil {
		t.Fatalf("writing marker: %v", err)
	}
}

// ReadFile returns the content of path, failing the test if it cannot
// be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// CurrentOwner returns the test process's uid and gid as a numeric
// owner.
func CurrentOwner(t *testing.T) fsperm.Owner {
	t.Helper()
	return fsperm.Owner{
		User:  strconv.Itoa(os.Getuid()),
		Group: strconv.Itoa(os.Getgid()),
	}
}
