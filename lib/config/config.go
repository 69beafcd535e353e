// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jira-docker/entrypoint/lib/environ"
	"github.com/jira-docker/entrypoint/lib/fault"
)

// PathVariable is the lower-cased Context key naming the YAML config
// file.
const PathVariable = "entrypoint_config"

// Privilege drop strategies.
const (
	// DropSetuid switches to the runtime user in-process
	// (setgroups/setgid/setuid) and execs the start script directly,
	// preserving every argument boundary.
	DropSetuid = "setuid"

	// DropSu execs su(1) with the start command joined into a single
	// "-c" string, the way the image always did it.
	DropSu = "su"
)

// Config is the entrypoint's own configuration.
type Config struct {
	// Paths configures file locations.
	Paths PathsConfig `yaml:"paths"`

	// Launcher configures the final exec.
	Launcher LauncherConfig `yaml:"launcher"`
}

// PathsConfig configures file locations. Every field may reference
// Context variables as ${name} or ${name:-default}.
type PathsConfig struct {
	// Templates is the single directory templates are loaded from.
	// Default: /opt/atlassian/etc
	Templates string `yaml:"templates"`

	// Marker is the run identifier marker file.
	// Default: /etc/container_id
	Marker string `yaml:"marker"`

	// StartScript is the managed application's start command.
	// Default: ${jira_install_dir}/bin/start-jira.sh
	StartScript string `yaml:"start_script"`

	// ServerConfig is the generated Tomcat server configuration.
	// Default: ${jira_install_dir}/conf/server.xml
	ServerConfig string `yaml:"server_config"`

	// DatabaseConfig is generated once and never overwritten.
	// Default: ${jira_home}/dbconfig.xml
	DatabaseConfig string `yaml:"database_config"`

	// ClusterConfig is generated once, and only when clustered.
	// Default: ${jira_home}/cluster.properties
	ClusterConfig string `yaml:"cluster_config"`
}

// LauncherConfig configures the final exec.
type LauncherConfig struct {
	// PrivilegeDrop is "setuid" or "su".
	// Default: setuid
	PrivilegeDrop string `yaml:"privilege_drop"`

	// SuPath is the su binary used by the "su" strategy.
	// Default: /bin/su
	SuPath string `yaml:"su_path"`

	// HomeMode is the octal mode applied to every entry under the
	// home directory when started privileged.
	// Default: 0700
	HomeMode string `yaml:"home_mode"`
}

// Default returns the default configuration, before expansion.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Templates:      "/opt/atlassian/etc",
			Marker:         environ.DefaultMarkerPath,
			StartScript:    "${jira_install_dir}/bin/start-jira.sh",
			ServerConfig:   "${jira_install_dir}/conf/server.xml",
			DatabaseConfig: "${jira_home}/dbconfig.xml",
			ClusterConfig:  "${jira_home}/cluster.properties",
		},
		Launcher: LauncherConfig{
			PrivilegeDrop: DropSetuid,
			SuPath:        "/bin/su",
			HomeMode:      "0700",
		},
	}
}

// Load returns the configuration for context: the file named by
// ENTRYPOINT_CONFIG loaded over the defaults, or the defaults alone
// when the variable is unset. The result is expanded and validated.
func Load(context environ.Context) (*Config, error) {
	cfg := Default()
	if path := context.Value(PathVariable); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Expand(context); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile merges a YAML file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fault.New(fault.MissingInput, fmt.Errorf("%s names %s, which does not exist", strings.ToUpper(PathVariable), path))
	}
	if err != nil {
		return fault.New(fault.FilesystemError, fmt.Errorf("reading %s: %w", path, err))
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fault.New(fault.MissingInput, fmt.Errorf("parsing %s: %w", path, err))
	}
	return nil
}

// Expand resolves ${var} and ${var:-default} references in every path
// field against context. References that resolve to nothing are
// reported together.
func (c *Config) Expand(context environ.Context) error {
	var missing []string
	expand := func(s string) string {
		expanded, unresolved := expandVars(s, context)
		missing = append(missing, unresolved...)
		return expanded
	}

	c.Paths.Templates = expand(c.Paths.Templates)
	c.Paths.Marker = expand(c.Paths.Marker)
	c.Paths.StartScript = expand(c.Paths.StartScript)
	c.Paths.ServerConfig = expand(c.Paths.ServerConfig)
	c.Paths.DatabaseConfig = expand(c.Paths.DatabaseConfig)
	c.Paths.ClusterConfig = expand(c.Paths.ClusterConfig)
	c.Launcher.SuPath = expand(c.Launcher.SuPath)

	if len(missing) > 0 {
		return fault.Newf(fault.MissingInput, "unset variables referenced by paths: %s", strings.Join(dedupe(missing), ", "))
	}
	return nil
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, returning the
// names that had neither a value nor a default.
func expandVars(s string, context environ.Context) (string, []string) {
	var unresolved []string
	expanded := varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name := parts[1]
		if value := context.Value(name); value != "" {
			return value
		}
		if strings.Contains(match, ":-") {
			return parts[2]
		}
		unresolved = append(unresolved, strings.ToLower(name))
		return ""
	})
	return expanded, unresolved
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var result []string
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	return result
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	paths := []struct {
		name  string
		value string
	}{
		{"paths.templates", c.Paths.Templates},
		{"paths.marker", c.Paths.Marker},
		{"paths.start_script", c.Paths.StartScript},
		{"paths.server_config", c.Paths.ServerConfig},
		{"paths.database_config", c.Paths.DatabaseConfig},
		{"paths.cluster_config", c.Paths.ClusterConfig},
	}
	for _, path := range paths {
		if !filepath.IsAbs(path.value) {
			errs = append(errs, fmt.Errorf("%s must be an absolute path, got %q", path.name, path.value))
		}
	}

	switch c.Launcher.PrivilegeDrop {
	case DropSetuid:
	case DropSu:
		if !filepath.IsAbs(c.Launcher.SuPath) {
			errs = append(errs, fmt.Errorf("launcher.su_path must be an absolute path, got %q", c.Launcher.SuPath))
		}
	default:
		errs = append(errs, fmt.Errorf("launcher.privilege_drop must be %q or %q, got %q", DropSetuid, DropSu, c.Launcher.PrivilegeDrop))
	}

	if _, err := c.HomeMode(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fault.New(fault.MissingInput, errors.Join(errs...))
	}
	return nil
}

// HomeMode parses Launcher.HomeMode as octal permission bits.
func (c *Config) HomeMode() (fs.FileMode, error) {
	mode, err := strconv.ParseUint(c.Launcher.HomeMode, 8, 32)
	if err != nil || mode > 0o777 {
		return 0, fmt.Errorf("launcher.home_mode must be octal permission bits, got %q", c.Launcher.HomeMode)
	}
	return fs.FileMode(mode), nil
}
