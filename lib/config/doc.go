// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides the two typed views of startup configuration.
//
// [Settings] is the typed view of the variable Context: the handful of
// variables the entrypoint itself acts on (installation and home
// directories, runtime user and group, the clustering flag) plus named
// optional fields for the server-tuning variables consumed by the
// templates. It is decoded from the Context with caarlos0/env, never
// from the ambient process environment. Unrecognised variables are not
// lost: templates still see every Context entry.
//
// [Config] is the entrypoint's own YAML configuration: where templates
// live, where the marker and generated files go, how the start script
// is found, and how privileges are dropped. It is optional. When the
// ENTRYPOINT_CONFIG variable names a file, that file is loaded over
// [Default]; otherwise the defaults apply. There is no other discovery.
//
// Path fields support ${var} and ${var:-default} expansion against the
// Context, so "${jira_install_dir}/conf/server.xml" follows whatever
// the image sets. A reference to an unset variable without a default
// is a MissingInput failure rather than an empty path segment.
package config
