// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package templates holds the default configuration templates compiled
// into the entrypoint. The image normally ships the same files under
// /opt/atlassian/etc; these are used when that directory is absent.
package templates

import "embed"

// Names of the default templates.
const (
	ServerXML         = "server.xml.tmpl"
	ContainerID       = "container_id.tmpl"
	DatabaseConfigXML = "dbconfig.xml.tmpl"
	ClusterProperties = "cluster.properties.tmpl"
)

// FS contains every default template at its root.
//
//go:embed *.tmpl
var FS embed.FS
