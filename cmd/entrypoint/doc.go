// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Entrypoint is the Jira container's ENTRYPOINT. It renders
// server.xml, the container_id marker, dbconfig.xml and (when
// CLUSTERED=true) cluster.properties from the environment, re-owns the
// data home to the runtime user, and execs start-jira.sh in its own
// place as that user.
//
// It takes no flags: every argument is forwarded verbatim to the start
// script, so "docker run jira -fg" runs "start-jira.sh -fg".
//
// Environment:
//
//	JIRA_INSTALL_DIR, JIRA_HOME, RUN_USER, RUN_GROUP   required
//	CLUSTERED                 "true" generates cluster.properties
//	ATL_*, JIRA_NODE_ID, ...  template inputs
//	ENTRYPOINT_CONFIG         optional YAML config (paths, privilege drop)
//	ENTRYPOINT_LOG_LEVEL      debug (default), info, warn, error
//
// On success the process is replaced and this program never exits on
// its own. Any failure exits 1 with one diagnostic line naming the
// startup step that failed.
package main
