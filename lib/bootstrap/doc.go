// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package bootstrap sequences container startup:
//
//	CollectingEnv -> GeneratingConfigs -> FixingPermissions -> Exec
//
// [Prepare] performs CollectingEnv: it snapshots the environment,
// decodes the typed [config.Settings], loads the entrypoint's own
// [config.Config], reads the previous run identifier and builds the
// [environ.Context] every later step reads. Nothing after Prepare looks
// at the process environment.
//
// [Bootstrapper.Run] then writes the Jira artifacts in a fixed order
// (see [Descriptors]), applies the privileged ownership fix to the data
// home and finally execs the start script. No step is retried; the
// first failure is returned as a [fault.Error] naming the step, and a
// successful Run never returns because the process has been replaced.
//
// The operator preview tool uses Prepare and [Descriptors] as well, so
// what it reports is what the entrypoint would do.
package bootstrap
