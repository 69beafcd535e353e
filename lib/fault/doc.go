// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package fault defines the failure taxonomy of the entrypoint.
//
// Every failure during startup is fatal and is never retried. To make
// the final diagnostic useful, errors that cross a step boundary are
// wrapped in an [Error] carrying the state-machine step that failed
// and the [Kind] of failure:
//
//   - [MissingInput] -- a required variable or file is absent
//   - [TemplateError] -- render-time failure (undefined reference,
//     malformed or missing template)
//   - [FilesystemError] -- permission, missing-directory, or I/O failure
//     during a write or ownership change
//   - [PrivilegeError] -- a privileged operation attempted without the
//     rights to perform it
//   - [LaunchError] -- the final process replacement failed
//
// Kinds are usable as errors.Is targets: errors.Is(err, fault.MissingInput)
// reports whether any error in the chain was classified as MissingInput.
//
// This package depends on no other entrypoint packages.
package fault
