// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package environ builds the immutable variable [Context] that drives
// every later startup step.
//
// [Collect] runs exactly once, before any configuration is generated.
// It snapshots the process environment with every key lower-cased
// (values verbatim, always strings) and adds two synthetic keys:
//
//   - "uuid" -- 32 hex characters from a fresh random UUID, unique per
//     start, used as the default node identifier
//   - "local_container_id" -- the trimmed content of the marker file
//     written by the previous start, present only when that file
//     exists and is non-empty
//
// The marker is read here, strictly before the generation step that
// rewrites it. A missing marker means first run; any other read error
// is a [fault.MissingInput] failure.
//
// No other package reads the ambient environment. Components receive
// the Context (or a typed view of it from lib/config) explicitly.
package environ
