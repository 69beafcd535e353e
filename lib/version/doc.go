// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the
// entrypoint binaries.
//
// Three package-level variables are injected at build time via
// -ldflags -X: [GitCommit], [BuildTime] and [Version]. They default to
// "unknown" / "0.1.0-dev" in development builds and test runs.
//
// [Info] formats them for --version output; [LogAttrs] returns the same
// fields as slog attributes for the startup log record.
package version
