// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for the entrypoint
// packages.
//
// [NewLayout] creates a throwaway image filesystem (installation
// directory with conf/, data home, marker file location) under
// t.TempDir(), and [Layout.Environ] returns the environment the image
// would set for it. Because tests rarely run as root, [CurrentOwner]
// returns the test process's own uid and gid as an owner that chown
// accepts without privilege.
//
// [CaptureLogger] returns a JSON slog logger whose records can be
// inspected after the fact with [Logs.Find].
//
// [UniqueID] generates monotonically increasing identifiers, used as
// a deterministic replacement for random run identifiers.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil
