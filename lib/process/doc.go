// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the binary entrypoint error handler shared
// by the entrypoint and the render tool. It is the one place that
// writes to stderr without the structured logger, because a failure
// may happen before the logger exists (for example while parsing
// ENTRYPOINT_LOG_LEVEL).
package process
