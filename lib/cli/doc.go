// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is a small command tree for the operator tools: each
// [Command] has an optional pflag set, optional subcommands dispatched
// by the first positional argument, and structured help output.
// Unknown commands and flags get a "did you mean" suggestion based on
// edit distance.
//
// The entrypoint binary itself does not use this package; it forwards
// its arguments untouched.
package cli
