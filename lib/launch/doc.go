// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package launch hands the container over to the managed application.
//
// The start command is the configured start script followed by the
// entrypoint's own arguments, verbatim and in order. How it is started
// depends on whether the entrypoint runs with superuser privilege:
//
//   - privileged: [Launcher.FixPermissions] re-owns the data home to
//     the runtime user and group and tightens every entry to the home
//     mode (0700 by default); [Launcher.Exec] then drops to the runtime
//     user and replaces the process image with the start command
//   - unprivileged: the ownership fix is skipped with a warning and the
//     start command is exec'd under the current identity
//
// Two privilege-drop strategies exist. "setuid" calls setgroups,
// setgid and setuid in-process and execs the start script directly, so
// every argument boundary survives. "su" execs su(1) with the start
// command as a single -c string; arguments are shell-quoted so that
// the shell su starts sees the same argument list.
//
// Exec replaces the process: on success it never returns and the
// application inherits the entrypoint's pid. A returned error is always
// a [fault.LaunchError] naming the attempted command.
package launch
