// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package fsperm applies ownership and permission bits to generated
// files and to the application's data directory.
//
// Names are resolved to numeric ids once with [Resolve]; [Apply]
// handles a single path and [ApplyTree] walks a directory tree. The
// walk never follows symbolic links: links are re-owned with lchown
// and their (meaningless) mode is left alone, so a link pointing out
// of the tree cannot widen the set of files being changed.
//
// EPERM and EACCES from chown or chmod are reported as
// [fault.PrivilegeError]; every other failure is a
// [fault.FilesystemError].
package fsperm
