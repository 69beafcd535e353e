// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact generates configuration files from templates.
//
// A [Descriptor] is the static description of one generated file:
// which template to render, where to write it, under which condition,
// whether an existing file may be replaced, and the ownership and mode
// the finished file must have. A [Writer] carries out a descriptor
// against a Context:
//
//   - the condition is evaluated first; a descriptor whose condition
//     does not hold is skipped (optionally with a warning)
//   - with Overwrite false, an existing target is left byte-for-byte
//     untouched, which is how operator-editable files such as
//     dbconfig.xml survive restarts
//   - otherwise the template is rendered in full before the target is
//     opened, so a template error never truncates an existing file
//   - the file is written and closed, then owner and mode are applied
//
// Every written file is logged with its BLAKE3 digest (see [Digest]) so
// an operator can tell from the startup log whether two starts produced
// the same configuration.
package artifact
