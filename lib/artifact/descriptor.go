// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"io/fs"

	"github.com/jira-docker/entrypoint/lib/environ"
	"github.com/jira-docker/entrypoint/lib/fsperm"
)

// DefaultMode is the permission bits of a generated file unless the
// descriptor says otherwise.
const DefaultMode fs.FileMode = 0o644

// Conditions is what a [Predicate] decides on.
type Conditions struct {
	Context    environ.Context
	Privileged bool
}

// Predicate reports whether a descriptor applies to this start.
type Predicate func(Conditions) bool

// Always applies unconditionally.
func Always(Conditions) bool { return true }

// Privileged applies only when the process has superuser privilege.
func Privileged(conditions Conditions) bool { return conditions.Privileged }

// Equals applies when the context value for key is exactly value.
// The comparison is case-sensitive: Equals("clustered", "true") does
// not match "True" or "1".
func Equals(key, value string) Predicate {
	return func(conditions Conditions) bool {
		got, ok := conditions.Context.Get(key)
		return ok && got == value
	}
}

// Descriptor describes one generated configuration file.
type Descriptor struct {
	// Template is the template name within the renderer's root.
	Template string

	// Target is the absolute output path. Its parent directory must
	// already exist.
	Target string

	// When gates generation. Nil means [Always].
	When Predicate

	// SkipWarning, when set, is logged at warning level if When does
	// not hold.
	SkipWarning string

	// Overwrite replaces an existing Target. When false an existing
	// Target is left untouched.
	Overwrite bool

	Owner fsperm.Owner

	// Mode is the permission bits of Target. Zero means DefaultMode.
	Mode fs.FileMode
}

// Applies evaluates the descriptor's predicate.
func (d Descriptor) Applies(conditions Conditions) bool {
	if d.When == nil {
		return true
	}
	return d.When(conditions)
}

func (d Descriptor) mode() fs.FileMode {
	if d.Mode == 0 {
		return DefaultMode
	}
	return d.Mode
}
