// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package environ

import (
	"maps"
	"slices"
	"strings"
)

// Synthetic keys added by [Collect].
const (
	KeyUUID             = "uuid"
	KeyLocalContainerID = "local_container_id"
)

// Context is the read-only mapping of lower-cased variable names to
// values. The zero Context is empty and usable.
type Context struct {
	values map[string]string
}

// NewContext builds a Context from entries, lower-casing every key.
// When two keys collide after lower-casing the later one wins.
func NewContext(entries map[string]string) Context {
	values := make(map[string]string, len(entries))
	for _, key := range slices.Sorted(maps.Keys(entries)) {
		values[strings.ToLower(key)] = entries[key]
	}
	return Context{values: values}
}

// FromEnviron builds a Context from "KEY=value" entries in the order
// given (os.Environ order), so the last colliding entry wins.
func FromEnviron(environ []string) Context {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			continue
		}
		values[strings.ToLower(key)] = value
	}
	return Context{values: values}
}

// Get returns the value for key and whether it is present. key is
// matched after lower-casing.
func (c Context) Get(key string) (string, bool) {
	value, ok := c.values[strings.ToLower(key)]
	return value, ok
}

// Value returns the value for key, or "" when absent.
func (c Context) Value(key string) string {
	value, _ := c.Get(key)
	return value
}

// Len returns the number of entries.
func (c Context) Len() int { return len(c.values) }

// Keys returns the keys in sorted order.
func (c Context) Keys() []string {
	return slices.Sorted(maps.Keys(c.values))
}

// Map returns a copy of the entries. Mutating the copy does not affect
// the Context.
func (c Context) Map() map[string]string {
	return maps.Clone(c.values)
}

// With returns a new Context with key set to value. The receiver is
// unchanged.
func (c Context) With(key, value string) Context {
	values := maps.Clone(c.values)
	if values == nil {
		values = make(map[string]string, 1)
	}
	values[strings.ToLower(key)] = value
	return Context{values: values}
}
