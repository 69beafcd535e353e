// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-N" where N is a
// monotonically increasing integer. Pass it as a run identifier
// generator when a test needs to tell two starts apart:
//
//	source.NewID = func() string { return testutil.UniqueID("run") }
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}
