// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	original := GitCommit
	GitCommit = "abc1234"
	defer func() { GitCommit = original }()

	info := Info()
	if !strings.HasPrefix(info, Version+" (abc1234, ") {
		t.Errorf("Info() = %q, want prefix %q", info, Version+" (abc1234, ")
	}
}

func TestLogAttrs(t *testing.T) {
	if got := len(LogAttrs()); got != 3 {
		t.Errorf("len(LogAttrs()) = %d, want 3", got)
	}
}
