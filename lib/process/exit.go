// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"io"
	"os"
)

// exit is replaced in tests.
var exit = os.Exit

// Fatal writes the diagnostic for err to stderr and exits with status
// 1. A startup failure classified by lib/fault already names its step
// and kind in its message, so the line reads e.g.
//
//	error: generating configuration: template error: ...
func Fatal(err error) {
	Report(os.Stderr, err)
	exit(1)
}

// Report writes the one-line diagnostic for err to w.
func Report(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
