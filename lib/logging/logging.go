// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the structured logger used by the entrypoint
// binaries.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// LevelVariable is the lower-cased environment key selecting the log
// level. Unset means debug.
const LevelVariable = "entrypoint_log_level"

// ParseLevel maps debug/info/warn/error (case-insensitive) to a
// slog.Level. The empty string selects debug.
func ParseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid %s %q (expected debug, info, warn or error)", strings.ToUpper(LevelVariable), value)
	}
}

// New creates a logger writing to stderr. When stderr is a terminal it
// uses slog.TextHandler for human-readable output; when it is piped
// (docker logs, CI, orchestrator log collection) it uses
// slog.JSONHandler.
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), level)
}

// NewWithWriter creates a logger writing to w, choosing the text
// handler when text is true and the JSON handler otherwise. Warnings
// carry the level name WARNING, which is what log scrapers and the
// image's tests match on.
func NewWithWriter(w io.Writer, text bool, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level, ReplaceAttr: levelNames}
	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}

// WarningLevelName replaces slog's "WARN".
const WarningLevelName = "WARNING"

func levelNames(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 || attr.Key != slog.LevelKey {
		return attr
	}
	if level, ok := attr.Value.Any().(slog.Level); ok && level == slog.LevelWarn {
		return slog.String(slog.LevelKey, WarningLevelName)
	}
	return attr
}
