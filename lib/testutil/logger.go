// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/jira-docker/entrypoint/lib/logging"
)

// Logs collects the records written by a [CaptureLogger] logger.
type Logs struct {
	mutex  sync.Mutex
	buffer bytes.Buffer
}

func (l *Logs) Write(p []byte) (int, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.buffer.Write(p)
}

// Records decodes every record written so far.
func (l *Logs) Records(t *testing.T) []map[string]any {
	t.Helper()
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var records []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(l.buffer.Bytes()))
	for scanner.Scan() {
		var record map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("decoding log record %q: %v", scanner.Text(), err)
		}
		records = append(records, record)
	}
	return records
}

// String returns the raw log output.
func (l *Logs) String() string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.buffer.String()
}

// Find returns the records whose message is msg.
func (l *Logs) Find(t *testing.T, msg string) []map[string]any {
	t.Helper()
	var matches []map[string]any
	for _, record := range l.Records(t) {
		if record[slog.MessageKey] == msg {
			matches = append(matches, record)
		}
	}
	return matches
}

// CaptureLogger returns a debug-level JSON logger, configured as the
// binaries configure theirs, writing into the returned Logs.
func CaptureLogger(t *testing.T) (*slog.Logger, *Logs) {
	t.Helper()
	logs := &Logs{}
	logger := logging.NewWithWriter(logs, false, slog.LevelDebug)
	return logger, logs
}
