// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package environ

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/jira-docker/entrypoint/lib/fault"
)

// DefaultMarkerPath is where the previous start recorded its run
// identifier.
const DefaultMarkerPath = "/etc/container_id"

// Source describes where [Collect] reads from. Environ is normally
// os.Environ(); tests pass a literal slice.
type Source struct {
	Environ []string

	// MarkerPath is the marker file holding the previous run's
	// identifier. Empty selects DefaultMarkerPath.
	MarkerPath string

	// NewID generates the run identifier. Nil selects [NewRunID].
	NewID func() string
}

// Collect builds the Context for this start.
func Collect(source Source) (Context, error) {
	context := FromEnviron(source.Environ)

	newID := source.NewID
	if newID == nil {
		newID = NewRunID
	}
	context.values[KeyUUID] = newID()

	markerPath := source.MarkerPath
	if markerPath == "" {
		markerPath = DefaultMarkerPath
	}
	previous, err := ReadMarker(markerPath)
	if err != nil {
		return Context{}, err
	}
	if previous != "" {
		context.values[KeyLocalContainerID] = previous
	}

	return context, nil
}

// ReadMarker returns the trimmed identifier stored at path. A missing
// file yields "" (first run). Any other failure, such as permission
// denied, is returned as a MissingInput fault: the entrypoint must not
// proceed without knowing whether this is a restart.
func ReadMarker(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fault.New(fault.MissingInput, fmt.Errorf("reading marker file %s: %w", path, err))
	}
	return strings.TrimSpace(string(data)), nil
}

// NewRunID returns 32 lower-case hex characters from a random
// (version 4) UUID.
func NewRunID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
