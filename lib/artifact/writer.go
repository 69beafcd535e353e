// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jira-docker/entrypoint/lib/fault"
	"github.com/jira-docker/entrypoint/lib/fsperm"
	"github.com/jira-docker/entrypoint/lib/render"
)

// Outcome is what happened to one descriptor.
type Outcome int

const (
	// Written means the target was (re)generated.
	Written Outcome = iota

	// NotApplicable means the descriptor's condition did not hold.
	NotApplicable

	// Kept means the target existed and Overwrite was false.
	Kept
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "write"
	case NotApplicable:
		return "skip"
	case Kept:
		return "keep"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result reports one descriptor's outcome. Size and Digest are set
// only for Written.
type Result struct {
	Descriptor Descriptor
	Outcome    Outcome
	Size       int
	Digest     Digest
}

// Decide returns the outcome Write would have for descriptor without
// rendering or writing anything.
func Decide(descriptor Descriptor, conditions Conditions) (Outcome, error) {
	if !descriptor.Applies(conditions) {
		return NotApplicable, nil
	}
	if descriptor.Overwrite {
		return Written, nil
	}
	_, err := os.Lstat(descriptor.Target)
	switch {
	case err == nil:
		return Kept, nil
	case errors.Is(err, fs.ErrNotExist):
		return Written, nil
	default:
		return Written, fault.New(fault.FilesystemError, err)
	}
}

// Writer carries out descriptors.
type Writer struct {
	renderer render.Renderer
	logger   *slog.Logger
}

// NewWriter returns a Writer rendering with renderer.
func NewWriter(renderer render.Renderer, logger *slog.Logger) *Writer {
	return &Writer{renderer: renderer, logger: logger}
}

// Write generates the file described by descriptor.
func (w *Writer) Write(descriptor Descriptor, conditions Conditions) (Result, error) {
	result := Result{Descriptor: descriptor}

	outcome, err := Decide(descriptor, conditions)
	if err != nil {
		return result, fault.Wrapf(err, "checking %s", descriptor.Target)
	}
	result.Outcome = outcome

	switch outcome {
	case NotApplicable:
		if descriptor.SkipWarning != "" {
			w.logger.Warn(descriptor.SkipWarning, "target", descriptor.Target)
		} else {
			w.logger.Debug("artifact not applicable; skipping",
				"template", descriptor.Template,
				"target", descriptor.Target,
			)
		}
		return result, nil
	case Kept:
		w.logger.Info("artifact exists; skipping", "target", descriptor.Target)
		return result, nil
	}

	parent := filepath.Dir(descriptor.Target)
	if info, err := os.Stat(parent); err != nil {
		return result, fault.New(fault.FilesystemError, fmt.Errorf("parent directory of %s: %w", descriptor.Target, err))
	} else if !info.IsDir() {
		return result, fault.Newf(fault.FilesystemError, "parent of %s is not a directory: %s", descriptor.Target, parent)
	}

	ids, err := fsperm.Resolve(descriptor.Owner)
	if err != nil {
		return result, fault.Wrapf(err, "owner %s for %s", descriptor.Owner, descriptor.Target)
	}

	w.logger.Info("generating artifact",
		"template", descriptor.Template,
		"target", descriptor.Target,
	)

	// Render fully before opening the target so a template error leaves
	// any existing file intact.
	content, err := w.renderer.Render(descriptor.Template, conditions.Context)
	if err != nil {
		return result, fault.Wrapf(err, "rendering %s", descriptor.Target)
	}

	if err := writeFile(descriptor.Target, []byte(content), descriptor.mode()); err != nil {
		return result, err
	}

	if err := fsperm.Apply(descriptor.Target, ids, descriptor.mode()); err != nil {
		return result, fault.Wrapf(err, "setting owner %s on %s", descriptor.Owner, descriptor.Target)
	}

	result.Size = len(content)
	result.Digest = DigestOf([]byte(content))
	w.logger.Info("wrote artifact",
		"target", descriptor.Target,
		"bytes", result.Size,
		"blake3", result.Digest.String(),
		"owner", descriptor.Owner.String(),
		"mode", fmt.Sprintf("%04o", descriptor.mode()),
	)
	return result, nil
}

// writeFile writes content to path and closes it, reporting a failed
// close as a write failure.
func writeFile(path string, content []byte, mode fs.FileMode) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fault.New(fault.FilesystemError, err)
	}
	if _, err := file.Write(content); err != nil {
		file.Close()
		return fault.New(fault.FilesystemError, fmt.Errorf("writing %s: %w", path, err))
	}
	if err := file.Close(); err != nil {
		return fault.New(fault.FilesystemError, fmt.Errorf("closing %s: %w", path, err))
	}
	return nil
}

// WriteAll carries out descriptors in order and stops at the first
// failure. The results of the descriptors processed so far are
// returned with the error.
func (w *Writer) WriteAll(descriptors []Descriptor, conditions Conditions) ([]Result, error) {
	results := make([]Result, 0, len(descriptors))
	for _, descriptor := range descriptors {
		result, err := w.Write(descriptor, conditions)
		results = append(results, result)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
