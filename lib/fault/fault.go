// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a startup failure.
type Kind string

const (
	MissingInput    Kind = "missing input"
	TemplateError   Kind = "template error"
	FilesystemError Kind = "filesystem error"
	PrivilegeError  Kind = "privilege error"
	LaunchError     Kind = "launch error"
)

// Error implements the error interface so a Kind can be used directly
// as an errors.Is target.
func (k Kind) Error() string { return string(k) }

// Step names a state of the startup sequence.
type Step string

const (
	StepCollectingEnv     Step = "collecting environment"
	StepGeneratingConfigs Step = "generating configuration"
	StepFixingPermissions Step = "fixing permissions"
	StepExec              Step = "exec"
)

// Error is a classified failure. Step is empty for errors produced
// below the orchestrator; the orchestrator fills it in with [AtStep].
type Error struct {
	Step Step
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Step, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches a bare Kind target against this error's Kind.
func (e *Error) Is(target error) bool {
	kind, ok := target.(Kind)
	return ok && kind == e.Kind
}

// New classifies err. Returns nil when err is nil so callers can wrap
// unconditionally.
func New(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// Newf classifies a freshly formatted error.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrapf adds context to err while keeping its classification. An
// unclassified err is wrapped with fmt.Errorf.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	var classified *Error
	if errors.As(err, &classified) {
		return &Error{
			Step: classified.Step,
			Kind: classified.Kind,
			Err:  fmt.Errorf("%s: %w", message, classified.Err),
		}
	}
	return fmt.Errorf("%s: %w", message, err)
}

// AtStep records the step in which err occurred. An already-classified
// error keeps its Kind and, if it already names a step, that step.
// Unclassified errors take fallback as their Kind.
func AtStep(step Step, fallback Kind, err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		if classified.Step != "" {
			return err
		}
		return &Error{Step: step, Kind: classified.Kind, Err: classified.Err}
	}
	return &Error{Step: step, Kind: fallback, Err: err}
}

// KindOf returns the Kind of the first classified error in the chain,
// or the empty Kind when err is not classified.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return ""
}
