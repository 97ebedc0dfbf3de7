// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"errors"
	"fmt"
	"strings"

	rerrors "github.com/jllopis/resolver/pkg/errors"
)

// ErrResolutionFailed matches every *ResolutionError with errors.Is.
var ErrResolutionFailed = errors.New("resolution failed")

// ResolutionError is returned when a check phase has at least one failing
// check. It lists every failing contributor of that phase, not only the first.
type ResolutionError struct {
	Pipeline string
	Phase    State
	RunID    string
	Failures []Outcome
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s phase of %s: %d check(s) failed", ErrResolutionFailed, e.Phase, e.Pipeline, len(e.Failures))
	for i, f := range e.Failures {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(f.Contributor)
		if msg := f.Result.ErrorMessage(); msg != "" {
			b.WriteString(": ")
			b.WriteString(msg)
		}
		if cause := f.Result.Cause(); cause != nil && cause.Error() != f.Result.ErrorMessage() {
			fmt.Fprintf(&b, " (cause: %v)", cause)
		}
	}
	return b.String()
}

// Is reports whether target is ErrResolutionFailed.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolutionFailed
}

// Unwrap exposes the captured causes of the failing checks.
func (e *ResolutionError) Unwrap() []error {
	var out []error
	for _, f := range e.Failures {
		if cause := f.Result.Cause(); cause != nil {
			out = append(out, cause)
		}
	}
	return out
}

// Code classifies the error for metrics and logs.
func (e *ResolutionError) Code() rerrors.ErrorCode {
	return rerrors.CodeResolutionFailed
}

// Contributors returns the names of the failing checks in execution order.
func (e *ResolutionError) Contributors() []string {
	out := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		out = append(out, f.Contributor)
	}
	return out
}

// IsResolutionError reports whether err is, or wraps, a *ResolutionError.
func IsResolutionError(err error) bool {
	var rerr *ResolutionError
	return errors.As(err, &rerr)
}

func newPanicCause(contributor string, recovered any) error {
	msg := fmt.Sprintf("check %s panicked", contributor)
	var cause error
	if err, ok := recovered.(error); ok {
		cause = err
	} else {
		msg = fmt.Sprintf("%s: %v", msg, recovered)
	}
	return rerrors.New(rerrors.CodeCheckPanic, msg, cause).
		WithContext("contributor", contributor).
		WithContext("panic", recovered)
}
