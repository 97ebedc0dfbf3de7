// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

// CheckResult is the immutable outcome of a single check.
//
// A successful result may carry an informational and a warning message.
// A failed result may carry an error message and a captured cause.
// The With* methods return modified copies.
type CheckResult struct {
	failed  bool
	info    string
	warning string
	message string
	cause   error
}

// Success returns a passing result.
func Success() CheckResult {
	return CheckResult{}
}

// Failure returns a failing result with an error message.
func Failure(message string) CheckResult {
	return CheckResult{failed: true, message: message}
}

// FailureFromError returns a failing result capturing err as its cause.
// The error text becomes the message.
func FailureFromError(err error) CheckResult {
	r := CheckResult{failed: true, cause: err}
	if err != nil {
		r.message = err.Error()
	}
	return r
}

// WithInfo attaches an informational message.
func (r CheckResult) WithInfo(msg string) CheckResult {
	r.info = msg
	return r
}

// WithWarning attaches a warning message.
func (r CheckResult) WithWarning(msg string) CheckResult {
	r.warning = msg
	return r
}

// WithMessage replaces the error message.
func (r CheckResult) WithMessage(msg string) CheckResult {
	r.message = msg
	return r
}

// WithCause attaches a captured cause.
func (r CheckResult) WithCause(err error) CheckResult {
	r.cause = err
	return r
}

// Successful reports whether the check passed.
func (r CheckResult) Successful() bool { return !r.failed }

// InformationMessage returns the informational message, empty if none.
func (r CheckResult) InformationMessage() string { return r.info }

// WarningMessage returns the warning message, empty if none.
func (r CheckResult) WarningMessage() string { return r.warning }

// ErrorMessage returns the error message, empty if none.
func (r CheckResult) ErrorMessage() string { return r.message }

// Cause returns the captured cause, nil if none.
func (r CheckResult) Cause() error { return r.cause }
