// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed errors with rich context for the resolver module.
// Codes classify failures for logging and metrics; the wrapped cause stays
// reachable through errors.Is / errors.As.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies resolver errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidConfig indicates a pipeline or module was misconfigured.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIG"

	// CodeDiscovery indicates a discovered component could not be registered.
	CodeDiscovery ErrorCode = "DISCOVERY_FAULT"

	// CodeCheckPanic indicates a check panicked instead of returning a result.
	CodeCheckPanic ErrorCode = "CHECK_PANIC"

	// CodeResolutionFailed indicates a check phase reported failures.
	CodeResolutionFailed ErrorCode = "RESOLUTION_FAILED"

	// CodeStore indicates an audit store error.
	CodeStore ErrorCode = "STORE_ERROR"

	// CodeUnavailable indicates a guarded activity was short-circuited.
	CodeUnavailable ErrorCode = "UNAVAILABLE"
)

// Error is a typed error with context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type Error struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Attributes  map[string]string
	Recoverable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *Error) MarshalJSON() ([]byte, error) {
	var cause string
	if e.Err != nil {
		cause = e.Err.Error()
	}
	return json.Marshal(&struct {
		Message     string                 `json:"message"`
		Code        string                 `json:"code"`
		Err         string                 `json:"error,omitempty"`
		Recoverable bool                   `json:"recoverable"`
		Context     map[string]interface{} `json:"context,omitempty"`
		Attributes  map[string]string      `json:"attributes,omitempty"`
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         cause,
		Recoverable: e.Recoverable,
		Context:     e.Context,
		Attributes:  e.Attributes,
	})
}

// New creates a new Error with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *Error {
	return &Error{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		Attributes: make(map[string]string),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithAttribute adds a string attribute for OTEL traces.
// Returns the error for method chaining.
func (e *Error) WithAttribute(key, value string) *Error {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *Error) WithRecoverable(recoverable bool) *Error {
	e.Recoverable = recoverable
	return e
}

// RecoverableString returns "true" or "false" as a string for observability.
func (e *Error) RecoverableString() string {
	if e.Recoverable {
		return "true"
	}
	return "false"
}

// Coder is implemented by errors that classify themselves without being an *Error.
type Coder interface {
	Code() ErrorCode
}

// As converts an error to an *Error.
// Returns the error itself if it is one, or wraps it as internal otherwise.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	if c, ok := err.(Coder); ok {
		return New(c.Code(), err.Error(), err)
	}
	return New(CodeInternal, "wrapped error", err)
}

// CodeOf returns the code carried by err, walking the unwrap chain.
// Errors without a code report CodeInternal; nil reports "".
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	for cur := err; cur != nil; {
		switch e := cur.(type) {
		case *Error:
			return e.Code
		case Coder:
			return e.Code()
		}
		u, ok := cur.(interface{ Unwrap() error })
		if !ok {
			break
		}
		cur = u.Unwrap()
	}
	return CodeInternal
}
