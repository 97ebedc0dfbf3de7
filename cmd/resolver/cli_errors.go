// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

// Package main implements the resolver CLI.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jllopis/resolver/pkg/errors"
)

// CLIError wraps a typed error with a hint for the user.
type CLIError struct {
	Err  *errors.Error
	Hint string
}

// NewCLIError creates a new CLI error.
func NewCLIError(e *errors.Error, hint string) *CLIError {
	return &CLIError{Err: e, Hint: hint}
}

// Unwrap exposes the typed error.
func (e *CLIError) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}

// Error returns the formatted error message with hints.
func (e *CLIError) Error() string {
	if e.Err == nil {
		return "unknown error"
	}
	msg := e.Err.Error()
	if e.Hint != "" {
		msg += "\n  Hint: " + e.Hint
	}
	return msg
}

// PrintError prints the error to stderr.
func (e *CLIError) PrintError(asJSON bool) {
	e.writeTo(os.Stderr, asJSON)
}

func (e *CLIError) writeTo(w io.Writer, asJSON bool) {
	code, message := errors.CodeInternal, "unknown error"
	if e.Err != nil {
		code, message = e.Err.Code, e.Err.Message
		if e.Err.Err != nil {
			message += ": " + e.Err.Err.Error()
		}
	}
	if asJSON {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"code":    string(code),
				"message": message,
				"hint":    e.Hint,
			},
		})
		return
	}
	fmt.Fprintf(w, "Error [%s]: %s\n", FormatErrorCode(code), message)
	if e.Hint != "" {
		fmt.Fprintf(w, "  Hint: %s\n", e.Hint)
	}
}

// NewInvalidArgumentError creates an invalid argument error with CLI hints.
func NewInvalidArgumentError(arg, reason string) *CLIError {
	e := errors.New(errors.CodeInvalidConfig, fmt.Sprintf("invalid argument: %s", reason), nil).
		WithContext("argument", arg).
		WithRecoverable(false)
	return NewCLIError(e, "run 'resolver help' for usage information")
}

// NewConfigError creates a configuration error with CLI hints.
func NewConfigError(err error, path string) *CLIError {
	e := errors.New(errors.CodeInvalidConfig, "configuration error", err).
		WithContext("config_path", path).
		WithRecoverable(false)

	hint := "check your configuration file syntax"
	if path != "" {
		hint = fmt.Sprintf("check %s for syntax errors", path)
	}
	return NewCLIError(e, hint)
}

// NewStoreError wraps an audit store failure.
func NewStoreError(err error, driver string) *CLIError {
	e := errors.New(errors.CodeStore, "audit store error", err).
		WithContext("driver", driver).
		WithRecoverable(true)
	hint := "check audit.driver and audit.dsn"
	if errors.CodeOf(err) == errors.CodeInvalidConfig {
		hint = "set audit.driver to memory or sqlite and provide audit.dsn for sqlite"
	}
	return NewCLIError(e, hint)
}

// PrintSimpleError prints an error that carries no hint.
func PrintSimpleError(err error, asJSON bool) {
	writeSimpleError(os.Stderr, err, asJSON)
}

func writeSimpleError(w io.Writer, err error, asJSON bool) {
	if asJSON {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"code":    string(errors.CodeOf(err)),
				"message": err.Error(),
			},
		})
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err.Error())
}

// FormatErrorCode returns a user-friendly name for error codes.
func FormatErrorCode(code errors.ErrorCode) string {
	switch code {
	case errors.CodeInternal:
		return "Internal Error"
	case errors.CodeInvalidConfig:
		return "Invalid Configuration"
	case errors.CodeDiscovery:
		return "Discovery Fault"
	case errors.CodeCheckPanic:
		return "Check Panic"
	case errors.CodeResolutionFailed:
		return "Resolution Failed"
	case errors.CodeStore:
		return "Store Error"
	default:
		return string(code)
	}
}
