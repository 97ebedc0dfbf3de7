package resolver

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	rerrors "github.com/jllopis/resolver/pkg/errors"
)

func TestResolutionError(t *testing.T) {
	timeout := errors.New("lookup timed out")
	err := &ResolutionError{
		Pipeline: "orders",
		Phase:    StatePreCheck,
		RunID:    "run-1",
		Failures: []Outcome{
			{Contributor: "has-lines", Result: Failure("order has no lines")},
			{Contributor: "customer-known", Result: Failure("customer lookup failed").WithCause(timeout)},
			{Contributor: "stock", Result: FailureFromError(errors.New("out of stock"))},
		},
	}

	msg := err.Error()
	for _, want := range []string{
		"pre-check phase of orders",
		"3 check(s) failed",
		"has-lines: order has no lines",
		"customer-known: customer lookup failed (cause: lookup timed out)",
		"stock: out of stock",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
	if strings.Contains(msg, "(cause: out of stock)") {
		t.Errorf("cause equal to the message should not be repeated: %q", msg)
	}

	wrapped := fmt.Errorf("handling request: %w", err)
	if !errors.Is(wrapped, ErrResolutionFailed) {
		t.Error("expected errors.Is(ErrResolutionFailed)")
	}
	if !errors.Is(wrapped, timeout) {
		t.Error("expected captured causes to be reachable")
	}
	if !IsResolutionError(wrapped) {
		t.Error("expected IsResolutionError")
	}
	if got := rerrors.CodeOf(wrapped); got != rerrors.CodeResolutionFailed {
		t.Errorf("expected RESOLUTION_FAILED, got %s", got)
	}
	if diff := cmp.Diff([]string{"has-lines", "customer-known", "stock"}, err.Contributors()); diff != "" {
		t.Errorf("contributors mismatch (-want +got):\n%s", diff)
	}
}

func TestPanicCause(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name      string
		recovered any
		wantMsg   string
		wantCause error
	}{
		{name: "error value", recovered: boom, wantMsg: "check stock panicked", wantCause: boom},
		{name: "string value", recovered: "index out of range", wantMsg: "check stock panicked: index out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newPanicCause("stock", tt.recovered)
			typed := rerrors.As(err)
			if typed.Code != rerrors.CodeCheckPanic {
				t.Errorf("expected CHECK_PANIC, got %s", typed.Code)
			}
			if typed.Message != tt.wantMsg {
				t.Errorf("message: got %q, want %q", typed.Message, tt.wantMsg)
			}
			if tt.wantCause != nil && !errors.Is(err, tt.wantCause) {
				t.Errorf("expected cause %v to be wrapped", tt.wantCause)
			}
			if typed.Context["contributor"] != "stock" {
				t.Errorf("expected contributor context, got %v", typed.Context)
			}
		})
	}
}
