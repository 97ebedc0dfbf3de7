package resolver

import (
	"errors"
	"testing"
)

func TestCheckResult(t *testing.T) {
	cause := errors.New("stock service unavailable")

	tests := []struct {
		name       string
		result     CheckResult
		successful bool
		info       string
		warning    string
		message    string
		cause      error
	}{
		{name: "success", result: Success(), successful: true},
		{name: "success with info", result: Success().WithInfo("cached"), successful: true, info: "cached"},
		{name: "success with warning", result: Success().WithWarning("slow"), successful: true, warning: "slow"},
		{name: "failure", result: Failure("empty order"), message: "empty order"},
		{name: "failure from error", result: FailureFromError(cause), message: cause.Error(), cause: cause},
		{name: "failure from nil error", result: FailureFromError(nil)},
		{
			name:    "failure with message and cause",
			result:  Failure("cannot verify stock").WithCause(cause),
			message: "cannot verify stock",
			cause:   cause,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.result
			if r.Successful() != tt.successful {
				t.Errorf("Successful: expected %v", tt.successful)
			}
			if r.InformationMessage() != tt.info {
				t.Errorf("info: expected %q, got %q", tt.info, r.InformationMessage())
			}
			if r.WarningMessage() != tt.warning {
				t.Errorf("warning: expected %q, got %q", tt.warning, r.WarningMessage())
			}
			if r.ErrorMessage() != tt.message {
				t.Errorf("message: expected %q, got %q", tt.message, r.ErrorMessage())
			}
			if r.Cause() != tt.cause {
				t.Errorf("cause: expected %v, got %v", tt.cause, r.Cause())
			}
		})
	}
}

func TestCheckResultModifiersCopy(t *testing.T) {
	base := Failure("a")
	changed := base.WithMessage("b")
	if base.ErrorMessage() != "a" || changed.ErrorMessage() != "b" {
		t.Fatal("modifiers must not mutate the receiver")
	}
}

func TestCombinedResult(t *testing.T) {
	c := NewCombinedResult()
	if !c.Successful() || c.Len() != 0 {
		t.Fatal("empty result should be successful")
	}

	c.Add(Success(), "first")
	c.Add(Failure("x"), "second")
	c.AddOutcome(Outcome{Contributor: "third", Order: 3, Result: Failure("y")})

	if c.Successful() {
		t.Error("expected failure")
	}
	failed := c.Failed()
	if len(failed) != 2 || failed[0].Contributor != "second" || failed[1].Contributor != "third" {
		t.Errorf("unexpected failures %+v", failed)
	}
	all := c.All()
	if len(all) != 3 || all[0].Contributor != "first" {
		t.Errorf("unexpected outcomes %+v", all)
	}
	all[0].Contributor = "mutated"
	if c.All()[0].Contributor != "first" {
		t.Error("All must return a copy")
	}
}
