package resolver

import "testing"

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from, to State
		allowed  bool
	}{
		{StateStart, StatePreCheck, true},
		{StatePreCheck, StatePreActivity, true},
		{StatePreActivity, StateTransform, true},
		{StateTransform, StatePostCheck, true},
		{StatePostCheck, StatePostActivity, true},
		{StatePostActivity, StateDone, true},
		{StatePreCheck, StateAborted, true},
		{StatePreActivity, StateAborted, true},
		{StateTransform, StateAborted, true},
		{StatePostCheck, StateAborted, true},
		{StatePostActivity, StateAborted, true},
		{StateStart, StateAborted, false},
		{StateStart, StateTransform, false},
		{StatePreCheck, StatePostCheck, false},
		{StateDone, StateAborted, false},
		{StateAborted, StatePreCheck, false},
		{StatePostActivity, StatePreCheck, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := isAllowedTransition(tt.from, tt.to); got != tt.allowed {
				t.Errorf("expected %v, got %v", tt.allowed, got)
			}
		})
	}
}

func TestMachineHappyPath(t *testing.T) {
	m := newMachine()
	for _, s := range []State{StatePreCheck, StatePreActivity, StateTransform, StatePostCheck, StatePostActivity, StateDone} {
		m.advance(s)
		if m.current() != s {
			t.Fatalf("expected %s, got %s", s, m.current())
		}
	}
	if !m.current().IsTerminal() {
		t.Error("done should be terminal")
	}
}

func TestMachineInvalidTransitionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	m := newMachine()
	m.advance(StateTransform)
}
