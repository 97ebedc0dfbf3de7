// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import "fmt"

// State is a step of a single Resolve call.
type State string

const (
	StateStart        State = "start"
	StatePreCheck     State = "pre-check"
	StatePreActivity  State = "pre-activity"
	StateTransform    State = "transform"
	StatePostCheck    State = "post-check"
	StatePostActivity State = "post-activity"
	StateDone         State = "done"
	StateAborted      State = "aborted"
)

// String implements fmt.Stringer.
func (s State) String() string { return string(s) }

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateAborted
}

// next lists the single forward transition of each non-terminal state.
var next = map[State]State{
	StateStart:        StatePreCheck,
	StatePreCheck:     StatePreActivity,
	StatePreActivity:  StateTransform,
	StateTransform:    StatePostCheck,
	StatePostCheck:    StatePostActivity,
	StatePostActivity: StateDone,
}

func isAllowedTransition(from, to State) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StateAborted {
		return from != StateStart
	}
	return next[from] == to
}

// machine tracks the state of one Resolve call.
type machine struct {
	state State
}

func newMachine() *machine {
	return &machine{state: StateStart}
}

// advance moves to the given state. An invalid transition is a bug in the
// pipeline and panics.
func (m *machine) advance(to State) {
	if !isAllowedTransition(m.state, to) {
		panic(fmt.Sprintf("resolver: disallowed transition %s -> %s", m.state, to))
	}
	m.state = to
}

func (m *machine) current() State { return m.state }
