// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import "slices"

// Outcome pairs a check result with the check that produced it.
type Outcome struct {
	Contributor string
	Order       int
	Result      CheckResult
}

// CombinedResult aggregates the outcomes of one check phase.
// Append order is the phase execution order.
type CombinedResult struct {
	outcomes []Outcome
}

// NewCombinedResult returns an empty aggregate.
func NewCombinedResult() *CombinedResult {
	return &CombinedResult{outcomes: make([]Outcome, 0)}
}

// Add appends a result produced by contributor.
func (c *CombinedResult) Add(result CheckResult, contributor string) {
	c.outcomes = append(c.outcomes, Outcome{Contributor: contributor, Result: result})
}

// AddOutcome appends a fully described outcome.
func (c *CombinedResult) AddOutcome(o Outcome) {
	c.outcomes = append(c.outcomes, o)
}

// Successful reports whether no appended result is a failure.
func (c *CombinedResult) Successful() bool {
	for _, o := range c.outcomes {
		if !o.Result.Successful() {
			return false
		}
	}
	return true
}

// Failed returns the failing outcomes in append order.
func (c *CombinedResult) Failed() []Outcome {
	out := make([]Outcome, 0)
	for _, o := range c.outcomes {
		if !o.Result.Successful() {
			out = append(out, o)
		}
	}
	return out
}

// All returns every outcome in append order.
func (c *CombinedResult) All() []Outcome {
	return slices.Clone(c.outcomes)
}

// Len returns the number of appended outcomes.
func (c *CombinedResult) Len() int { return len(c.outcomes) }
