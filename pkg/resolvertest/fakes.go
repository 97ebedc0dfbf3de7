// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

// Package resolvertest provides fakes and helpers for testing resolver
// pipelines and the plugins that run in them.
package resolvertest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jllopis/resolver/pkg/resolver"
)

// Journal records the order in which plugins ran across phases.
// It is safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Record appends an entry. A nil journal ignores it.
func (j *Journal) Record(entry string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

// Entries returns a copy of the recorded entries.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// Reset clears the journal.
func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

// Check is a scripted check. It returns Result, or panics with Panic when
// set, and counts its executions.
type Check[T any] struct {
	ID       string
	Priority int
	Result   resolver.CheckResult
	Panic    any
	Journal  *Journal
	// OnExecute, when set, replaces Result.
	OnExecute func(ctx context.Context, value T) resolver.CheckResult

	calls atomic.Int64
	seen  sync.Mutex
	vals  []T
}

// PassingCheck returns a check that always succeeds.
func PassingCheck[T any](id string, priority int, journal *Journal) *Check[T] {
	return &Check[T]{ID: id, Priority: priority, Result: resolver.Success(), Journal: journal}
}

// FailingCheck returns a check that always fails with msg.
func FailingCheck[T any](id string, priority int, msg string, journal *Journal) *Check[T] {
	return &Check[T]{ID: id, Priority: priority, Result: resolver.Failure(msg), Journal: journal}
}

// Name implements resolver.Named.
func (c *Check[T]) Name() string { return c.ID }

// Order implements resolver.Ordered.
func (c *Check[T]) Order() int { return c.Priority }

// Execute implements resolver.Check.
func (c *Check[T]) Execute(ctx context.Context, value T) resolver.CheckResult {
	c.calls.Add(1)
	c.seen.Lock()
	c.vals = append(c.vals, value)
	c.seen.Unlock()
	c.Journal.Record("check:" + c.ID)
	if c.Panic != nil {
		panic(c.Panic)
	}
	if c.OnExecute != nil {
		return c.OnExecute(ctx, value)
	}
	return c.Result
}

// Calls returns how many times the check ran.
func (c *Check[T]) Calls() int { return int(c.calls.Load()) }

// Values returns the values the check was executed against.
func (c *Check[T]) Values() []T {
	c.seen.Lock()
	defer c.seen.Unlock()
	return append([]T(nil), c.vals...)
}

// Activity is a scripted activity returning Err and counting executions.
type Activity[T any] struct {
	ID       string
	Priority int
	Err      error
	Journal  *Journal

	calls atomic.Int64
}

// NewActivity returns an activity that succeeds.
func NewActivity[T any](id string, priority int, journal *Journal) *Activity[T] {
	return &Activity[T]{ID: id, Priority: priority, Journal: journal}
}

// Name implements resolver.Named.
func (a *Activity[T]) Name() string { return a.ID }

// Order implements resolver.Ordered.
func (a *Activity[T]) Order() int { return a.Priority }

// Perform implements resolver.Activity.
func (a *Activity[T]) Perform(_ context.Context, _ T) error {
	a.calls.Add(1)
	a.Journal.Record("activity:" + a.ID)
	return a.Err
}

// Calls returns how many times the activity ran.
func (a *Activity[T]) Calls() int { return int(a.calls.Load()) }

// Transform wraps a transformation and counts its invocations.
type Transform[I, O any] struct {
	Fn      func(ctx context.Context, input I) (O, error)
	Journal *Journal

	calls atomic.Int64
}

// NewTransform wraps fn.
func NewTransform[I, O any](fn func(ctx context.Context, input I) (O, error), journal *Journal) *Transform[I, O] {
	return &Transform[I, O]{Fn: fn, Journal: journal}
}

// Identity returns a transform that returns its input unchanged.
func Identity[T any](journal *Journal) *Transform[T, T] {
	return NewTransform(func(_ context.Context, v T) (T, error) { return v, nil }, journal)
}

// Func returns the transform as a resolver.Transform.
func (t *Transform[I, O]) Func() resolver.Transform[I, O] {
	return func(ctx context.Context, input I) (O, error) {
		t.calls.Add(1)
		t.Journal.Record("transform")
		if t.Fn == nil {
			var zero O
			return zero, fmt.Errorf("resolvertest: transform has no function")
		}
		return t.Fn(ctx, input)
	}
}

// Calls returns how many times the transform ran.
func (t *Transform[I, O]) Calls() int { return int(t.calls.Load()) }
