// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"context"
	"fmt"
	"strings"
)

// Check inspects a value and reports a CheckResult.
//
// Implementations report failure through the returned result, never by
// panicking. A panic escaping Execute is recovered once by the pipeline and
// recorded as a failure whose cause carries the panic value.
//
// Info and warning messages are logged and emitted for every result, including
// when another check in the same phase fails.
//
// The pipeline does not serialize calls to a check: a pipeline shared by
// several goroutines calls Execute concurrently.
type Check[T any] interface {
	Ordered
	Execute(ctx context.Context, value T) CheckResult
}

// Activity performs a side effect against a value.
// A returned error aborts the resolution and reaches the caller unchanged.
type Activity[T any] interface {
	Ordered
	Perform(ctx context.Context, value T) error
}

// Named is optionally implemented by checks and activities to provide the
// name used in diagnostics. Without it the dynamic type name is used.
type Named interface {
	Name() string
}

// NameOf returns the diagnostic name of a plugin.
func NameOf(item any) string {
	if n, ok := item.(Named); ok {
		if name := strings.TrimSpace(n.Name()); name != "" {
			return name
		}
	}
	name, params := strings.TrimLeft(fmt.Sprintf("%T", item), "*"), ""
	if i := strings.Index(name, "["); i >= 0 {
		name, params = name[:i], name[i:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name + params
}

// CheckFunc is the body of a check built with NewCheck.
type CheckFunc[T any] func(ctx context.Context, value T) CheckResult

// ActivityFunc is the body of an activity built with NewActivity.
type ActivityFunc[T any] func(ctx context.Context, value T) error

type funcCheck[T any] struct {
	name  string
	order int
	fn    CheckFunc[T]
}

// NewCheck builds a Check from a function. Each call returns a distinct
// instance, so registering two results of NewCheck registers two checks.
func NewCheck[T any](name string, order int, fn CheckFunc[T]) Check[T] {
	return &funcCheck[T]{name: name, order: order, fn: fn}
}

func (c *funcCheck[T]) Name() string { return c.name }
func (c *funcCheck[T]) Order() int   { return c.order }

func (c *funcCheck[T]) Execute(ctx context.Context, value T) CheckResult {
	return c.fn(ctx, value)
}

type funcActivity[T any] struct {
	name  string
	order int
	fn    ActivityFunc[T]
}

// NewActivity builds an Activity from a function.
func NewActivity[T any](name string, order int, fn ActivityFunc[T]) Activity[T] {
	return &funcActivity[T]{name: name, order: order, fn: fn}
}

func (a *funcActivity[T]) Name() string { return a.name }
func (a *funcActivity[T]) Order() int   { return a.order }

func (a *funcActivity[T]) Perform(ctx context.Context, value T) error {
	return a.fn(ctx, value)
}
