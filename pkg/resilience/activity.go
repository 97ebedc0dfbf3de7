// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"

	"github.com/jllopis/resolver/pkg/resolver"
)

type retryActivity[T any] struct {
	inner  resolver.Activity[T]
	policy RetryPolicy
}

// RetryActivity retries a under policy.
func RetryActivity[T any](a resolver.Activity[T], policy RetryPolicy) resolver.Activity[T] {
	return &retryActivity[T]{inner: a, policy: policy}
}

func (r *retryActivity[T]) Name() string { return resolver.NameOf(r.inner) }
func (r *retryActivity[T]) Order() int   { return r.inner.Order() }

func (r *retryActivity[T]) Perform(ctx context.Context, value T) error {
	return r.policy.Do(ctx, func(int) error {
		return r.inner.Perform(ctx, value)
	})
}

type guardedActivity[T any] struct {
	inner   resolver.Activity[T]
	breaker *CircuitBreaker
}

// GuardActivity runs a behind breaker. While the breaker is open the
// activity fails with a CodeUnavailable error without running.
func GuardActivity[T any](a resolver.Activity[T], breaker *CircuitBreaker) resolver.Activity[T] {
	return &guardedActivity[T]{inner: a, breaker: breaker}
}

func (g *guardedActivity[T]) Name() string { return resolver.NameOf(g.inner) }
func (g *guardedActivity[T]) Order() int   { return g.inner.Order() }

func (g *guardedActivity[T]) Perform(ctx context.Context, value T) error {
	return g.breaker.Call(ctx, func(ctx context.Context) error {
		return g.inner.Perform(ctx, value)
	})
}

// RetryTransform retries t under policy. The output of the last attempt is
// returned.
func RetryTransform[I, O any](t resolver.Transform[I, O], policy RetryPolicy) resolver.Transform[I, O] {
	return func(ctx context.Context, input I) (O, error) {
		var out O
		err := policy.Do(ctx, func(int) error {
			var err error
			out, err = t(ctx, input)
			return err
		})
		return out, err
	}
}
