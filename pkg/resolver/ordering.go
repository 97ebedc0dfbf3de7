// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"cmp"
	"math"
	"slices"
)

const (
	// HighestPrecedence runs before every other item.
	HighestPrecedence = math.MaxInt
	// LowestPrecedence runs after every other item.
	LowestPrecedence = math.MinInt
)

// Ordered is implemented by everything that takes part in phase ordering.
// Larger values execute first.
type Ordered interface {
	Order() int
}

// Priority is an embeddable Ordered implementation.
type Priority int

// Order implements Ordered.
func (p Priority) Order() int { return int(p) }

// Compare orders a before b when a has the larger Order().
func Compare(a, b Ordered) int {
	return cmp.Compare(b.Order(), a.Order())
}

// SortByPriority sorts items in place by descending Order().
// The sort is stable: items with equal Order() keep their relative position,
// which for registry slots is registration order.
func SortByPriority[T Ordered](items []T) {
	slices.SortStableFunc(items, func(a, b T) int {
		return Compare(a, b)
	})
}

// sortedCopy returns a priority-sorted copy, leaving items untouched.
func sortedCopy[T Ordered](items []T) []T {
	out := slices.Clone(items)
	SortByPriority(out)
	return out
}
