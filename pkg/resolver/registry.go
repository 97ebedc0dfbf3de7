// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"reflect"
	"slices"
	"unsafe"
)

// Slot names one of the four registry collections.
type Slot string

const (
	SlotPreCheck     Slot = "pre_check"
	SlotPostCheck    Slot = "post_check"
	SlotPreActivity  Slot = "pre_activity"
	SlotPostActivity Slot = "post_activity"
)

// slot is an identity-keyed set that remembers registration order.
type slot[T any] struct {
	items []T
	seen  map[any]struct{}
}

func newSlot[T any]() *slot[T] {
	return &slot[T]{items: make([]T, 0), seen: make(map[any]struct{})}
}

func (s *slot[T]) add(item T) bool {
	if key, ok := identityKey(item); ok && !s.remember(key) {
		return false
	}
	s.items = append(s.items, item)
	return true
}

// remember records key and reports whether it was new. Keys whose dynamic
// contents cannot be hashed are treated as new.
func (s *slot[T]) remember(key any) (added bool) {
	defer func() {
		if recover() != nil {
			added = true
		}
	}()
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *slot[T]) list() []T {
	return slices.Clone(s.items)
}

func (s *slot[T]) clone() *slot[T] {
	out := newSlot[T]()
	for _, item := range s.items {
		out.add(item)
	}
	return out
}

type pointerKey struct {
	typ reflect.Type
	ptr uintptr
}

// identityKey returns the key used to detect duplicate registrations.
// Pointers, maps, channels and funcs are keyed by address. Other comparable
// values are keyed by value since Go values carry no identity. Values that
// cannot be compared are never treated as duplicates.
func identityKey(item any) (any, bool) {
	if item == nil {
		return nil, false
	}
	v := reflect.ValueOf(item)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return pointerKey{typ: v.Type(), ptr: v.Pointer()}, true
	case reflect.Func:
		return pointerKey{typ: v.Type(), ptr: uintptr(funcData(item))}, true
	}
	if !v.Type().Comparable() {
		return nil, false
	}
	return item, true
}

// funcData returns the closure address held in the data word of item.
// reflect.Value.Pointer reports the code pointer instead, which closures built
// from the same literal share.
func funcData(item any) unsafe.Pointer {
	return (*[2]unsafe.Pointer)(unsafe.Pointer(&item))[1]
}

// Registry holds the checks and activities of a pipeline, one collection per
// slot. Registering the same instance twice is a no-op.
//
// Pointer, map, chan and func plugins are identified by address. Plugins of any
// other comparable type are identified by value, so two equal values count as
// one registration. Plugins that are not comparable are never deduplicated.
//
// A Registry is not safe for concurrent mutation. New takes a snapshot of it,
// so changes made after New do not affect the pipeline.
type Registry[I, O any] struct {
	preChecks      *slot[Check[I]]
	postChecks     *slot[Check[O]]
	preActivities  *slot[Activity[I]]
	postActivities *slot[Activity[O]]
}

// NewRegistry returns an empty registry.
func NewRegistry[I, O any]() *Registry[I, O] {
	return &Registry[I, O]{
		preChecks:      newSlot[Check[I]](),
		postChecks:     newSlot[Check[O]](),
		preActivities:  newSlot[Activity[I]](),
		postActivities: newSlot[Activity[O]](),
	}
}

// AddPreCheck registers a check run against the input. It reports whether
// the check was added.
func (r *Registry[I, O]) AddPreCheck(c Check[I]) bool {
	if c == nil {
		return false
	}
	return r.preChecks.add(c)
}

// AddPostCheck registers a check run against the output.
func (r *Registry[I, O]) AddPostCheck(c Check[O]) bool {
	if c == nil {
		return false
	}
	return r.postChecks.add(c)
}

// AddPreActivity registers an activity performed on the input.
func (r *Registry[I, O]) AddPreActivity(a Activity[I]) bool {
	if a == nil {
		return false
	}
	return r.preActivities.add(a)
}

// AddPostActivity registers an activity performed on the output.
func (r *Registry[I, O]) AddPostActivity(a Activity[O]) bool {
	if a == nil {
		return false
	}
	return r.postActivities.add(a)
}

// WithPreCheck registers checks and returns the registry for chaining.
func (r *Registry[I, O]) WithPreCheck(checks ...Check[I]) *Registry[I, O] {
	for _, c := range checks {
		r.AddPreCheck(c)
	}
	return r
}

// WithPostCheck registers checks and returns the registry for chaining.
func (r *Registry[I, O]) WithPostCheck(checks ...Check[O]) *Registry[I, O] {
	for _, c := range checks {
		r.AddPostCheck(c)
	}
	return r
}

// WithPreActivity registers activities and returns the registry for chaining.
func (r *Registry[I, O]) WithPreActivity(activities ...Activity[I]) *Registry[I, O] {
	for _, a := range activities {
		r.AddPreActivity(a)
	}
	return r
}

// WithPostActivity registers activities and returns the registry for chaining.
func (r *Registry[I, O]) WithPostActivity(activities ...Activity[O]) *Registry[I, O] {
	for _, a := range activities {
		r.AddPostActivity(a)
	}
	return r
}

// PreChecks returns the registered pre-checks in registration order.
func (r *Registry[I, O]) PreChecks() []Check[I] { return r.preChecks.list() }

// PostChecks returns the registered post-checks in registration order.
func (r *Registry[I, O]) PostChecks() []Check[O] { return r.postChecks.list() }

// PreActivities returns the registered pre-activities in registration order.
func (r *Registry[I, O]) PreActivities() []Activity[I] { return r.preActivities.list() }

// PostActivities returns the registered post-activities in registration order.
func (r *Registry[I, O]) PostActivities() []Activity[O] { return r.postActivities.list() }

// Stats reports the size of each slot.
func (r *Registry[I, O]) Stats() Stats {
	return Stats{
		PreChecks:      len(r.preChecks.items),
		PostChecks:     len(r.postChecks.items),
		PreActivities:  len(r.preActivities.items),
		PostActivities: len(r.postActivities.items),
	}
}

func (r *Registry[I, O]) clone() *Registry[I, O] {
	return &Registry[I, O]{
		preChecks:      r.preChecks.clone(),
		postChecks:     r.postChecks.clone(),
		preActivities:  r.preActivities.clone(),
		postActivities: r.postActivities.clone(),
	}
}

// Stats contains registry sizes.
type Stats struct {
	PreChecks      int
	PostChecks     int
	PreActivities  int
	PostActivities int
}
