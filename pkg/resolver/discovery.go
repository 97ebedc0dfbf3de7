// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jllopis/resolver/pkg/discovery"
	rerrors "github.com/jllopis/resolver/pkg/errors"
)

// discoverInto instantiates the components provider lists for each marker
// and registers them in reg. The first failure aborts discovery.
func discoverInto[I, O any](ctx context.Context, provider discovery.Provider, markers Markers, reg *Registry[I, O]) error {
	if err := discoverSlot(ctx, provider, markers.forSlot(SlotPreCheck), SlotPreCheck, reg.AddPreCheck); err != nil {
		return err
	}
	if err := discoverSlot(ctx, provider, markers.forSlot(SlotPostCheck), SlotPostCheck, reg.AddPostCheck); err != nil {
		return err
	}
	if err := discoverSlot(ctx, provider, markers.forSlot(SlotPreActivity), SlotPreActivity, reg.AddPreActivity); err != nil {
		return err
	}
	return discoverSlot(ctx, provider, markers.forSlot(SlotPostActivity), SlotPostActivity, reg.AddPostActivity)
}

func discoverSlot[T any](ctx context.Context, provider discovery.Provider, marker discovery.Marker, slot Slot, add func(T) bool) error {
	if marker == "" {
		return nil
	}
	components, err := provider.List(ctx, marker)
	if err != nil {
		return discoveryFault(marker, slot, "", "listing components failed", err)
	}
	for _, c := range components {
		instance, err := c.New()
		if err != nil {
			return discoveryFault(marker, slot, c.Name, "component could not be instantiated", err)
		}
		if isNil(instance) {
			return discoveryFault(marker, slot, c.Name, "component factory returned nil", nil)
		}
		item, ok := instance.(T)
		if !ok {
			msg := fmt.Sprintf("component of type %T does not implement %s", instance, reflect.TypeOf((*T)(nil)).Elem())
			return discoveryFault(marker, slot, c.Name, msg, nil)
		}
		add(item)
	}
	return nil
}

func discoveryFault(marker discovery.Marker, slot Slot, component, msg string, cause error) error {
	e := rerrors.New(rerrors.CodeDiscovery, msg, cause).
		WithContext("marker", string(marker)).
		WithContext("slot", string(slot)).
		WithAttribute("slot", string(slot))
	if component != "" {
		e.WithContext("component", component)
	}
	return e
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
