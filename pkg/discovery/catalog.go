// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Catalog is an in-process component registry.
//
// Plugin packages register their factories explicitly, typically from a
// Register function called by the application before building pipelines:
//
//	func Register(c *discovery.Catalog) {
//	    c.Register("orders.pre-check", "has-lines", discovery.Zero[HasLines]())
//	}
type Catalog struct {
	mu      sync.RWMutex
	entries map[Marker][]Component
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[Marker][]Component)}
}

// Register adds a factory under marker.
// Panics if the marker or name is empty, the factory is nil, or the name is
// already registered for the marker.
func (c *Catalog) Register(marker Marker, name string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(string(marker)) == "" {
		panic("discovery: marker cannot be empty")
	}
	if normalizeKey(name) == "" {
		panic(fmt.Sprintf("discovery: component name under %q cannot be empty", marker))
	}
	if factory == nil {
		panic(fmt.Sprintf("discovery: component %q must have a factory", name))
	}
	for _, existing := range c.entries[marker] {
		if normalizeKey(existing.Name) == normalizeKey(name) {
			panic(fmt.Sprintf("discovery: component %q already registered under %q", name, marker))
		}
	}
	c.entries[marker] = append(c.entries[marker], Component{Name: name, Marker: marker, Factory: factory})
}

// List returns the components registered under marker in registration order.
func (c *Catalog) List(_ context.Context, marker Marker) ([]Component, error) {
	if c == nil {
		return nil, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.entries[marker]), nil
}

// Markers returns every marker with at least one component, sorted.
func (c *Catalog) Markers() []Marker {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Marker, 0, len(c.entries))
	for marker := range c.entries {
		out = append(out, marker)
	}
	slices.Sort(out)
	return out
}

// Clear removes all registered components (for testing only).
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Marker][]Component)
}

// Zero returns a factory building a pointer to the zero value of T.
// It is the default construction path for plugins without configuration.
func Zero[T any]() Factory {
	return func() (any, error) {
		return new(T), nil
	}
}

var defaultCatalog = NewCatalog()

// Default returns the process-wide catalog.
func Default() *Catalog { return defaultCatalog }

// Register adds a factory to the process-wide catalog.
func Register(marker Marker, name string, factory Factory) {
	defaultCatalog.Register(marker, name, factory)
}
