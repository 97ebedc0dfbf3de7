// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

// Package discovery lets plugins register themselves under a marker without
// the consumer knowing their concrete types at compile time.
//
// Components are contributed to a Catalog (usually from the plugin package's
// Register function) and looked up by marker through a Provider. Providers
// can be chained and filtered with a Manifest.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Marker tags a category of components, e.g. "orders.pre-check".
type Marker string

// Factory builds a default instance of a component.
type Factory func() (any, error)

// Component is a discovered, not yet instantiated, plugin.
type Component struct {
	Name    string
	Marker  Marker
	Factory Factory
}

// New instantiates the component through its default construction path.
func (c Component) New() (any, error) {
	if c.Factory == nil {
		return nil, fmt.Errorf("component %q has no factory", c.Name)
	}
	return c.Factory()
}

// Provider lists the components associated with a marker.
type Provider interface {
	List(ctx context.Context, marker Marker) ([]Component, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, marker Marker) ([]Component, error)

// List implements Provider.
func (f ProviderFunc) List(ctx context.Context, marker Marker) ([]Component, error) {
	return f(ctx, marker)
}

// Chain aggregates providers in priority order.
type Chain struct {
	providers []Provider
}

// NewChain creates a chain with providers in order of priority.
func NewChain(providers ...Provider) (*Chain, error) {
	filtered := make([]Provider, 0, len(providers))
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		filtered = append(filtered, provider)
	}
	if len(filtered) == 0 {
		return nil, errors.New("no discovery providers configured")
	}
	return &Chain{providers: filtered}, nil
}

// List returns the components of every provider in order, deduped by name.
// The first provider to report a name wins.
func (c *Chain) List(ctx context.Context, marker Marker) ([]Component, error) {
	if c == nil {
		return nil, errors.New("chain is nil")
	}
	out := make([]Component, 0)
	seen := map[string]struct{}{}
	for _, provider := range c.providers {
		entries, err := provider.List(ctx, marker)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			key := normalizeKey(entry.Name)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, entry)
		}
	}
	return out, nil
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
