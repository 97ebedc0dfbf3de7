// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolvertest

import (
	"context"
	"sync"

	"github.com/jllopis/resolver/pkg/resolver"
)

// EventCollector is a resolver.Sink that keeps every event it receives.
type EventCollector struct {
	mu     sync.Mutex
	events []resolver.Event
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{}
}

// Emit implements resolver.Sink.
func (c *EventCollector) Emit(_ context.Context, event resolver.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns all collected events.
func (c *EventCollector) Events() []resolver.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]resolver.Event(nil), c.events...)
}

// EventTypes returns the types of all collected events in order.
func (c *EventCollector) EventTypes() []resolver.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]resolver.EventType, len(c.events))
	for i, e := range c.events {
		types[i] = e.Type
	}
	return types
}

// OfType returns the collected events of the given type.
func (c *EventCollector) OfType(eventType resolver.EventType) []resolver.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []resolver.Event
	for _, e := range c.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// HasEvent checks if an event of the given type was collected.
func (c *EventCollector) HasEvent(eventType resolver.EventType) bool {
	return len(c.OfType(eventType)) > 0
}

// Count returns the number of collected events.
func (c *EventCollector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// Reset clears all collected events.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}
