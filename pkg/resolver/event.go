// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"context"
	"time"
)

// EventType identifies a diagnostic event emitted during Resolve.
type EventType string

const (
	EventResolveStarted   EventType = "resolve.started"
	EventPhaseStarted     EventType = "phase.started"
	EventItemExecuted     EventType = "item.executed"
	EventCheckInfo        EventType = "check.info"
	EventCheckWarning     EventType = "check.warning"
	EventCheckFailed      EventType = "check.failed"
	EventPhaseCompleted   EventType = "phase.completed"
	EventResolveCompleted EventType = "resolve.completed"
	EventResolveAborted   EventType = "resolve.aborted"
)

// Event is a single diagnostic record.
type Event struct {
	Type        EventType
	Pipeline    string
	RunID       string
	State       State
	Contributor string
	Order       int
	Message     string
	Err         error
	Timestamp   time.Time
}

// Sink receives diagnostic events. It is append-only: a sink cannot influence
// the resolution. Sinks are called synchronously from Resolve and must be safe
// for concurrent use when the pipeline is shared.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, event Event)

// Emit implements Sink.
func (f SinkFunc) Emit(ctx context.Context, event Event) { f(ctx, event) }

// NoopSink discards events.
type NoopSink struct{}

// Emit implements Sink.
func (NoopSink) Emit(_ context.Context, _ Event) {}

// MultiSink fans events out to several sinks in order.
type MultiSink []Sink

// Emit implements Sink.
func (m MultiSink) Emit(ctx context.Context, event Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ctx, event)
		}
	}
}
