// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"log/slog"

	"github.com/jllopis/resolver/pkg/resolver"
)

// FromEvent converts a diagnostic event into an audit record.
func FromEvent(ev resolver.Event) Record {
	r := Record{
		Pipeline:    ev.Pipeline,
		RunID:       ev.RunID,
		Type:        string(ev.Type),
		State:       ev.State.String(),
		Contributor: ev.Contributor,
		Order:       ev.Order,
		Message:     ev.Message,
		Timestamp:   ev.Timestamp,
	}
	if ev.Err != nil {
		r.Error = ev.Err.Error()
	}
	return r
}

// Sink writes resolver events to a Store. Store failures are logged and
// never affect the resolution.
type Sink struct {
	store  Store
	logger *slog.Logger
}

// NewSink adapts store into a resolver.Sink. A nil logger uses slog.Default().
func NewSink(store Store, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{store: store, logger: logger}
}

// Emit implements resolver.Sink.
func (s *Sink) Emit(ctx context.Context, ev resolver.Event) {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Record(ctx, FromEvent(ev)); err != nil {
		s.logger.WarnContext(ctx, "audit.record.failed",
			slog.String("pipeline", ev.Pipeline),
			slog.String("run_id", ev.RunID),
			slog.String("event", string(ev.Type)),
			slog.String("error", err.Error()),
		)
	}
}

var _ resolver.Sink = (*Sink)(nil)
