// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/jllopis/resolver/pkg/discovery"
	"github.com/jllopis/resolver/pkg/telemetry"
)

// ResultHandler decides what a finished check phase means. It receives the
// phase's combined result and returns a non-nil error to abort the
// resolution. The phase and run id are available through ctx (see
// PhaseFromContext and RunID).
type ResultHandler func(ctx context.Context, result *CombinedResult) error

// Markers names the discovery marker queried for each registry slot.
// An empty marker skips discovery for that slot.
type Markers struct {
	PreCheck     discovery.Marker
	PostCheck    discovery.Marker
	PreActivity  discovery.Marker
	PostActivity discovery.Marker
}

func (m Markers) forSlot(s Slot) discovery.Marker {
	switch s {
	case SlotPreCheck:
		return m.PreCheck
	case SlotPostCheck:
		return m.PostCheck
	case SlotPreActivity:
		return m.PreActivity
	case SlotPostActivity:
		return m.PostActivity
	}
	return ""
}

// Option configures a Pipeline.
type Option func(*settings) error

type settings struct {
	name             string
	logger           *slog.Logger
	sink             Sink
	metrics          *telemetry.Metrics
	tracerProvider   trace.TracerProvider
	provider         discovery.Provider
	markers          Markers
	preCheckHandler  ResultHandler
	postCheckHandler ResultHandler
}

// WithName sets the pipeline name used in logs, spans, events and errors.
func WithName(name string) Option {
	return func(s *settings) error {
		s.name = name
		return nil
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			return errors.New("logger is nil")
		}
		s.logger = logger
		return nil
	}
}

// WithSink adds a diagnostics sink. It can be given several times; events are
// delivered to every sink in the order they were added.
func WithSink(sink Sink) Option {
	return func(s *settings) error {
		if sink == nil {
			return errors.New("sink is nil")
		}
		s.sink = appendSink(s.sink, sink)
		return nil
	}
}

func appendSink(current Sink, sink Sink) MultiSink {
	switch c := current.(type) {
	case nil:
		return MultiSink{sink}
	case MultiSink:
		return append(c, sink)
	default:
		return MultiSink{c, sink}
	}
}

// WithMetrics records pipeline metrics on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *settings) error {
		s.metrics = m
		return nil
	}
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *settings) error {
		s.tracerProvider = tp
		return nil
	}
}

// WithDiscovery registers the components provider lists under markers.
// Discovery runs once in New.
func WithDiscovery(provider discovery.Provider, markers Markers) Option {
	return func(s *settings) error {
		if provider == nil {
			return errors.New("discovery provider is nil")
		}
		s.provider = provider
		s.markers = markers
		return nil
	}
}

// WithPreCheckHandler replaces the default handling of pre-check results.
func WithPreCheckHandler(h ResultHandler) Option {
	return func(s *settings) error {
		s.preCheckHandler = h
		return nil
	}
}

// WithPostCheckHandler replaces the default handling of post-check results.
func WithPostCheckHandler(h ResultHandler) Option {
	return func(s *settings) error {
		s.postCheckHandler = h
		return nil
	}
}
