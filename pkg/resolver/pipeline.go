// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	rerrors "github.com/jllopis/resolver/pkg/errors"
	"github.com/jllopis/resolver/pkg/telemetry"
)

// TracerName is the instrumentation scope of resolver spans.
const TracerName = "resolver/pipeline"

// Transform is the resolution logic wrapped by a Pipeline.
type Transform[I, O any] func(ctx context.Context, input I) (O, error)

// Pipeline runs checks and activities around a Transform.
// A Pipeline is immutable after New and safe for concurrent Resolve calls.
type Pipeline[I, O any] struct {
	*engine
	transform Transform[I, O]
	stats     Stats

	preChecks      []Check[I]
	postChecks     []Check[O]
	preActivities  []Activity[I]
	postActivities []Activity[O]
}

// engine holds the type-independent part of a pipeline.
type engine struct {
	name        string
	logger      *slog.Logger
	sink        Sink
	metrics     *telemetry.Metrics
	tracer      trace.Tracer
	preHandler  ResultHandler
	postHandler ResultHandler
}

// New builds a pipeline around transform. The registry is copied; later
// changes to it are not seen by the pipeline. A nil registry means no
// plugins besides the discovered ones.
func New[I, O any](transform Transform[I, O], registry *Registry[I, O], opts ...Option) (*Pipeline[I, O], error) {
	if transform == nil {
		return nil, rerrors.New(rerrors.CodeInvalidConfig, "transform is required", nil)
	}

	s := &settings{}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, rerrors.New(rerrors.CodeInvalidConfig, "invalid pipeline option", err)
		}
	}

	reg := NewRegistry[I, O]()
	if registry != nil {
		reg = registry.clone()
	}
	if s.provider != nil {
		if err := discoverInto(context.Background(), s.provider, s.markers, reg); err != nil {
			return nil, err
		}
	}

	e := &engine{
		name:    s.name,
		logger:  s.logger,
		sink:    s.sink,
		metrics: s.metrics,
	}
	if e.name == "" {
		e.name = defaultName[I, O]()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.sink == nil {
		e.sink = NoopSink{}
	}
	tp := s.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	e.tracer = tp.Tracer(TracerName)
	e.preHandler = s.preCheckHandler
	if e.preHandler == nil {
		e.preHandler = e.resolutionFailure
	}
	e.postHandler = s.postCheckHandler
	if e.postHandler == nil {
		e.postHandler = e.resolutionFailure
	}

	return &Pipeline[I, O]{
		engine:         e,
		transform:      transform,
		stats:          reg.Stats(),
		preChecks:      sortedCopy(reg.PreChecks()),
		postChecks:     sortedCopy(reg.PostChecks()),
		preActivities:  sortedCopy(reg.PreActivities()),
		postActivities: sortedCopy(reg.PostActivities()),
	}, nil
}

// Name returns the pipeline name.
func (p *Pipeline[I, O]) Name() string { return p.name }

// Stats returns the number of plugins per slot, discovered ones included.
func (p *Pipeline[I, O]) Stats() Stats { return p.stats }

// Resolve runs pre-checks, pre-activities, the transform, post-checks and
// post-activities in that order.
//
// A failing check phase aborts with a *ResolutionError listing every failing
// check of the phase. Errors from activities and from the transform are
// returned unchanged and stop the resolution immediately. On any error the
// zero value of O is returned.
func (p *Pipeline[I, O]) Resolve(ctx context.Context, input I) (O, error) {
	var zero O

	ctx, runID := EnsureRunID(ctx)
	ctx, span := p.tracer.Start(ctx, "Resolver.Resolve",
		trace.WithAttributes(telemetry.PipelineAttributes(p.name, runID)...),
	)
	defer span.End()

	r := p.newRun(runID, span)
	r.started(ctx)

	r.enter(ctx, StatePreCheck)
	if err := runChecks(ctx, r, p.preChecks, input, p.preHandler); err != nil {
		return zero, r.abort(ctx, err)
	}

	r.enter(ctx, StatePreActivity)
	if err := runActivities(ctx, r, p.preActivities, input); err != nil {
		return zero, r.abort(ctx, err)
	}

	r.enter(ctx, StateTransform)
	output, err := runTransform(ctx, r, p.transform, input)
	if err != nil {
		return zero, r.abort(ctx, err)
	}

	r.enter(ctx, StatePostCheck)
	if err := runChecks(ctx, r, p.postChecks, output, p.postHandler); err != nil {
		return zero, r.abort(ctx, err)
	}

	r.enter(ctx, StatePostActivity)
	if err := runActivities(ctx, r, p.postActivities, output); err != nil {
		return zero, r.abort(ctx, err)
	}

	r.completed(ctx)
	return output, nil
}

// resolutionFailure is the default ResultHandler.
func (e *engine) resolutionFailure(ctx context.Context, result *CombinedResult) error {
	if result.Successful() {
		return nil
	}
	phase, _ := PhaseFromContext(ctx)
	runID, _ := RunID(ctx)
	return &ResolutionError{
		Pipeline: e.name,
		Phase:    phase,
		RunID:    runID,
		Failures: result.Failed(),
	}
}

func defaultName[I, O any]() string {
	return fmt.Sprintf("%s->%s", reflect.TypeOf((*I)(nil)).Elem().String(), reflect.TypeOf((*O)(nil)).Elem().String())
}
