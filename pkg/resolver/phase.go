// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	rerrors "github.com/jllopis/resolver/pkg/errors"
	"github.com/jllopis/resolver/pkg/telemetry"
)

// run is the per-call state of a Resolve invocation.
type run struct {
	*engine
	id      string
	machine *machine
	logger  *slog.Logger
	span    trace.Span
	start   time.Time
}

func (e *engine) newRun(id string, span trace.Span) *run {
	return &run{
		engine:  e,
		id:      id,
		machine: newMachine(),
		logger: e.logger.With(
			slog.String("pipeline", e.name),
			slog.String(telemetry.LogKeyRunID, id),
		),
		span:  span,
		start: time.Now(),
	}
}

func (r *run) emit(ctx context.Context, ev Event) {
	ev.Pipeline = r.name
	ev.RunID = r.id
	if ev.State == "" {
		ev.State = r.machine.current()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	r.sink.Emit(ctx, ev)
}

func (r *run) started(ctx context.Context) {
	r.logger.DebugContext(ctx, "resolver.resolve.start")
	r.emit(ctx, Event{Type: EventResolveStarted})
}

func (r *run) enter(ctx context.Context, s State) {
	r.machine.advance(s)
	r.logger.DebugContext(ctx, "resolver.phase.enter", slog.String("phase", s.String()))
}

func (r *run) completed(ctx context.Context) {
	r.machine.advance(StateDone)
	elapsed := time.Since(r.start)
	r.span.SetAttributes(attribute.String(telemetry.AttrOutcome, "completed"))
	r.metrics.RecordResolution(ctx, r.name, "completed", elapsed)
	r.logger.DebugContext(ctx, "resolver.resolve.complete", slog.Duration("elapsed", elapsed))
	r.emit(ctx, Event{Type: EventResolveCompleted})
}

// abort moves the run to StateAborted and returns err unchanged.
func (r *run) abort(ctx context.Context, err error) error {
	phase := r.machine.current()
	r.machine.advance(StateAborted)

	r.span.RecordError(err)
	r.span.SetStatus(codes.Error, err.Error())
	r.span.SetAttributes(
		attribute.String(telemetry.AttrOutcome, "aborted"),
		attribute.String(telemetry.AttrPhase, phase.String()),
		attribute.String(telemetry.AttrErrorCode, string(rerrors.CodeOf(err))),
	)
	r.metrics.RecordError(ctx, err, r.name, phase.String())
	r.metrics.RecordResolution(ctx, r.name, "aborted", time.Since(r.start))
	r.logger.WarnContext(ctx, "resolver.resolve.aborted",
		slog.String("phase", phase.String()),
		slog.String("error", err.Error()),
	)
	r.emit(ctx, Event{Type: EventResolveAborted, State: phase, Message: err.Error(), Err: err})
	return err
}

func (r *run) startPhase(ctx context.Context, items int) (context.Context, trace.Span) {
	phase := r.machine.current()
	r.logger.DebugContext(ctx, "resolver.phase.start",
		slog.String("phase", phase.String()),
		slog.Int("items", items),
	)
	r.emit(ctx, Event{Type: EventPhaseStarted})
	return r.tracer.Start(ctx, "Resolver.Phase",
		trace.WithAttributes(telemetry.PhaseAttributes(phase.String(), items)...),
	)
}

func (r *run) phaseCompleted(ctx context.Context, started time.Time) {
	phase := r.machine.current()
	elapsed := time.Since(started)
	r.metrics.RecordPhase(ctx, r.name, phase.String(), elapsed)
	r.logger.DebugContext(ctx, "resolver.phase.complete",
		slog.String("phase", phase.String()),
		slog.Duration("elapsed", elapsed),
	)
	r.emit(ctx, Event{Type: EventPhaseCompleted})
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// runChecks executes every check against value in priority order and hands
// the combined result to handler. It never stops at the first failure.
func runChecks[T any](ctx context.Context, r *run, checks []Check[T], value T, handler ResultHandler) error {
	if len(checks) == 0 {
		return nil
	}
	started := time.Now()
	ctx, span := r.startPhase(ctx, len(checks))
	defer span.End()

	result := NewCombinedResult()
	for _, c := range checks {
		o := executeCheck(ctx, r, c, value)
		result.AddOutcome(o)
		r.reportOutcome(ctx, o)
	}
	failures := len(result.Failed())
	span.SetAttributes(telemetry.PhaseResultAttributes(failures == 0, failures)...)
	r.phaseCompleted(ctx, started)

	if err := handler(withPhase(ctx, r.machine.current()), result); err != nil {
		failSpan(span, err)
		return err
	}
	return nil
}

// executeCheck runs a single check. A panic is converted into a failed
// outcome carrying a CHECK_PANIC cause.
func executeCheck[T any](ctx context.Context, r *run, c Check[T], value T) (o Outcome) {
	o.Contributor = NameOf(c)
	defer func() {
		if rec := recover(); rec != nil {
			o.Result = FailureFromError(newPanicCause(o.Contributor, rec))
		}
	}()
	o.Order = c.Order()
	r.logger.DebugContext(ctx, "resolver.check.execute",
		slog.String("contributor", o.Contributor),
		slog.Int("order", o.Order),
	)
	o.Result = c.Execute(ctx, value)
	return o
}

func (r *run) reportOutcome(ctx context.Context, o Outcome) {
	phase := r.machine.current().String()
	res := o.Result
	r.metrics.RecordCheck(ctx, r.name, phase, o.Contributor, res.Successful())
	r.emit(ctx, Event{Type: EventItemExecuted, Contributor: o.Contributor, Order: o.Order})

	attrs := []any{
		slog.String("phase", phase),
		slog.String("contributor", o.Contributor),
	}
	if msg := res.InformationMessage(); msg != "" {
		r.logger.InfoContext(ctx, "resolver.check.info", append(attrs, slog.String("message", msg))...)
		r.emit(ctx, Event{Type: EventCheckInfo, Contributor: o.Contributor, Order: o.Order, Message: msg})
	}
	if msg := res.WarningMessage(); msg != "" {
		r.logger.WarnContext(ctx, "resolver.check.warning", append(attrs, slog.String("message", msg))...)
		r.emit(ctx, Event{Type: EventCheckWarning, Contributor: o.Contributor, Order: o.Order, Message: msg})
	}
	if !res.Successful() {
		failed := append(attrs, slog.String("message", res.ErrorMessage()))
		if cause := res.Cause(); cause != nil {
			failed = append(failed, slog.String("error", cause.Error()))
		}
		r.logger.ErrorContext(ctx, "resolver.check.failed", failed...)
		r.emit(ctx, Event{
			Type:        EventCheckFailed,
			Contributor: o.Contributor,
			Order:       o.Order,
			Message:     res.ErrorMessage(),
			Err:         res.Cause(),
		})
	}
}

// runActivities performs activities in priority order and stops at the
// first error, which is returned unchanged.
func runActivities[T any](ctx context.Context, r *run, activities []Activity[T], value T) error {
	if len(activities) == 0 {
		return nil
	}
	started := time.Now()
	ctx, span := r.startPhase(ctx, len(activities))
	defer span.End()

	phase := r.machine.current().String()
	for _, a := range activities {
		name, order := NameOf(a), a.Order()
		r.logger.DebugContext(ctx, "resolver.activity.perform",
			slog.String("contributor", name),
			slog.Int("order", order),
		)
		err := a.Perform(ctx, value)
		r.metrics.RecordActivity(ctx, r.name, phase, name, err != nil)
		r.emit(ctx, Event{Type: EventItemExecuted, Contributor: name, Order: order, Err: err})
		if err != nil {
			r.logger.ErrorContext(ctx, "resolver.activity.failed",
				slog.String("phase", phase),
				slog.String("contributor", name),
				slog.String("error", err.Error()),
			)
			span.SetAttributes(telemetry.ActivityAttributes(name, order, true)...)
			failSpan(span, err)
			return err
		}
	}
	r.phaseCompleted(ctx, started)
	return nil
}

func runTransform[I, O any](ctx context.Context, r *run, transform Transform[I, O], input I) (O, error) {
	ctx, span := r.tracer.Start(ctx, "Resolver.Transform")
	defer span.End()

	r.logger.DebugContext(ctx, "resolver.transform.start")
	output, err := transform(ctx, input)
	if err != nil {
		r.logger.ErrorContext(ctx, "resolver.transform.failed", slog.String("error", err.Error()))
		failSpan(span, err)
		var zero O
		return zero, err
	}
	r.emit(ctx, Event{Type: EventItemExecuted, Contributor: "transform"})
	return output, nil
}
