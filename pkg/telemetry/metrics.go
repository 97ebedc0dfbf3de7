// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jllopis/resolver/pkg/errors"
)

// MeterName is the instrumentation scope used for resolver metrics.
const MeterName = "resolver/pipeline"

// Metrics records pipeline activity on OTEL instruments.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// resolutions counts Resolve calls by pipeline and outcome
	resolutions metric.Int64Counter

	// resolveDuration tracks end-to-end Resolve latency
	resolveDuration metric.Float64Histogram

	// phaseDuration tracks latency per phase
	phaseDuration metric.Float64Histogram

	// checks counts check outcomes by contributor and verdict
	checks metric.Int64Counter

	// activities counts activity executions by contributor and verdict
	activities metric.Int64Counter

	// errors counts aborted resolutions by error code
	errors metric.Int64Counter
}

// NewMetrics creates the resolver instruments on the global meter provider.
func NewMetrics(ctx context.Context) (*Metrics, error) {
	return NewMetricsWithMeter(otel.Meter(MeterName))
}

// NewMetricsWithMeter creates the resolver instruments on the given meter.
func NewMetricsWithMeter(meter metric.Meter) (*Metrics, error) {
	resolutions, err := meter.Int64Counter(
		"resolver.resolutions.total",
		metric.WithDescription("Resolve calls by pipeline and outcome"),
	)
	if err != nil {
		return nil, err
	}

	resolveDuration, err := meter.Float64Histogram(
		"resolver.resolve.duration",
		metric.WithDescription("Resolve latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	phaseDuration, err := meter.Float64Histogram(
		"resolver.phase.duration",
		metric.WithDescription("Phase latency by pipeline and phase"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	checks, err := meter.Int64Counter(
		"resolver.checks.total",
		metric.WithDescription("Check outcomes by contributor"),
	)
	if err != nil {
		return nil, err
	}

	activities, err := meter.Int64Counter(
		"resolver.activities.total",
		metric.WithDescription("Activity executions by contributor"),
	)
	if err != nil {
		return nil, err
	}

	errorCounter, err := meter.Int64Counter(
		"resolver.errors.total",
		metric.WithDescription("Aborted resolutions by error code and phase"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		resolutions:     resolutions,
		resolveDuration: resolveDuration,
		phaseDuration:   phaseDuration,
		checks:          checks,
		activities:      activities,
		errors:          errorCounter,
	}, nil
}

// RecordResolution records a finished Resolve call.
func (m *Metrics) RecordResolution(ctx context.Context, pipeline, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrPipelineName, pipeline),
		attribute.String(AttrOutcome, outcome),
	)
	m.resolutions.Add(ctx, 1, attrs)
	m.resolveDuration.Record(ctx, milliseconds(elapsed), attrs)
}

// RecordPhase records the latency of a phase.
func (m *Metrics) RecordPhase(ctx context.Context, pipeline, phase string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.Record(ctx, milliseconds(elapsed),
		metric.WithAttributes(
			attribute.String(AttrPipelineName, pipeline),
			attribute.String(AttrPhase, phase),
		),
	)
}

// RecordCheck records a single check outcome.
func (m *Metrics) RecordCheck(ctx context.Context, pipeline, phase, contributor string, successful bool) {
	if m == nil {
		return
	}
	m.checks.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrPipelineName, pipeline),
			attribute.String(AttrPhase, phase),
			attribute.String(AttrContributor, contributor),
			attribute.Bool(AttrCheckSuccessful, successful),
		),
	)
}

// RecordActivity records a single activity execution.
func (m *Metrics) RecordActivity(ctx context.Context, pipeline, phase, contributor string, failed bool) {
	if m == nil {
		return
	}
	m.activities.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrPipelineName, pipeline),
			attribute.String(AttrPhase, phase),
			attribute.String(AttrContributor, contributor),
			attribute.Bool(AttrActivityFailed, failed),
		),
	)
}

// RecordError increments the error counter for an aborted resolution.
func (m *Metrics) RecordError(ctx context.Context, err error, pipeline, phase string) {
	if m == nil || err == nil {
		return
	}
	recoverable := "unknown"
	if e, ok := err.(*errors.Error); ok {
		recoverable = e.RecoverableString()
	}
	m.errors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrErrorCode, string(errors.CodeOf(err))),
			attribute.String(AttrPipelineName, pipeline),
			attribute.String(AttrPhase, phase),
			attribute.String("recoverable", recoverable),
		),
	)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
