// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry provides logging, tracing and metrics for resolver
// pipelines.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for resolver telemetry.
const (
	// Pipeline attributes
	AttrPipelineName = "resolver.pipeline.name"
	AttrRunID        = "resolver.run_id"
	AttrOutcome      = "resolver.outcome" // completed, aborted

	// Phase attributes
	AttrPhase           = "resolver.phase"
	AttrPhaseItems      = "resolver.phase.items"
	AttrPhaseSuccessful = "resolver.phase.successful"
	AttrPhaseFailures   = "resolver.phase.failures"

	// Contributor attributes
	AttrContributor      = "resolver.contributor.name"
	AttrContributorOrder = "resolver.contributor.order"
	AttrCheckSuccessful  = "resolver.check.successful"
	AttrActivityFailed   = "resolver.activity.failed"

	// Error attributes
	AttrErrorCode = "error.code"
)

// PipelineAttributes returns attributes shared by every span of a run.
func PipelineAttributes(pipeline, runID string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrPipelineName, pipeline),
	}
	if runID != "" {
		attrs = append(attrs, attribute.String(AttrRunID, runID))
	}
	return attrs
}

// PhaseAttributes returns attributes for a phase span.
func PhaseAttributes(phase string, items int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrPhase, phase),
		attribute.Int(AttrPhaseItems, items),
	}
}

// PhaseResultAttributes returns attributes describing a check phase verdict.
func PhaseResultAttributes(successful bool, failures int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Bool(AttrPhaseSuccessful, successful),
	}
	if failures > 0 {
		attrs = append(attrs, attribute.Int(AttrPhaseFailures, failures))
	}
	return attrs
}

// CheckAttributes returns attributes for a single check outcome.
func CheckAttributes(contributor string, order int, successful bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrContributor, contributor),
		attribute.Int(AttrContributorOrder, order),
		attribute.Bool(AttrCheckSuccessful, successful),
	}
}

// ActivityAttributes returns attributes for a single activity execution.
func ActivityAttributes(contributor string, order int, failed bool) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrContributor, contributor),
		attribute.Int(AttrContributorOrder, order),
	}
	if failed {
		attrs = append(attrs, attribute.Bool(AttrActivityFailed, true))
	}
	return attrs
}
