package resolver

import (
	"context"

	"github.com/google/uuid"

	"github.com/jllopis/resolver/pkg/telemetry"
)

// WithRunID attaches a run id to the context. Resolve reuses it instead of
// generating one, which lets callers correlate a resolution with their own
// request ids.
func WithRunID(ctx context.Context, id string) context.Context {
	return telemetry.ContextWithRunID(ctx, id)
}

// RunID returns the run id if present. Loggers built by
// telemetry.ConfigureSlog stamp it on records logged with the context.
func RunID(ctx context.Context) (string, bool) {
	return telemetry.RunIDFromContext(ctx)
}

// EnsureRunID ensures a run id exists in the context.
func EnsureRunID(ctx context.Context) (context.Context, string) {
	if id, ok := RunID(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return WithRunID(ctx, id), id
}

type phaseKey struct{}

func withPhase(ctx context.Context, phase State) context.Context {
	return context.WithValue(ctx, phaseKey{}, phase)
}

// PhaseFromContext returns the phase a ResultHandler is deciding on.
func PhaseFromContext(ctx context.Context) (State, bool) {
	s, ok := ctx.Value(phaseKey{}).(State)
	return s, ok
}
