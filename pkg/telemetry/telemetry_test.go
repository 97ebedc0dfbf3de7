package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/jllopis/resolver/pkg/config"
)

func TestInit(t *testing.T) {
	shutdown, err := Init("test-service", "v0.0.1")
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if shutdown == nil {
		t.Fatal("Shutdown function should not be nil")
	}

	if err := shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestInitWithConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown exporter", cfg: Config{Exporter: "zipkin"}},
		{name: "otlp without endpoint", cfg: Config{Exporter: "otlp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := InitWithConfig("test-service", "v0.0.1", tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestInitFromConfigDisabled(t *testing.T) {
	shutdown, err := InitFromConfig("test-service", "v0.0.1", config.TelemetryConfig{Enabled: false, Exporter: "zipkin"})
	if err != nil {
		t.Fatalf("disabled telemetry should not validate the exporter: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestShutdownAllReportsEveryError(t *testing.T) {
	traceErr := errors.New("trace exporter unreachable")
	metricErr := errors.New("metric exporter unreachable")
	calls := make(chan string, 3)

	err := shutdownAll(context.Background(),
		func(context.Context) error { calls <- "trace"; return traceErr },
		func(context.Context) error { calls <- "ok"; return nil },
		func(context.Context) error { calls <- "metric"; return metricErr },
	)
	if !errors.Is(err, traceErr) || !errors.Is(err, metricErr) {
		t.Fatalf("expected both errors, got %v", err)
	}
	if len(calls) != 3 {
		t.Errorf("expected every shutdown to run, got %d", len(calls))
	}

	if err := shutdownAll(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
