package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Telemetry.Exporter != "stdout" {
		t.Errorf("expected default exporter stdout, got %s", cfg.Telemetry.Exporter)
	}
	if cfg.Audit.Driver != "memory" {
		t.Errorf("expected default audit driver memory, got %s", cfg.Audit.Driver)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("RESOLVER_LOG_LEVEL", "debug")
	t.Setenv("RESOLVER_TELEMETRY_OTLP_ENDPOINT", "collector:4317")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level from env, got %s", cfg.Log.Level)
	}
	if cfg.Telemetry.OTLPEndpoint != "collector:4317" {
		t.Errorf("expected otlp endpoint from env, got %s", cfg.Telemetry.OTLPEndpoint)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
pipeline:
  name: "orders"
discovery:
  manifest: "plugins.yaml"
  disabled: ["legacy"]
  markers:
    pre_check: "orders.pre-check"
    post_activity: "orders.post-activity"
audit:
  enabled: true
  driver: "sqlite"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Pipeline.Name != "orders" {
		t.Errorf("unexpected pipeline config: %+v", cfg.Pipeline)
	}
	if cfg.Discovery.Markers.PreCheck != "orders.pre-check" {
		t.Errorf("unexpected pre-check marker %q", cfg.Discovery.Markers.PreCheck)
	}
	if cfg.Discovery.Markers.PostCheck != "" {
		t.Errorf("expected empty post-check marker, got %q", cfg.Discovery.Markers.PostCheck)
	}
	if cfg.Discovery.Markers.PostActivity != "orders.post-activity" {
		t.Errorf("unexpected post-activity marker %q", cfg.Discovery.Markers.PostActivity)
	}
	if len(cfg.Discovery.Disabled) != 1 || cfg.Discovery.Disabled[0] != "legacy" {
		t.Errorf("unexpected disabled list %v", cfg.Discovery.Disabled)
	}
	if !cfg.Audit.Enabled || cfg.Audit.Driver != "sqlite" {
		t.Errorf("unexpected audit config %+v", cfg.Audit)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level to survive, got %s", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadWithProfile(t *testing.T) {
	tmpDir := t.TempDir()
	basePath := filepath.Join(tmpDir, "config.yaml")
	writeFile(t, basePath, `
pipeline:
  name: "orders"
log:
  level: "info"
`)
	writeFile(t, filepath.Join(tmpDir, "config.dev.yaml"), `
log:
  level: "debug"
`)
	writeFile(t, filepath.Join(tmpDir, "config.prod.yaml"), `
log:
  level: "warn"
  format: "json"
`)

	tests := []struct {
		name       string
		profile    string
		wantLevel  string
		wantFormat string
	}{
		{name: "no profile - base only", profile: "", wantLevel: "info", wantFormat: "text"},
		{name: "dev profile", profile: "dev", wantLevel: "debug", wantFormat: "text"},
		{name: "prod profile", profile: "prod", wantLevel: "warn", wantFormat: "json"},
		{name: "nonexistent profile - falls back to base", profile: "staging", wantLevel: "info", wantFormat: "text"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadWithProfile(basePath, tc.profile)
			if err != nil {
				t.Fatalf("LoadWithProfile failed: %v", err)
			}
			if cfg.Log.Level != tc.wantLevel {
				t.Errorf("log level: got %s, want %s", cfg.Log.Level, tc.wantLevel)
			}
			if cfg.Log.Format != tc.wantFormat {
				t.Errorf("log format: got %s, want %s", cfg.Log.Format, tc.wantFormat)
			}
			if cfg.Pipeline.Name != "orders" {
				t.Errorf("pipeline name should be inherited, got %s", cfg.Pipeline.Name)
			}
		})
	}
}

func TestLoadWithArgs(t *testing.T) {
	tmpDir := t.TempDir()
	basePath := filepath.Join(tmpDir, "config.yaml")
	writeFile(t, basePath, "pipeline:\n  name: \"orders\"\n")
	writeFile(t, filepath.Join(tmpDir, "config.dev.yaml"), "log:\n  level: \"debug\"\n")
	t.Setenv("RESOLVER_PIPELINE_NAME", "from-env")

	tests := []struct {
		name       string
		args       []string
		wantName   string
		wantLevel  string
		wantDriver string
	}{
		{
			name:       "config only",
			args:       []string{"--config", basePath},
			wantName:   "from-env",
			wantLevel:  "info",
			wantDriver: "memory",
		},
		{
			name:       "profile and set",
			args:       []string{"--config", basePath, "--profile", "dev", "--set", "pipeline.name=from-set"},
			wantName:   "from-set",
			wantLevel:  "debug",
			wantDriver: "memory",
		},
		{
			name:       "equals forms",
			args:       []string{"--config=" + basePath, "--env=dev", "--set=audit.driver=sqlite"},
			wantName:   "from-env",
			wantLevel:  "debug",
			wantDriver: "sqlite",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadWithArgs(tc.args)
			if err != nil {
				t.Fatalf("LoadWithArgs failed: %v", err)
			}
			if cfg.Pipeline.Name != tc.wantName {
				t.Errorf("name: got %s, want %s", cfg.Pipeline.Name, tc.wantName)
			}
			if cfg.Log.Level != tc.wantLevel {
				t.Errorf("level: got %s, want %s", cfg.Log.Level, tc.wantLevel)
			}
			if cfg.Audit.Driver != tc.wantDriver {
				t.Errorf("audit driver: got %s, want %s", cfg.Audit.Driver, tc.wantDriver)
			}
		})
	}
}

func TestParseArgsErrors(t *testing.T) {
	if _, err := parseArgs([]string{"--config"}); err == nil {
		t.Fatalf("expected error for missing --config value")
	}
	if _, err := parseArgs([]string{"--set"}); err == nil {
		t.Fatalf("expected error for missing --set value")
	}
	if _, err := parseArgs([]string{"--set", "invalid"}); err == nil {
		t.Fatalf("expected error for invalid --set value")
	}
}
