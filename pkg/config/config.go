// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads resolver settings from defaults, YAML files and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides: RESOLVER_LOG_LEVEL -> log.level.
const EnvPrefix = "RESOLVER_"

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Pipeline  PipelineConfig  `koanf:"pipeline"`
	Discovery DiscoveryConfig `koanf:"discovery"`
	Audit     AuditConfig     `koanf:"audit"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Exporter     string `koanf:"exporter"` // stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
}

type PipelineConfig struct {
	Name string `koanf:"name"`
}

type DiscoveryConfig struct {
	Manifest string        `koanf:"manifest"`
	Disabled []string      `koanf:"disabled"`
	Markers  MarkersConfig `koanf:"markers"`
}

// MarkersConfig names the discovery marker of each slot. Empty disables
// discovery for that slot.
type MarkersConfig struct {
	PreCheck     string `koanf:"pre_check"`
	PostCheck    string `koanf:"post_check"`
	PreActivity  string `koanf:"pre_activity"`
	PostActivity string `koanf:"post_activity"`
}

type AuditConfig struct {
	Enabled bool   `koanf:"enabled"`
	Driver  string `koanf:"driver"` // memory, sqlite
	DSN     string `koanf:"dsn"`
}

func defaults(k *koanf.Koanf) {
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("telemetry.enabled", false)
	k.Set("telemetry.exporter", "stdout")
	k.Set("audit.enabled", false)
	k.Set("audit.driver", "memory")
	k.Set("audit.dsn", "file:resolver_audit?mode=memory&cache=shared")
}

// Load reads configuration from defaults, the optional YAML file at path and
// RESOLVER_ environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	return LoadWithProfile(path, "")
}

// LoadWithProfile is Load plus a profile overlay: with path config.yaml and
// profile dev, config.dev.yaml is merged over the base file when it exists.
func LoadWithProfile(path, profile string) (*Config, error) {
	return load(path, profile, nil)
}

// LoadWithArgs loads configuration from command-line style arguments:
//
//	--config <path>  --profile <name> (alias --env)  --set key=value
//
// --set overrides are applied last.
func LoadWithArgs(args []string) (*Config, error) {
	opts, err := parseArgs(args)
	if err != nil {
		return nil, err
	}
	return load(opts.path, opts.profile, opts.sets)
}

func load(path, profile string, sets map[string]string) (*Config, error) {
	k := koanf.New(".")
	defaults(k)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
		if profile = strings.TrimSpace(profile); profile != "" {
			overlay := profilePath(path, profile)
			if _, err := os.Stat(overlay); err == nil {
				if err := k.Load(file.Provider(overlay), yaml.Parser()); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil); err != nil {
		return nil, err
	}

	for key, value := range sets {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func profilePath(path, profile string) string {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	return filepath.Join(dir, base+"."+profile+ext)
}

type argOptions struct {
	path    string
	profile string
	sets    map[string]string
}

func parseArgs(args []string) (argOptions, error) {
	opts := argOptions{sets: map[string]string{}}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")
		switch name {
		case "--config", "--profile", "--env", "--set":
		default:
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				return opts, fmt.Errorf("missing value for %s", name)
			}
			i++
			value = args[i]
		}
		switch name {
		case "--config":
			opts.path = value
		case "--profile", "--env":
			opts.profile = value
		case "--set":
			key, v, ok := strings.Cut(value, "=")
			if !ok || strings.TrimSpace(key) == "" {
				return opts, fmt.Errorf("invalid --set value %q (want key=value)", value)
			}
			opts.sets[strings.TrimSpace(key)] = v
		}
	}
	return opts, nil
}
