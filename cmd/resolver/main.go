// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/jllopis/resolver/pkg/audit"
	"github.com/jllopis/resolver/pkg/config"
	"github.com/jllopis/resolver/pkg/discovery"
)

var version = "dev"

type globalFlags struct {
	ConfigArgs []string
	Timeout    time.Duration
	JSON       bool
	Help       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global, args, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		fatal(NewInvalidArgumentError("flags", err.Error()), global.JSON)
	}
	if global.Help || len(args) == 0 {
		printUsage(os.Stdout)
		return
	}

	cfg, err := config.LoadWithArgs(global.ConfigArgs)
	if err != nil {
		fatal(NewConfigError(err, configPath(global.ConfigArgs)), global.JSON)
	}

	switch args[0] {
	case "config":
		err = runConfig(os.Stdout, global, cfg, args[1:])
	case "audit":
		err = runAudit(ctx, os.Stdout, global, cfg, args[1:])
	case "manifest":
		err = runManifest(os.Stdout, global, args[1:])
	case "version":
		fmt.Printf("resolver %s\n", version)
	case "help":
		printUsage(os.Stdout)
	default:
		err = NewInvalidArgumentError(args[0], fmt.Sprintf("unknown command %q", args[0]))
	}
	if err != nil {
		fatal(err, global.JSON)
	}
}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	flags := globalFlags{Timeout: 30 * time.Second}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return flags, args[i+1:], nil
		}
		if !strings.HasPrefix(arg, "-") {
			return flags, args[i:], nil
		}
		switch {
		case arg == "-h" || arg == "--help":
			flags.Help = true
			return flags, nil, nil
		case arg == "--json":
			flags.JSON = true
		case arg == "--config" || arg == "--set" || arg == "--profile" || arg == "--env":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for %s", arg)
			}
			flags.ConfigArgs = append(flags.ConfigArgs, arg, args[i+1])
			i++
		case strings.HasPrefix(arg, "--config="), strings.HasPrefix(arg, "--set="),
			strings.HasPrefix(arg, "--profile="), strings.HasPrefix(arg, "--env="):
			flags.ConfigArgs = append(flags.ConfigArgs, arg)
		case arg == "--timeout":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --timeout")
			}
			value, err := time.ParseDuration(args[i+1])
			if err != nil {
				return flags, nil, fmt.Errorf("invalid --timeout: %w", err)
			}
			flags.Timeout = value
			i++
		case strings.HasPrefix(arg, "--timeout="):
			value, err := time.ParseDuration(strings.TrimPrefix(arg, "--timeout="))
			if err != nil {
				return flags, nil, fmt.Errorf("invalid --timeout: %w", err)
			}
			flags.Timeout = value
		default:
			return flags, nil, fmt.Errorf("unknown global flag %q", arg)
		}
	}
	return flags, nil, nil
}

func configPath(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
	}
	return ""
}

func runConfig(w io.Writer, flags globalFlags, cfg *config.Config, args []string) error {
	if len(args) == 0 || args[0] != "show" {
		return NewInvalidArgumentError("config", "usage: resolver config show")
	}
	if flags.JSON {
		return writeJSON(w, cfg)
	}
	tw := newTabWriter(w)
	writeRow(tw, "log.level", cfg.Log.Level)
	writeRow(tw, "log.format", cfg.Log.Format)
	writeRow(tw, "telemetry.enabled", fmt.Sprint(cfg.Telemetry.Enabled))
	writeRow(tw, "telemetry.exporter", cfg.Telemetry.Exporter)
	writeRow(tw, "pipeline.name", cfg.Pipeline.Name)
	writeRow(tw, "discovery.manifest", cfg.Discovery.Manifest)
	writeRow(tw, "discovery.disabled", strings.Join(cfg.Discovery.Disabled, ","))
	writeRow(tw, "discovery.markers.pre_check", cfg.Discovery.Markers.PreCheck)
	writeRow(tw, "discovery.markers.post_check", cfg.Discovery.Markers.PostCheck)
	writeRow(tw, "discovery.markers.pre_activity", cfg.Discovery.Markers.PreActivity)
	writeRow(tw, "discovery.markers.post_activity", cfg.Discovery.Markers.PostActivity)
	writeRow(tw, "audit.enabled", fmt.Sprint(cfg.Audit.Enabled))
	writeRow(tw, "audit.driver", cfg.Audit.Driver)
	return tw.Flush()
}

func runAudit(ctx context.Context, w io.Writer, flags globalFlags, cfg *config.Config, args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return NewInvalidArgumentError("audit", "usage: resolver audit list [--pipeline name] [--run id] [--type event] [--limit n]")
	}
	cmd := flag.NewFlagSet("audit list", flag.ContinueOnError)
	cmd.SetOutput(io.Discard)
	var filter audit.Filter
	cmd.StringVar(&filter.Pipeline, "pipeline", "", "pipeline name")
	cmd.StringVar(&filter.RunID, "run", "", "run id")
	cmd.StringVar(&filter.Type, "type", "", "event type")
	cmd.IntVar(&filter.Limit, "limit", 100, "maximum number of records")
	if err := cmd.Parse(args[1:]); err != nil {
		return NewInvalidArgumentError("audit list", err.Error())
	}

	store, closeStore, err := audit.Open(cfg.Audit)
	if err != nil {
		return NewStoreError(err, cfg.Audit.Driver)
	}
	defer func() { _ = closeStore() }()

	ctx, cancel := context.WithTimeout(ctx, flags.Timeout)
	defer cancel()
	records, err := store.List(ctx, filter)
	if err != nil {
		return NewStoreError(err, cfg.Audit.Driver)
	}
	return printRecords(w, records, flags.JSON)
}

func printRecords(w io.Writer, records []audit.Record, asJSON bool) error {
	if asJSON {
		for _, r := range records {
			if err := writeJSONLine(w, r); err != nil {
				return err
			}
		}
		return nil
	}
	tw := newTabWriter(w)
	writeRow(tw, "TIME", "PIPELINE", "RUN", "EVENT", "STATE", "CONTRIBUTOR", "MESSAGE")
	for _, r := range records {
		writeRow(tw,
			formatTime(r.Timestamp),
			r.Pipeline,
			r.RunID,
			r.Type,
			r.State,
			r.Contributor,
			truncateMessage(r.Message, 60),
		)
	}
	return tw.Flush()
}

func runManifest(w io.Writer, flags globalFlags, args []string) error {
	if len(args) != 2 || args[0] != "check" {
		return NewInvalidArgumentError("manifest", "usage: resolver manifest check <path>")
	}
	m, err := discovery.LoadManifest(args[1])
	if err != nil {
		return NewConfigError(err, args[1])
	}
	if flags.JSON {
		return writeJSON(w, m)
	}
	tw := newTabWriter(w)
	writeRow(tw, "MARKER", "COMPONENTS")
	for _, marker := range sortedMarkers(m) {
		writeRow(tw, string(marker), strings.Join(m.Markers[marker], ", "))
	}
	if len(m.Disabled) > 0 {
		writeRow(tw, "(disabled)", strings.Join(m.Disabled, ", "))
	}
	return tw.Flush()
}

func sortedMarkers(m *discovery.Manifest) []discovery.Marker {
	out := make([]discovery.Marker, 0, len(m.Markers))
	for marker := range m.Markers {
		out = append(out, marker)
	}
	slices.Sort(out)
	return out
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func writeJSONLine(w io.Writer, value any) error {
	return json.NewEncoder(w).Encode(value)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeRow(w *tabwriter.Writer, cols ...string) {
	for i, col := range cols {
		cols[i] = normalizeCell(col)
	}
	fmt.Fprintln(w, strings.Join(cols, "\t"))
}

func normalizeCell(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return strings.ReplaceAll(value, "\n", " ")
}

func truncateMessage(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	if limit <= 3 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `resolver - inspect resolver pipelines

Usage:
  resolver [global flags] <command> [args]

Commands:
  config show                 Print the effective configuration
  audit list [flags]          List audit records (--pipeline, --run, --type, --limit)
  manifest check <path>       Validate a discovery manifest
  version                     Print the CLI version

Global flags:
  --config <path>             Configuration file
  --profile <name>            Configuration profile overlay
  --set key=value             Override a configuration key (repeatable)
  --timeout <duration>        Timeout for store queries (default 30s)
  --json                      Machine-readable output
`)
}

func fatal(err error, asJSON bool) {
	if cliErr, ok := err.(*CLIError); ok {
		cliErr.PrintError(asJSON)
	} else {
		PrintSimpleError(err, asJSON)
	}
	os.Exit(1)
}
