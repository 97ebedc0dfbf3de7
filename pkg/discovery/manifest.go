// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest selects which discovered components are used.
//
//	markers:
//	  orders.pre-check: [has-lines, currency-known]
//	disabled: [legacy-audit]
//
// A marker listed under markers yields exactly the named components, in the
// listed order. Other markers yield everything the base provider reports,
// minus disabled names.
type Manifest struct {
	Markers  map[Marker][]string `yaml:"markers"`
	Disabled []string            `yaml:"disabled"`
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse discovery manifest: %w", err)
	}
	return &m, nil
}

// LoadManifest reads a YAML manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read discovery manifest: %w", err)
	}
	return ParseManifest(data)
}

// ManifestProvider filters a base provider through a manifest.
type ManifestProvider struct {
	Base     Provider
	Manifest *Manifest
}

// NewManifestProvider wraps base with manifest. A nil manifest passes
// everything through.
func NewManifestProvider(base Provider, manifest *Manifest) *ManifestProvider {
	return &ManifestProvider{Base: base, Manifest: manifest}
}

// List implements Provider. A name selected by the manifest but unknown to
// the base provider is an error.
func (p *ManifestProvider) List(ctx context.Context, marker Marker) ([]Component, error) {
	if p == nil || p.Base == nil {
		return nil, nil
	}
	entries, err := p.Base.List(ctx, marker)
	if err != nil {
		return nil, err
	}
	if p.Manifest == nil {
		return entries, nil
	}
	disabled := make(map[string]struct{}, len(p.Manifest.Disabled))
	for _, name := range p.Manifest.Disabled {
		disabled[normalizeKey(name)] = struct{}{}
	}

	selected, ok := p.Manifest.Markers[marker]
	if !ok {
		out := make([]Component, 0, len(entries))
		for _, entry := range entries {
			if _, off := disabled[normalizeKey(entry.Name)]; off {
				continue
			}
			out = append(out, entry)
		}
		return out, nil
	}

	byName := make(map[string]Component, len(entries))
	for _, entry := range entries {
		byName[normalizeKey(entry.Name)] = entry
	}
	out := make([]Component, 0, len(selected))
	for _, name := range selected {
		key := normalizeKey(name)
		if _, off := disabled[key]; off {
			continue
		}
		entry, found := byName[key]
		if !found {
			return nil, fmt.Errorf("manifest selects unknown component %q under %q (known: %s)", name, marker, knownNames(entries))
		}
		out = append(out, entry)
	}
	return out, nil
}

func knownNames(entries []Component) string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return "[" + strings.Join(names, ", ") + "]"
}
