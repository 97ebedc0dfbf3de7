package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jllopis/resolver/pkg/config"
)

type staticProvider struct {
	entries []Component
	fail    error
}

func (p staticProvider) List(_ context.Context, _ Marker) ([]Component, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	return p.entries, nil
}

type widget struct{ n int }

func names(entries []Component) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestChainListOrderAndDedupe(t *testing.T) {
	chain, err := NewChain(
		staticProvider{entries: []Component{{Name: "alpha"}}},
		nil,
		staticProvider{entries: []Component{{Name: "Alpha"}, {Name: "beta"}, {Name: " "}}},
	)
	if err != nil {
		t.Fatalf("chain: %v", err)
	}
	entries, err := chain.List(context.Background(), "m")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]string{"alpha", "beta"}, names(entries)); diff != "" {
		t.Fatalf("unexpected entries (-want +got):\n%s", diff)
	}
}

func TestChainRequiresProvider(t *testing.T) {
	if _, err := NewChain(nil); err == nil {
		t.Fatal("expected error for empty chain")
	}
}

func TestChainPropagatesProviderError(t *testing.T) {
	boom := errors.New("boom")
	chain, _ := NewChain(staticProvider{fail: boom})
	if _, err := chain.List(context.Background(), "m"); !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestCatalogRegisterAndList(t *testing.T) {
	c := NewCatalog()
	c.Register("pre", "first", Zero[widget]())
	c.Register("pre", "second", func() (any, error) { return &widget{n: 2}, nil })
	c.Register("post", "other", Zero[widget]())

	entries, err := c.List(context.Background(), "pre")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]string{"first", "second"}, names(entries)); diff != "" {
		t.Fatalf("unexpected entries (-want +got):\n%s", diff)
	}
	inst, err := entries[1].New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if w, ok := inst.(*widget); !ok || w.n != 2 {
		t.Fatalf("unexpected instance %#v", inst)
	}
	if diff := cmp.Diff([]Marker{"post", "pre"}, c.Markers()); diff != "" {
		t.Fatalf("unexpected markers (-want +got):\n%s", diff)
	}

	empty, _ := c.List(context.Background(), "missing")
	if len(empty) != 0 {
		t.Fatalf("expected no entries for unknown marker, got %d", len(empty))
	}
}

func TestCatalogRegisterPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(c *Catalog)
	}{
		{name: "empty marker", fn: func(c *Catalog) { c.Register("", "x", Zero[widget]()) }},
		{name: "empty name", fn: func(c *Catalog) { c.Register("m", " ", Zero[widget]()) }},
		{name: "nil factory", fn: func(c *Catalog) { c.Register("m", "x", nil) }},
		{name: "duplicate", fn: func(c *Catalog) {
			c.Register("m", "x", Zero[widget]())
			c.Register("m", "X", Zero[widget]())
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			tc.fn(NewCatalog())
		})
	}
}

func TestComponentWithoutFactory(t *testing.T) {
	if _, err := (Component{Name: "x"}).New(); err == nil {
		t.Fatal("expected error for missing factory")
	}
}

func TestDefaultCatalog(t *testing.T) {
	Default().Clear()
	defer Default().Clear()

	Register("default.marker", "w", Zero[widget]())
	entries, _ := Default().List(context.Background(), "default.marker")
	if len(entries) != 1 || entries[0].Marker != "default.marker" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestManifestProvider(t *testing.T) {
	base := staticProvider{entries: []Component{{Name: "a"}, {Name: "b"}, {Name: "c"}}}
	manifest, err := ParseManifest([]byte(`
markers:
  selected: [c, a, b]
disabled: [b]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := NewManifestProvider(base, manifest)

	selected, err := p.List(context.Background(), "selected")
	if err != nil {
		t.Fatalf("list selected: %v", err)
	}
	if diff := cmp.Diff([]string{"c", "a"}, names(selected)); diff != "" {
		t.Fatalf("selected (-want +got):\n%s", diff)
	}

	other, err := p.List(context.Background(), "other")
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, names(other)); diff != "" {
		t.Fatalf("other (-want +got):\n%s", diff)
	}
}

func TestManifestProviderUnknownComponent(t *testing.T) {
	base := staticProvider{entries: []Component{{Name: "a"}}}
	p := NewManifestProvider(base, &Manifest{Markers: map[Marker][]string{"m": {"missing"}}})
	_, err := p.List(context.Background(), "m")
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected unknown component error, got %v", err)
	}
}

func TestManifestProviderNilManifest(t *testing.T) {
	base := staticProvider{entries: []Component{{Name: "a"}}}
	entries, err := NewManifestProvider(base, nil).List(context.Background(), "m")
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected passthrough, got %v %v", entries, err)
	}
}

func TestParseManifestInvalid(t *testing.T) {
	if _, err := ParseManifest([]byte("markers: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFromConfig(t *testing.T) {
	base := staticProvider{entries: []Component{{Name: "a"}, {Name: "b"}}}

	p, err := FromConfig(config.DiscoveryConfig{}, base)
	if err != nil {
		t.Fatalf("from config: %v", err)
	}
	if _, ok := p.(staticProvider); !ok {
		t.Fatalf("expected base provider to be returned unchanged, got %T", p)
	}

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := os.WriteFile(path, []byte("markers:\n  m: [b, a]\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	p, err = FromConfig(config.DiscoveryConfig{Manifest: path, Disabled: []string{"a"}}, base)
	if err != nil {
		t.Fatalf("from config: %v", err)
	}
	entries, err := p.List(context.Background(), "m")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, names(entries)); diff != "" {
		t.Fatalf("entries (-want +got):\n%s", diff)
	}

	if _, err := FromConfig(config.DiscoveryConfig{Manifest: filepath.Join(t.TempDir(), "nope.yaml")}, base); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
