package resolver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jllopis/resolver/pkg/config"
	"github.com/jllopis/resolver/pkg/discovery"
	rerrors "github.com/jllopis/resolver/pkg/errors"
	"github.com/jllopis/resolver/pkg/resolver"
	rt "github.com/jllopis/resolver/pkg/resolvertest"
)

const (
	markerPreCheck     discovery.Marker = "invoicing.pre-check"
	markerPostCheck    discovery.Marker = "invoicing.post-check"
	markerPostActivity discovery.Marker = "invoicing.post-activity"
)

var markers = resolver.Markers{
	PreCheck:     markerPreCheck,
	PostCheck:    markerPostCheck,
	PostActivity: markerPostActivity,
}

type hasItems struct {
	resolver.Priority
	marker int
}

func (*hasItems) Execute(_ context.Context, o order) resolver.CheckResult {
	if o.Items == 0 {
		return resolver.Failure("order has no items")
	}
	return resolver.Success()
}

type hasID struct {
	resolver.Priority
	marker int
}

func (*hasID) Execute(_ context.Context, o order) resolver.CheckResult {
	if o.ID == "" {
		return resolver.Failure("order has no id")
	}
	return resolver.Success()
}

type positiveTotal struct {
	resolver.Priority
	marker int
}

func (*positiveTotal) Execute(_ context.Context, inv invoice) resolver.CheckResult {
	if inv.Total <= 0 {
		return resolver.Failure("total must be positive")
	}
	return resolver.Success()
}

type notifier struct {
	resolver.Priority
	sent []string
}

func (n *notifier) Perform(_ context.Context, inv invoice) error {
	n.sent = append(n.sent, inv.OrderID)
	return nil
}

func newCatalog(t *testing.T) (*discovery.Catalog, *notifier) {
	t.Helper()
	n := &notifier{}
	c := discovery.NewCatalog()
	c.Register(markerPreCheck, "has-items", discovery.Zero[hasItems]())
	c.Register(markerPreCheck, "has-id", discovery.Zero[hasID]())
	c.Register(markerPostCheck, "positive-total", discovery.Zero[positiveTotal]())
	c.Register(markerPostActivity, "notifier", func() (any, error) { return n, nil })
	return c, n
}

func TestDiscoveryRegistersComponents(t *testing.T) {
	catalog, n := newCatalog(t)
	explicit := rt.PassingCheck[order]("explicit", 0, nil)
	reg := resolver.NewRegistry[order, invoice]().WithPreCheck(explicit)

	p, err := resolver.New(rt.NewTransform(invoiceFor, nil).Func(), reg,
		resolver.WithDiscovery(catalog, markers))
	rt.RequireNoError(t, err, "new pipeline")

	want := resolver.Stats{PreChecks: 3, PostChecks: 1, PostActivities: 1}
	if diff := cmp.Diff(want, p.Stats()); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if reg.Stats().PreChecks != 1 {
		t.Error("discovery must not modify the caller's registry")
	}

	_, err = p.Resolve(context.Background(), order{})
	rerr := rt.RequireResolutionError(t, err)
	if diff := cmp.Diff([]string{"hasItems", "hasID"}, rerr.Contributors()); diff != "" {
		t.Errorf("contributors mismatch (-want +got):\n%s", diff)
	}

	if _, err := p.Resolve(context.Background(), order{ID: "o-7", Items: 2}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff([]string{"o-7"}, n.sent); diff != "" {
		t.Errorf("notifier mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoveryEmptyMarkerSkipsSlot(t *testing.T) {
	calls := 0
	provider := discovery.ProviderFunc(func(_ context.Context, _ discovery.Marker) ([]discovery.Component, error) {
		calls++
		return nil, nil
	})
	p, err := resolver.New(rt.NewTransform(invoiceFor, nil).Func(), nil,
		resolver.WithDiscovery(provider, resolver.Markers{PreCheck: markerPreCheck}))
	rt.RequireNoError(t, err, "new pipeline")
	if calls != 1 {
		t.Errorf("expected one provider query, got %d", calls)
	}
	if p.Stats() != (resolver.Stats{}) {
		t.Errorf("unexpected stats %+v", p.Stats())
	}
}

func TestDiscoveryFaults(t *testing.T) {
	factoryErr := errors.New("missing credentials")
	tests := []struct {
		name      string
		provider  discovery.Provider
		component string
		cause     error
	}{
		{
			name: "factory error",
			provider: components(discovery.Component{Name: "broken", Factory: func() (any, error) {
				return nil, factoryErr
			}}),
			component: "broken",
			cause:     factoryErr,
		},
		{
			name: "nil instance",
			provider: components(discovery.Component{Name: "empty", Factory: func() (any, error) {
				return (*hasItems)(nil), nil
			}}),
			component: "empty",
		},
		{
			name:      "wrong capability",
			provider:  components(discovery.Component{Name: "total", Factory: discovery.Zero[positiveTotal]()}),
			component: "total",
		},
		{
			name:      "missing factory",
			provider:  components(discovery.Component{Name: "bare"}),
			component: "bare",
		},
		{
			name: "provider error",
			provider: discovery.ProviderFunc(func(context.Context, discovery.Marker) ([]discovery.Component, error) {
				return nil, factoryErr
			}),
			cause: factoryErr,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := resolver.New(rt.NewTransform(invoiceFor, nil).Func(), nil,
				resolver.WithDiscovery(tt.provider, resolver.Markers{PreCheck: markerPreCheck}))
			if p != nil {
				t.Fatal("no pipeline should be returned on a discovery fault")
			}
			e := rerrors.As(err)
			if e == nil || e.Code != rerrors.CodeDiscovery {
				t.Fatalf("expected DISCOVERY_FAULT, got %v", err)
			}
			if e.Context["marker"] != string(markerPreCheck) || e.Context["slot"] != string(resolver.SlotPreCheck) {
				t.Errorf("unexpected context %v", e.Context)
			}
			if tt.component != "" && e.Context["component"] != tt.component {
				t.Errorf("expected component %q in context, got %v", tt.component, e.Context["component"])
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("expected cause %v to be wrapped", tt.cause)
			}
		})
	}
}

func components(cs ...discovery.Component) discovery.Provider {
	return discovery.ProviderFunc(func(context.Context, discovery.Marker) ([]discovery.Component, error) {
		return cs, nil
	})
}

func TestOptionsFromConfig(t *testing.T) {
	catalog, _ := newCatalog(t)
	cfg := &config.Config{
		Pipeline: config.PipelineConfig{Name: "invoicing"},
		Discovery: config.DiscoveryConfig{
			Disabled: []string{"has-id"},
			Markers: config.MarkersConfig{
				PreCheck:  string(markerPreCheck),
				PostCheck: string(markerPostCheck),
			},
		},
	}

	p, err := resolver.New(rt.NewTransform(invoiceFor, nil).Func(), nil, resolver.OptionsFromConfig(cfg, catalog)...)
	rt.RequireNoError(t, err, "new pipeline")
	if p.Name() != "invoicing" {
		t.Errorf("unexpected name %q", p.Name())
	}
	want := resolver.Stats{PreChecks: 1, PostChecks: 1}
	if diff := cmp.Diff(want, p.Stats()); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsFromConfigManifest(t *testing.T) {
	catalog, _ := newCatalog(t)
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	manifest := "markers:\n  invoicing.pre-check:\n    - has-id\n"
	if err := os.WriteFile(path, []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Discovery: config.DiscoveryConfig{
		Manifest: path,
		Markers:  config.MarkersConfig{PreCheck: string(markerPreCheck)},
	}}

	p, err := resolver.New(rt.NewTransform(invoiceFor, nil).Func(), nil, resolver.OptionsFromConfig(cfg, catalog)...)
	rt.RequireNoError(t, err, "new pipeline")
	_, err = p.Resolve(context.Background(), order{Items: 1})
	rerr := rt.RequireResolutionError(t, err)
	if diff := cmp.Diff([]string{"hasID"}, rerr.Contributors()); diff != "" {
		t.Errorf("contributors mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsFromConfigErrors(t *testing.T) {
	cfg := &config.Config{Discovery: config.DiscoveryConfig{Manifest: filepath.Join(t.TempDir(), "missing.yaml")}}
	_, err := resolver.New(rt.NewTransform(invoiceFor, nil).Func(), nil, resolver.OptionsFromConfig(cfg, discovery.NewCatalog())...)
	if err == nil {
		t.Fatal("expected missing manifest to fail New")
	}
	if resolver.OptionsFromConfig(nil, nil) != nil {
		t.Error("nil config should produce no options")
	}
}
