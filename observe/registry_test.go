package observe

import (
	"errors"
	"sync"
	"testing"

	"github.com/ggoodman/mcp-registry-go/mcp"
	"github.com/ggoodman/mcp-registry-go/registry"
	"github.com/google/go-cmp/cmp"
)

func objectSchema() mcp.ToolInputSchema { return mcp.ToolInputSchema{Type: "object"} }

func TestForwardsUnchanged(t *testing.T) {
	inner := registry.New()
	obs := Wrap(inner)

	obs.RegisterTool(mcp.Tool{Name: "echo", InputSchema: objectSchema()}, "h", true)
	obs.RegisterPrompt(mcp.Prompt{Name: "greet"}, "p", nil, false)
	obs.RegisterResource(mcp.Resource{URI: "res://a", Name: "a"}, "r", false)
	obs.RegisterResourceTemplate(mcp.ResourceTemplate{URITemplate: "res://{id}", Name: "t"}, "rt", nil, false)

	if !inner.HasTools() || !inner.HasPrompts() || !inner.HasResources() || !inner.HasResourceTemplates() {
		t.Fatal("registrations must reach the wrapped registry")
	}
	if obs.HasTools() != inner.HasTools() || obs.HasPrompts() != inner.HasPrompts() ||
		obs.HasResources() != inner.HasResources() || obs.HasResourceTemplates() != inner.HasResourceTemplates() {
		t.Fatal("Has* must match the wrapped registry")
	}

	want, _ := inner.GetTool("echo")
	got, err := obs.GetTool("echo")
	if err != nil || got != want {
		t.Fatalf("GetTool: want %p, got %p (%v)", want, got, err)
	}
	if p, err := obs.GetPrompt("greet"); err != nil || p.Handler != "p" {
		t.Fatalf("GetPrompt: %+v, %v", p, err)
	}
	if rt, err := obs.GetResourceTemplate("res://{id}"); err != nil || rt.Handler != "rt" {
		t.Fatalf("GetResourceTemplate: %+v, %v", rt, err)
	}
	target, err := obs.GetResource("res://b", true)
	if err != nil {
		t.Fatalf("GetResource: %v", err)
	}
	if _, ok := target.(*registry.ResourceTemplateReference); !ok {
		t.Fatalf("expected template match, got %T", target)
	}

	state := registry.DiscoveryState{Source: "caps.yaml"}
	obs.SetDiscoveryState(state)
	if inner.DiscoveryState().Source != "caps.yaml" || obs.DiscoveryState().Source != "caps.yaml" {
		t.Fatal("discovery state must be forwarded")
	}

	obs.Clear()
	if inner.HasTools() || !inner.DiscoveryState().IsZero() {
		t.Fatal("Clear must be forwarded")
	}
	if obs.Unwrap() != registry.Registry(inner) {
		t.Fatal("Unwrap must return the wrapped registry")
	}
}

func TestErrorsPropagateUnchanged(t *testing.T) {
	obs := Wrap(registry.New())

	if _, err := obs.GetTool("missing"); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := obs.GetResource("missing://x", true); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	bad := "not-a-cursor!"
	if _, err := obs.ListTools(1, &bad); !errors.Is(err, registry.ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
	if _, err := obs.ListPrompts(1, &bad); !errors.Is(err, registry.ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
	if _, err := obs.ListResources(1, &bad); !errors.Is(err, registry.ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
	if _, err := obs.ListResourceTemplates(1, &bad); !errors.Is(err, registry.ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
	o := obs.Observed()
	if o.Tools != nil || o.Prompts != nil || o.Resources != nil || o.ResourceTemplates != nil {
		t.Fatalf("failed list calls must not be observed: %+v", o)
	}
}

func TestFailedListKeepsPreviousObservation(t *testing.T) {
	obs := Wrap(registry.New())
	obs.RegisterTool(mcp.Tool{Name: "a", InputSchema: objectSchema()}, nil, false)
	if _, err := obs.ListTools(0, nil); err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	bad := "garbage"
	_, _ = obs.ListTools(1, &bad)
	if got := len(obs.Observed().Tools); got != 1 {
		t.Fatalf("expected previous observation to survive a failed call, got %d items", got)
	}
}

func TestPageReturnedUnmodified(t *testing.T) {
	inner := registry.New()
	for _, n := range []string{"a", "b", "c"} {
		inner.RegisterTool(mcp.Tool{Name: n, InputSchema: objectSchema()}, nil, false)
	}
	obs := Wrap(inner)

	want, err := inner.ListTools(2, nil)
	if err != nil {
		t.Fatalf("inner ListTools: %v", err)
	}
	got, err := obs.ListTools(2, nil)
	if err != nil {
		t.Fatalf("observed ListTools: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("page mismatch (-want +got):\n%s", diff)
	}
}

func TestOnlyLatestListIsRetained(t *testing.T) {
	inner := registry.New()
	obs := Wrap(inner)

	inner.RegisterTool(mcp.Tool{Name: "first", InputSchema: objectSchema()}, nil, false)
	if _, err := obs.ListTools(0, nil); err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	inner.Clear()
	inner.RegisterTool(mcp.Tool{Name: "second", InputSchema: objectSchema()}, nil, false)
	if _, err := obs.ListTools(0, nil); err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	report := NewReport(obs)
	var names []string
	for _, r := range report.Tools() {
		names = append(names, r.Name)
	}
	if diff := cmp.Diff([]string{"second"}, names); diff != "" {
		t.Fatalf("report must reflect only the latest call (-want +got):\n%s", diff)
	}
}

func TestObservationIsolatedFromPageMutation(t *testing.T) {
	inner := registry.New()
	inner.RegisterTool(mcp.Tool{Name: "a", InputSchema: objectSchema()}, nil, false)
	obs := Wrap(inner)

	page, err := obs.ListTools(0, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	page.Items[0] = nil
	if obs.Observed().Tools[0] == nil {
		t.Fatal("caller mutation of the page must not reach the observation log")
	}
}

func TestCaptureFailureIsContained(t *testing.T) {
	inner := registry.New()
	inner.RegisterTool(mcp.Tool{Name: "a", InputSchema: objectSchema()}, nil, false)
	inner.RegisterPrompt(mcp.Prompt{Name: "p"}, nil, nil, false)
	obs := Wrap(inner)

	if _, err := obs.ListTools(0, nil); err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	obs.onCapture = func(kind registry.Kind) {
		if kind == registry.KindTool {
			panic("boom")
		}
	}

	page, err := obs.ListTools(0, nil)
	if err != nil {
		t.Fatalf("capture failure must not fail the call: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected the wrapped page, got %d items", len(page.Items))
	}
	if obs.Observed().Tools != nil {
		t.Fatal("failed capture must leave the category unset")
	}

	if _, err := obs.ListPrompts(0, nil); err != nil {
		t.Fatalf("ListPrompts: %v", err)
	}
	if len(obs.Observed().Prompts) != 1 {
		t.Fatal("other categories keep capturing")
	}
}

func TestConcurrentListsDoNotRace(t *testing.T) {
	inner := registry.New()
	inner.RegisterTool(mcp.Tool{Name: "a", InputSchema: objectSchema()}, nil, false)
	inner.RegisterResource(mcp.Resource{URI: "res://a", Name: "a"}, nil, false)
	obs := Wrap(inner)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = obs.ListTools(0, nil)
		}()
		go func() {
			defer wg.Done()
			_, _ = obs.ListResources(0, nil)
		}()
	}
	wg.Wait()

	o := obs.Observed()
	if len(o.Tools) != 1 || len(o.Resources) != 1 {
		t.Fatalf("unexpected observation after concurrent lists: %+v", o)
	}
}
