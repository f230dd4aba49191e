package observe

import (
	"encoding/json"
	"testing"

	"github.com/ggoodman/mcp-registry-go/mcp"
	"github.com/ggoodman/mcp-registry-go/registry"
	"github.com/google/go-cmp/cmp"
)

func TestEndToEndEchoTool(t *testing.T) {
	reg := registry.New()
	reg.RegisterTool(mcp.Tool{
		Name:        "echo",
		Description: mcp.String("Echoes input"),
		InputSchema: mcp.ToolInputSchema{Type: "object"},
	}, "echo-handler", true)

	obs := Wrap(reg)
	if _, err := obs.ListTools(0, nil); err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	report := NewReport(obs)
	report.Compute()

	want := []ToolRecord{{
		Name:        "echo",
		Description: mcp.String("Echoes input"),
		InputSchema: mcp.ToolInputSchema{Type: "object"},
	}}
	if diff := cmp.Diff(want, report.Tools()); diff != "" {
		t.Fatalf("tools mismatch (-want +got):\n%s", diff)
	}
	if got := report.TotalCount(); got != 1 {
		t.Fatalf("expected total count 1, got %d", got)
	}
}

func TestTotalCountIsSumOfCategories(t *testing.T) {
	cases := []struct {
		name                                  string
		tools, prompts, resources, templates int
	}{
		{"all empty", 0, 0, 0, 0},
		{"tools only", 3, 0, 0, 0},
		{"prompts and templates", 0, 2, 0, 4},
		{"everything", 1, 2, 3, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := registry.New()
			for i := 0; i < tc.tools; i++ {
				reg.RegisterTool(mcp.Tool{Name: string(rune('a' + i)), InputSchema: objectSchema()}, nil, false)
			}
			for i := 0; i < tc.prompts; i++ {
				reg.RegisterPrompt(mcp.Prompt{Name: string(rune('a' + i))}, nil, nil, false)
			}
			for i := 0; i < tc.resources; i++ {
				reg.RegisterResource(mcp.Resource{URI: "res://" + string(rune('a'+i)), Name: "r"}, nil, false)
			}
			for i := 0; i < tc.templates; i++ {
				reg.RegisterResourceTemplate(mcp.ResourceTemplate{URITemplate: "tmpl" + string(rune('a'+i)) + "://{id}", Name: "t"}, nil, nil, false)
			}

			obs := Wrap(reg)
			_, _ = obs.ListTools(0, nil)
			_, _ = obs.ListPrompts(0, nil)
			_, _ = obs.ListResources(0, nil)
			_, _ = obs.ListResourceTemplates(0, nil)

			report := NewReport(obs)
			sum := len(report.Tools()) + len(report.Prompts()) + len(report.Resources()) + len(report.ResourceTemplates())
			if report.TotalCount() != sum {
				t.Fatalf("TotalCount %d != sum of lengths %d", report.TotalCount(), sum)
			}
			if want := tc.tools + tc.prompts + tc.resources + tc.templates; sum != want {
				t.Fatalf("expected %d records, got %d", want, sum)
			}
		})
	}
}

func TestUnobservedCategoriesAreEmpty(t *testing.T) {
	reg := registry.New()
	reg.RegisterTool(mcp.Tool{Name: "t", InputSchema: objectSchema()}, nil, false)
	obs := Wrap(reg)

	report := NewReport(obs)
	if report.Tools() == nil || report.Prompts() == nil || report.Resources() == nil || report.ResourceTemplates() == nil {
		t.Fatal("accessors must return empty, non-nil sequences")
	}
	if report.TotalCount() != 0 {
		t.Fatalf("nothing was listed, expected 0, got %d", report.TotalCount())
	}

	if NewReport(nil).TotalCount() != 0 {
		t.Fatal("a report without a source is empty")
	}
}

func TestReportIsComputedOnce(t *testing.T) {
	reg := registry.New()
	reg.RegisterTool(mcp.Tool{Name: "a", InputSchema: objectSchema()}, nil, false)
	obs := Wrap(reg)
	_, _ = obs.ListTools(0, nil)

	report := NewReport(obs)
	report.Compute()
	report.Compute()
	if got := report.TotalCount(); got != 1 {
		t.Fatalf("repeated Compute must not double count, got %d", got)
	}

	reg.RegisterTool(mcp.Tool{Name: "b", InputSchema: objectSchema()}, nil, false)
	_, _ = obs.ListTools(0, nil)
	if got := len(report.Tools()); got != 1 {
		t.Fatalf("a computed report is frozen, got %d tools", got)
	}
}

func TestReportIsLazy(t *testing.T) {
	reg := registry.New()
	obs := Wrap(reg)
	report := NewReport(obs)

	// Observations made before the first accessor call are included.
	reg.RegisterTool(mcp.Tool{Name: "late", InputSchema: objectSchema()}, nil, false)
	_, _ = obs.ListTools(0, nil)

	if got := len(report.Tools()); got != 1 {
		t.Fatalf("expected lazily computed report to see 1 tool, got %d", got)
	}
}

func TestPromptArgumentsFlattened(t *testing.T) {
	reg := registry.New()
	reg.RegisterPrompt(mcp.Prompt{
		Name:        "review",
		Description: mcp.String("Review code"),
		Arguments: []mcp.PromptArgument{
			{Name: "code", Description: mcp.String("Source to review"), Required: true},
			{Name: "style"},
		},
	}, nil, nil, false)
	reg.RegisterPrompt(mcp.Prompt{Name: "bare"}, nil, nil, false)

	obs := Wrap(reg)
	_, _ = obs.ListPrompts(0, nil)

	want := []PromptRecord{
		{
			Name:        "review",
			Description: mcp.String("Review code"),
			Arguments: []PromptArgumentRecord{
				{Name: "code", Description: mcp.String("Source to review"), Required: true},
				{Name: "style"},
			},
		},
		{Name: "bare", Arguments: []PromptArgumentRecord{}},
	}
	got := NewReport(obs).Prompts()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if got[1].Arguments == nil {
		t.Fatal("absent arguments must flatten to an empty sequence")
	}
}

func TestResourceRecords(t *testing.T) {
	reg := registry.New()
	reg.RegisterResource(mcp.Resource{URI: "file:///readme", Name: "readme", MimeType: mcp.String("text/markdown")}, nil, false)
	reg.RegisterResourceTemplate(mcp.ResourceTemplate{URITemplate: "users://{id}", Name: "user", Description: mcp.String("A user")}, nil, nil, false)

	obs := Wrap(reg)
	_, _ = obs.ListResources(0, nil)
	_, _ = obs.ListResourceTemplates(0, nil)
	report := NewReport(obs)

	if diff := cmp.Diff([]ResourceRecord{{URI: "file:///readme", Name: "readme", MimeType: mcp.String("text/markdown")}}, report.Resources()); diff != "" {
		t.Fatalf("resources mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ResourceTemplateRecord{{URITemplate: "users://{id}", Name: "user", Description: mcp.String("A user")}}, report.ResourceTemplates()); diff != "" {
		t.Fatalf("templates mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	reg := registry.New()
	reg.RegisterTool(mcp.Tool{Name: "echo", InputSchema: objectSchema()}, nil, false)
	obs := Wrap(reg)
	_, _ = obs.ListTools(0, nil)

	b, err := json.Marshal(NewReport(obs).Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"tools", "prompts", "resources", "resourceTemplates"} {
		if _, ok := got[key].([]any); !ok {
			t.Fatalf("expected %q to be a JSON array in %s", key, b)
		}
	}
	tool := got["tools"].([]any)[0].(map[string]any)
	if _, ok := tool["description"]; !ok || tool["description"] != nil {
		t.Fatalf("absent description must serialize as null: %s", b)
	}
}
