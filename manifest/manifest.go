package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ggoodman/mcp-registry-go/mcp"
	"github.com/ggoodman/mcp-registry-go/registry"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/yosida95/uritemplate/v3"
	"gopkg.in/yaml.v3"
)

// ErrInvalidManifest wraps every validation failure reported by Parse.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest is a declarative list of capabilities to register. It is decoded
// from YAML; JSON documents are accepted as well.
type Manifest struct {
	Tools             []ToolEntry             `yaml:"tools"`
	Prompts           []PromptEntry           `yaml:"prompts"`
	Resources         []ResourceEntry         `yaml:"resources"`
	ResourceTemplates []ResourceTemplateEntry `yaml:"resourceTemplates"`
}

// ToolEntry is a tool descriptor plus the identifier of its handler.
type ToolEntry struct {
	mcp.Tool `yaml:",inline"`
	Handler  string `yaml:"handler"`

	// rawSchema is inputSchema as written, including keywords that
	// mcp.ToolInputSchema does not model.
	rawSchema map[string]any
}

// UnmarshalYAML decodes the entry and keeps its raw inputSchema for
// validation.
func (e *ToolEntry) UnmarshalYAML(node *yaml.Node) error {
	type plain ToolEntry
	if err := node.Decode((*plain)(e)); err != nil {
		return err
	}
	var raw struct {
		InputSchema map[string]any `yaml:"inputSchema"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	e.rawSchema = raw.InputSchema
	return nil
}

// PromptEntry is a prompt descriptor, its handler identifier and fixed
// completion values per argument.
type PromptEntry struct {
	mcp.Prompt  `yaml:",inline"`
	Handler     string              `yaml:"handler"`
	Completions map[string][]string `yaml:"completions"`
}

// ResourceEntry is a resource descriptor plus the identifier of its handler.
type ResourceEntry struct {
	mcp.Resource `yaml:",inline"`
	Handler      string `yaml:"handler"`
}

// ResourceTemplateEntry is a resource template, its handler identifier and
// fixed completion values per template variable.
type ResourceTemplateEntry struct {
	mcp.ResourceTemplate `yaml:",inline"`
	Handler              string              `yaml:"handler"`
	Completions          map[string][]string `yaml:"completions"`
}

// Parse decodes and validates a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that every key is present and unique within its category,
// that tool input schemas compile, and that resource templates parse.
func (m *Manifest) Validate() error {
	var errs []error

	seen := make(map[string]struct{}, len(m.Tools))
	for i, t := range m.Tools {
		where := fmt.Sprintf("tools[%d]", i)
		if err := checkKey(seen, where, "name", t.Name); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := compileInputSchema(t.InputSchema, t.rawSchema); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}

	clear(seen)
	for i, p := range m.Prompts {
		where := fmt.Sprintf("prompts[%d]", i)
		if err := checkKey(seen, where, "name", p.Name); err != nil {
			errs = append(errs, err)
		}
	}

	clear(seen)
	for i, r := range m.Resources {
		where := fmt.Sprintf("resources[%d]", i)
		if err := checkKey(seen, where, "uri", r.URI); err != nil {
			errs = append(errs, err)
		}
	}

	clear(seen)
	for i, rt := range m.ResourceTemplates {
		where := fmt.Sprintf("resourceTemplates[%d]", i)
		if err := checkKey(seen, where, "uriTemplate", rt.URITemplate); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := uritemplate.New(rt.URITemplate); err != nil {
			errs = append(errs, fmt.Errorf("%s: uri template %q: %w", where, rt.URITemplate, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidManifest, errors.Join(errs...))
	}
	return nil
}

func checkKey(seen map[string]struct{}, where, field, key string) error {
	if key == "" {
		return fmt.Errorf("%s: %s is required", where, field)
	}
	if _, dup := seen[key]; dup {
		return fmt.Errorf("%s: duplicate %s %q", where, field, key)
	}
	seen[key] = struct{}{}
	return nil
}

// compileInputSchema checks the schema against the JSON Schema metaschema.
// raw, when present, is preferred so that keywords dropped by decoding into
// s are validated too.
func compileInputSchema(s mcp.ToolInputSchema, raw map[string]any) error {
	if s.Type != "object" {
		return fmt.Errorf("inputSchema type must be \"object\", got %q", s.Type)
	}
	var doc any = s
	if raw != nil {
		doc = raw
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode inputSchema: %w", err)
	}
	const url = "inputSchema.json"
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(url, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("inputSchema: %w", err)
	}
	if _, err := c.Compile(url); err != nil {
		return fmt.Errorf("inputSchema: %w", err)
	}
	return nil
}

// Register adds every entry to reg with isManual unset and returns the keys
// registered per category, in manifest order.
func (m *Manifest) Register(reg registry.Registry) registry.DiscoveryState {
	var st registry.DiscoveryState
	for _, t := range m.Tools {
		reg.RegisterTool(t.Tool, t.Handler, false)
		st.Tools = append(st.Tools, t.Name)
	}
	for _, p := range m.Prompts {
		reg.RegisterPrompt(p.Prompt, p.Handler, completionProviders(p.Completions), false)
		st.Prompts = append(st.Prompts, p.Name)
	}
	for _, r := range m.Resources {
		reg.RegisterResource(r.Resource, r.Handler, false)
		st.Resources = append(st.Resources, r.URI)
	}
	for _, rt := range m.ResourceTemplates {
		reg.RegisterResourceTemplate(rt.ResourceTemplate, rt.Handler, completionProviders(rt.Completions), false)
		st.ResourceTemplates = append(st.ResourceTemplates, rt.URITemplate)
	}
	return st
}

func completionProviders(in map[string][]string) map[string]registry.CompletionProvider {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]registry.CompletionProvider, len(in))
	for arg, values := range in {
		out[arg] = registry.ListCompletionProvider(values)
	}
	return out
}
