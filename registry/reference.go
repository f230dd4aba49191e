package registry

import (
	"github.com/ggoodman/mcp-registry-go/mcp"
	"github.com/yosida95/uritemplate/v3"
)

// Handler is an opaque reference to invocable logic: a function value, a
// method expression, a service identifier string, whatever the invoking layer
// understands. The registry stores and returns it and never calls it.
type Handler any

// ToolReference is the stored pairing of a tool descriptor with its handler.
//
// References handed out by a registry are shared and must be treated as
// read-only; re-registering a key replaces the reference rather than
// mutating it.
type ToolReference struct {
	Tool     mcp.Tool
	Handler  Handler
	IsManual bool
}

// PromptReference is the stored pairing of a prompt descriptor with its
// handler and per-argument completion providers.
type PromptReference struct {
	Prompt              mcp.Prompt
	Handler             Handler
	CompletionProviders map[string]CompletionProvider
	IsManual            bool
}

// ResourceReference is the stored pairing of a resource descriptor with its handler.
type ResourceReference struct {
	Resource mcp.Resource
	Handler  Handler
	IsManual bool
}

// ResourceTemplateReference is the stored pairing of a resource template with
// its handler and per-variable completion providers. The URI template is
// compiled once at registration.
type ResourceTemplateReference struct {
	ResourceTemplate    mcp.ResourceTemplate
	Handler             Handler
	CompletionProviders map[string]CompletionProvider
	IsManual            bool

	tmpl *uritemplate.Template
}

// NewResourceTemplateReference builds a reference and compiles its URI
// template. A template that fails to parse is returned alongside the error;
// such a reference never matches any URI.
func NewResourceTemplateReference(t mcp.ResourceTemplate, h Handler, completions map[string]CompletionProvider, isManual bool) (*ResourceTemplateReference, error) {
	ref := &ResourceTemplateReference{
		ResourceTemplate:    t,
		Handler:             h,
		CompletionProviders: cloneCompletions(completions),
		IsManual:            isManual,
	}
	tmpl, err := uritemplate.New(t.URITemplate)
	if err != nil {
		return ref, err
	}
	ref.tmpl = tmpl
	return ref, nil
}

// Matches reports whether uri is an expansion of the template.
func (r *ResourceTemplateReference) Matches(uri string) bool {
	if r == nil || r.tmpl == nil {
		return false
	}
	return r.tmpl.Regexp().MatchString(uri)
}

// Variables extracts the template variables bound by uri. It returns nil when
// the URI does not match.
func (r *ResourceTemplateReference) Variables(uri string) map[string]string {
	if !r.Matches(uri) {
		return nil
	}
	vals := r.tmpl.Match(uri)
	out := make(map[string]string, len(vals))
	for name, v := range vals {
		out[name] = v.String()
	}
	return out
}

// ResourceTarget is the result of a resource lookup: either a direct
// *ResourceReference or a *ResourceTemplateReference whose template matched
// the requested URI.
type ResourceTarget interface {
	resourceTarget()
}

func (*ResourceReference) resourceTarget()         {}
func (*ResourceTemplateReference) resourceTarget() {}
