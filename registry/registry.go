package registry

import "github.com/ggoodman/mcp-registry-go/mcp"

// Kind names one of the four independent capability categories.
type Kind int

const (
	KindTool Kind = iota
	KindPrompt
	KindResource
	KindResourceTemplate

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindTool:
		return "tool"
	case KindPrompt:
		return "prompt"
	case KindResource:
		return "resource"
	case KindResourceTemplate:
		return "resource_template"
	default:
		return "unknown"
	}
}

// Registry is the external contract of a capability registry: four
// independently paginated collections of tools, prompts, resources and
// resource templates, each keyed by the descriptor's identifying field.
//
// Register methods insert or overwrite (last write wins, never an error).
// List methods return up to limit entries after cursor in insertion order; a
// non-positive limit means "everything". Lookups fail with ErrNotFound, bad
// cursors with ErrInvalidCursor. All mutations are immediately visible to
// subsequent reads on the same registry.
type Registry interface {
	RegisterTool(tool mcp.Tool, handler Handler, isManual bool)
	RegisterPrompt(prompt mcp.Prompt, handler Handler, completions map[string]CompletionProvider, isManual bool)
	RegisterResource(resource mcp.Resource, handler Handler, isManual bool)
	RegisterResourceTemplate(template mcp.ResourceTemplate, handler Handler, completions map[string]CompletionProvider, isManual bool)

	HasTools() bool
	ListTools(limit int, cursor *string) (Page[*ToolReference], error)
	GetTool(name string) (*ToolReference, error)

	HasPrompts() bool
	ListPrompts(limit int, cursor *string) (Page[*PromptReference], error)
	GetPrompt(name string) (*PromptReference, error)

	HasResources() bool
	ListResources(limit int, cursor *string) (Page[*ResourceReference], error)
	// GetResource looks up a resource by URI. When includeTemplates is set and
	// no resource is registered under uri, the first resource template (in
	// insertion order) whose URI template matches is returned instead.
	GetResource(uri string, includeTemplates bool) (ResourceTarget, error)

	HasResourceTemplates() bool
	ListResourceTemplates(limit int, cursor *string) (Page[*ResourceTemplateReference], error)
	GetResourceTemplate(uriTemplate string) (*ResourceTemplateReference, error)

	// Clear empties all four categories and resets the discovery state to its
	// zero value.
	Clear()
	DiscoveryState() DiscoveryState
	SetDiscoveryState(state DiscoveryState)
}
