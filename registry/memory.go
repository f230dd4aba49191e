package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ggoodman/mcp-registry-go/mcp"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Memory is the in-memory Registry. It owns a mutable, threadsafe set of
// references per category, kept in insertion order. Re-registering a key
// replaces the reference in place, so the entry keeps its original position.
//
// Each category has its own ChangeNotifier; Subscriber exposes it so callers
// can relay list-changed notifications.
type Memory struct {
	mu sync.RWMutex

	tools     *orderedmap.OrderedMap[string, *ToolReference]
	prompts   *orderedmap.OrderedMap[string, *PromptReference]
	resources *orderedmap.OrderedMap[string, *ResourceReference]
	templates *orderedmap.OrderedMap[string, *ResourceTemplateReference]

	discovery DiscoveryState

	notifiers [kindCount]ChangeNotifier

	log *slog.Logger
}

var _ Registry = (*Memory)(nil)

// Option configures a Memory registry.
type Option func(*Memory)

// WithLogger sets the logger used for registration diagnostics. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Memory) {
		if l != nil {
			m.log = l
		}
	}
}

// New constructs an empty registry.
func New(opts ...Option) *Memory {
	m := &Memory{
		tools:     orderedmap.New[string, *ToolReference](),
		prompts:   orderedmap.New[string, *PromptReference](),
		resources: orderedmap.New[string, *ResourceReference](),
		templates: orderedmap.New[string, *ResourceTemplateReference](),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscriber returns a channel that receives a tick whenever the given
// category's list changes.
func (m *Memory) Subscriber(kind Kind) <-chan struct{} {
	if kind < 0 || kind >= kindCount {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return m.notifiers[kind].Subscriber()
}

// Close closes every subscriber channel. The registry remains usable.
func (m *Memory) Close() {
	for i := range m.notifiers {
		m.notifiers[i].Close()
	}
}

func (m *Memory) registered(kind Kind, key string, replaced, isManual bool) {
	if replaced {
		m.log.Debug("registry: replacing existing capability",
			slog.String("kind", kind.String()),
			slog.String("key", key),
			slog.Bool("manual", isManual),
		)
	} else {
		m.log.Debug("registry: registered capability",
			slog.String("kind", kind.String()),
			slog.String("key", key),
			slog.Bool("manual", isManual),
		)
	}
	m.notifiers[kind].Notify()
}

// --- Tools ---

func (m *Memory) RegisterTool(tool mcp.Tool, handler Handler, isManual bool) {
	ref := &ToolReference{Tool: tool, Handler: handler, IsManual: isManual}
	m.mu.Lock()
	_, replaced := m.tools.Set(tool.Name, ref)
	m.mu.Unlock()
	m.registered(KindTool, tool.Name, replaced, isManual)
}

func (m *Memory) HasTools() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tools.Len() > 0
}

func (m *Memory) ListTools(limit int, cursor *string) (Page[*ToolReference], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return paginate(m.tools, limit, cursor)
}

func (m *Memory) GetTool(name string) (*ToolReference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ref, ok := m.tools.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: tool %q", ErrNotFound, name)
	}
	return ref, nil
}

// --- Prompts ---

func (m *Memory) RegisterPrompt(prompt mcp.Prompt, handler Handler, completions map[string]CompletionProvider, isManual bool) {
	ref := &PromptReference{
		Prompt:              prompt,
		Handler:             handler,
		CompletionProviders: cloneCompletions(completions),
		IsManual:            isManual,
	}
	m.mu.Lock()
	_, replaced := m.prompts.Set(prompt.Name, ref)
	m.mu.Unlock()
	m.registered(KindPrompt, prompt.Name, replaced, isManual)
}

func (m *Memory) HasPrompts() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prompts.Len() > 0
}

func (m *Memory) ListPrompts(limit int, cursor *string) (Page[*PromptReference], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return paginate(m.prompts, limit, cursor)
}

func (m *Memory) GetPrompt(name string) (*PromptReference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ref, ok := m.prompts.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: prompt %q", ErrNotFound, name)
	}
	return ref, nil
}

// --- Resources ---

func (m *Memory) RegisterResource(resource mcp.Resource, handler Handler, isManual bool) {
	ref := &ResourceReference{Resource: resource, Handler: handler, IsManual: isManual}
	m.mu.Lock()
	_, replaced := m.resources.Set(resource.URI, ref)
	m.mu.Unlock()
	m.registered(KindResource, resource.URI, replaced, isManual)
}

func (m *Memory) HasResources() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resources.Len() > 0
}

func (m *Memory) ListResources(limit int, cursor *string) (Page[*ResourceReference], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return paginate(m.resources, limit, cursor)
}

func (m *Memory) GetResource(uri string, includeTemplates bool) (ResourceTarget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ref, ok := m.resources.Get(uri); ok {
		return ref, nil
	}
	if includeTemplates {
		for pair := m.templates.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value.Matches(uri) {
				return pair.Value, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: resource %q", ErrNotFound, uri)
}

// --- Resource templates ---

// RegisterResourceTemplate stores the template even when its URI template
// does not parse; such an entry is listed and retrievable by key but never
// matches a URI in GetResource.
func (m *Memory) RegisterResourceTemplate(template mcp.ResourceTemplate, handler Handler, completions map[string]CompletionProvider, isManual bool) {
	ref, err := NewResourceTemplateReference(template, handler, completions, isManual)
	if err != nil {
		m.log.Warn("registry: resource template does not parse; it will never match",
			slog.String("uri_template", template.URITemplate),
			slog.String("err", err.Error()),
		)
	}
	m.mu.Lock()
	_, replaced := m.templates.Set(template.URITemplate, ref)
	m.mu.Unlock()
	m.registered(KindResourceTemplate, template.URITemplate, replaced, isManual)
}

func (m *Memory) HasResourceTemplates() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.templates.Len() > 0
}

func (m *Memory) ListResourceTemplates(limit int, cursor *string) (Page[*ResourceTemplateReference], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return paginate(m.templates, limit, cursor)
}

func (m *Memory) GetResourceTemplate(uriTemplate string) (*ResourceTemplateReference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ref, ok := m.templates.Get(uriTemplate)
	if !ok {
		return nil, fmt.Errorf("%w: resource template %q", ErrNotFound, uriTemplate)
	}
	return ref, nil
}

// --- Lifecycle ---

func (m *Memory) Clear() {
	m.mu.Lock()
	var changed [kindCount]bool
	changed[KindTool] = m.tools.Len() > 0
	changed[KindPrompt] = m.prompts.Len() > 0
	changed[KindResource] = m.resources.Len() > 0
	changed[KindResourceTemplate] = m.templates.Len() > 0

	m.tools = orderedmap.New[string, *ToolReference]()
	m.prompts = orderedmap.New[string, *PromptReference]()
	m.resources = orderedmap.New[string, *ResourceReference]()
	m.templates = orderedmap.New[string, *ResourceTemplateReference]()
	m.discovery = DiscoveryState{}
	m.mu.Unlock()

	m.log.Debug("registry: cleared")
	for kind, c := range changed {
		if c {
			m.notifiers[kind].Notify()
		}
	}
}

func (m *Memory) DiscoveryState() DiscoveryState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.discovery
}

func (m *Memory) SetDiscoveryState(state DiscoveryState) {
	m.mu.Lock()
	m.discovery = state
	m.mu.Unlock()
}
