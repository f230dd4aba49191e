package observe

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ggoodman/mcp-registry-go/mcp"
	"github.com/ggoodman/mcp-registry-go/registry"
)

// Observation is the decorator's log: the items of the most recent successful
// listing call per category. A nil slice means the category has not been
// observed (or its last capture failed).
type Observation struct {
	Tools             []*registry.ToolReference
	Prompts           []*registry.PromptReference
	Resources         []*registry.ResourceReference
	ResourceTemplates []*registry.ResourceTemplateReference
}

// Registry decorates a registry.Registry. Every call is forwarded unchanged;
// successful List calls additionally record their items as the category's
// latest observation, replacing whatever was recorded before.
type Registry struct {
	inner registry.Registry
	log   *slog.Logger

	mu  sync.Mutex
	obs Observation

	// onCapture is a test seam: tests set it to fail inside the contained
	// capture step. Nothing outside this package's tests assigns it.
	onCapture func(registry.Kind)
}

var _ registry.Registry = (*Registry)(nil)

// Option configures Wrap.
type Option func(*Registry)

// WithLogger sets the logger used to report contained capture failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// Wrap returns a Registry that observes inner.
func Wrap(inner registry.Registry, opts ...Option) *Registry {
	r := &Registry{inner: inner, log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Unwrap returns the decorated registry.
func (r *Registry) Unwrap() registry.Registry { return r.inner }

// Observed returns a copy of the current observation log.
func (r *Registry) Observed() Observation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.obs
}

// capture runs record under the log mutex. A panic inside record is
// recovered and logged, and the category is left unset; it never reaches the
// caller of the List method.
func (r *Registry) capture(kind registry.Kind, record func(*Observation), reset func(*Observation)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			reset(&r.obs)
			r.log.Warn("observe: capture failed",
				slog.String("kind", kind.String()),
				slog.String("err", fmt.Sprint(rec)),
			)
		}
	}()
	if r.onCapture != nil {
		r.onCapture(kind)
	}
	record(&r.obs)
}

func snapshot[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// --- Observed listings ---

func (r *Registry) ListTools(limit int, cursor *string) (registry.Page[*registry.ToolReference], error) {
	page, err := r.inner.ListTools(limit, cursor)
	if err != nil {
		return page, err
	}
	r.capture(registry.KindTool,
		func(o *Observation) { o.Tools = snapshot(page.Items) },
		func(o *Observation) { o.Tools = nil },
	)
	return page, nil
}

func (r *Registry) ListPrompts(limit int, cursor *string) (registry.Page[*registry.PromptReference], error) {
	page, err := r.inner.ListPrompts(limit, cursor)
	if err != nil {
		return page, err
	}
	r.capture(registry.KindPrompt,
		func(o *Observation) { o.Prompts = snapshot(page.Items) },
		func(o *Observation) { o.Prompts = nil },
	)
	return page, nil
}

func (r *Registry) ListResources(limit int, cursor *string) (registry.Page[*registry.ResourceReference], error) {
	page, err := r.inner.ListResources(limit, cursor)
	if err != nil {
		return page, err
	}
	r.capture(registry.KindResource,
		func(o *Observation) { o.Resources = snapshot(page.Items) },
		func(o *Observation) { o.Resources = nil },
	)
	return page, nil
}

func (r *Registry) ListResourceTemplates(limit int, cursor *string) (registry.Page[*registry.ResourceTemplateReference], error) {
	page, err := r.inner.ListResourceTemplates(limit, cursor)
	if err != nil {
		return page, err
	}
	r.capture(registry.KindResourceTemplate,
		func(o *Observation) { o.ResourceTemplates = snapshot(page.Items) },
		func(o *Observation) { o.ResourceTemplates = nil },
	)
	return page, nil
}

// --- Forwarded ---

func (r *Registry) RegisterTool(tool mcp.Tool, handler registry.Handler, isManual bool) {
	r.inner.RegisterTool(tool, handler, isManual)
}

func (r *Registry) RegisterPrompt(prompt mcp.Prompt, handler registry.Handler, completions map[string]registry.CompletionProvider, isManual bool) {
	r.inner.RegisterPrompt(prompt, handler, completions, isManual)
}

func (r *Registry) RegisterResource(resource mcp.Resource, handler registry.Handler, isManual bool) {
	r.inner.RegisterResource(resource, handler, isManual)
}

func (r *Registry) RegisterResourceTemplate(template mcp.ResourceTemplate, handler registry.Handler, completions map[string]registry.CompletionProvider, isManual bool) {
	r.inner.RegisterResourceTemplate(template, handler, completions, isManual)
}

func (r *Registry) HasTools() bool             { return r.inner.HasTools() }
func (r *Registry) HasPrompts() bool           { return r.inner.HasPrompts() }
func (r *Registry) HasResources() bool         { return r.inner.HasResources() }
func (r *Registry) HasResourceTemplates() bool { return r.inner.HasResourceTemplates() }

func (r *Registry) GetTool(name string) (*registry.ToolReference, error) {
	return r.inner.GetTool(name)
}

func (r *Registry) GetPrompt(name string) (*registry.PromptReference, error) {
	return r.inner.GetPrompt(name)
}

func (r *Registry) GetResource(uri string, includeTemplates bool) (registry.ResourceTarget, error) {
	return r.inner.GetResource(uri, includeTemplates)
}

func (r *Registry) GetResourceTemplate(uriTemplate string) (*registry.ResourceTemplateReference, error) {
	return r.inner.GetResourceTemplate(uriTemplate)
}

func (r *Registry) Clear() { r.inner.Clear() }

func (r *Registry) DiscoveryState() registry.DiscoveryState { return r.inner.DiscoveryState() }

func (r *Registry) SetDiscoveryState(state registry.DiscoveryState) {
	r.inner.SetDiscoveryState(state)
}
