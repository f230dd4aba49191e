package observe

import (
	"sync"

	"github.com/ggoodman/mcp-registry-go/mcp"
)

// ToolRecord is the display shape of an observed tool.
type ToolRecord struct {
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	InputSchema mcp.ToolInputSchema `json:"inputSchema"`
}

// PromptArgumentRecord is the display shape of a single prompt argument.
type PromptArgumentRecord struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Required    bool    `json:"required"`
}

// PromptRecord is the display shape of an observed prompt. Arguments is
// never nil.
type PromptRecord struct {
	Name        string                 `json:"name"`
	Description *string                `json:"description"`
	Arguments   []PromptArgumentRecord `json:"arguments"`
}

// ResourceRecord is the display shape of an observed resource.
type ResourceRecord struct {
	URI         string  `json:"uri"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	MimeType    *string `json:"mimeType"`
}

// ResourceTemplateRecord is the display shape of an observed resource template.
type ResourceTemplateRecord struct {
	URITemplate string  `json:"uriTemplate"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	MimeType    *string `json:"mimeType"`
}

// Snapshot is the flattened report consumed by rendering and storage layers.
type Snapshot struct {
	Tools             []ToolRecord             `json:"tools"`
	Prompts           []PromptRecord           `json:"prompts"`
	Resources         []ResourceRecord         `json:"resources"`
	ResourceTemplates []ResourceTemplateRecord `json:"resourceTemplates"`
}

// TotalCount returns the number of records across all four categories.
func (s Snapshot) TotalCount() int {
	return len(s.Tools) + len(s.Prompts) + len(s.Resources) + len(s.ResourceTemplates)
}

// Source supplies the observation log a Report is computed from. *Registry
// satisfies it.
type Source interface {
	Observed() Observation
}

// Report is a one-shot projection of an observation log into display records.
// It is computed on first use and cached for its lifetime; later changes to
// the source are not reflected. Report never fails: anything not observed
// renders as an empty sequence.
type Report struct {
	src  Source
	once sync.Once
	data Snapshot
}

// NewReport returns an uncomputed report over src.
func NewReport(src Source) *Report {
	return &Report{src: src}
}

// Compute drains the source into flattened records. Only the first call does
// any work.
func (r *Report) Compute() {
	r.once.Do(func() {
		var obs Observation
		if r.src != nil {
			obs = r.src.Observed()
		}
		r.data = flatten(obs)
	})
}

func (r *Report) Tools() []ToolRecord {
	r.Compute()
	return r.data.Tools
}

func (r *Report) Prompts() []PromptRecord {
	r.Compute()
	return r.data.Prompts
}

func (r *Report) Resources() []ResourceRecord {
	r.Compute()
	return r.data.Resources
}

func (r *Report) ResourceTemplates() []ResourceTemplateRecord {
	r.Compute()
	return r.data.ResourceTemplates
}

// TotalCount returns the sum of the four record sequence lengths.
func (r *Report) TotalCount() int {
	r.Compute()
	return r.data.TotalCount()
}

// Snapshot returns the computed report in its serializable shape.
func (r *Report) Snapshot() Snapshot {
	r.Compute()
	return r.data
}

func flatten(obs Observation) Snapshot {
	s := Snapshot{
		Tools:             make([]ToolRecord, 0, len(obs.Tools)),
		Prompts:           make([]PromptRecord, 0, len(obs.Prompts)),
		Resources:         make([]ResourceRecord, 0, len(obs.Resources)),
		ResourceTemplates: make([]ResourceTemplateRecord, 0, len(obs.ResourceTemplates)),
	}
	for _, ref := range obs.Tools {
		if ref == nil {
			continue
		}
		t := ref.Tool
		s.Tools = append(s.Tools, ToolRecord{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	for _, ref := range obs.Prompts {
		if ref == nil {
			continue
		}
		p := ref.Prompt
		args := make([]PromptArgumentRecord, 0, len(p.Arguments))
		for _, a := range p.Arguments {
			args = append(args, PromptArgumentRecord{
				Name:        a.Name,
				Description: a.Description,
				Required:    a.Required,
			})
		}
		s.Prompts = append(s.Prompts, PromptRecord{
			Name:        p.Name,
			Description: p.Description,
			Arguments:   args,
		})
	}
	for _, ref := range obs.Resources {
		if ref == nil {
			continue
		}
		res := ref.Resource
		s.Resources = append(s.Resources, ResourceRecord{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MimeType:    res.MimeType,
		})
	}
	for _, ref := range obs.ResourceTemplates {
		if ref == nil {
			continue
		}
		tmpl := ref.ResourceTemplate
		s.ResourceTemplates = append(s.ResourceTemplates, ResourceTemplateRecord{
			URITemplate: tmpl.URITemplate,
			Name:        tmpl.Name,
			Description: tmpl.Description,
			MimeType:    tmpl.MimeType,
		})
	}
	return s
}
