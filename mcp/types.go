package mcp

type LoggingLevel string

// LoggingLevel represents structured log severity.
const (
	// Logging level constants.
	LoggingLevelDebug     LoggingLevel = "debug"
	LoggingLevelInfo      LoggingLevel = "info"
	LoggingLevelNotice    LoggingLevel = "notice"
	LoggingLevelWarning   LoggingLevel = "warning"
	LoggingLevelError     LoggingLevel = "error"
	LoggingLevelCritical  LoggingLevel = "critical"
	LoggingLevelAlert     LoggingLevel = "alert"
	LoggingLevelEmergency LoggingLevel = "emergency"
)

// IsValidLoggingLevel reports whether the provided level is one of the
// protocol-defined syslog severities.
func IsValidLoggingLevel(level LoggingLevel) bool {
	switch level {
	case LoggingLevelDebug,
		LoggingLevelInfo,
		LoggingLevelNotice,
		LoggingLevelWarning,
		LoggingLevelError,
		LoggingLevelCritical,
		LoggingLevelAlert,
		LoggingLevelEmergency:
		return true
	default:
		return false
	}
}

// Tools
// Tool describes a callable tool and its input schema.
type Tool struct {
	Name        string          `json:"name" yaml:"name"`
	Description *string         `json:"description,omitempty" yaml:"description,omitempty"`
	InputSchema ToolInputSchema `json:"inputSchema" yaml:"inputSchema"`
}

// ToolInputSchema is a JSON-schema-like description of tool input.
type ToolInputSchema struct {
	Type                 string                    `json:"type" yaml:"type"`
	Properties           map[string]SchemaProperty `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required             []string                  `json:"required,omitempty" yaml:"required,omitempty"`
	AdditionalProperties bool                      `json:"additionalProperties,omitzero" yaml:"additionalProperties,omitempty"`
}

// SchemaProperty is a simplified schema node used in tool schemas.
type SchemaProperty struct {
	Type        string                    `json:"type,omitempty" yaml:"type,omitempty"`
	Description string                    `json:"description,omitzero" yaml:"description,omitempty"`
	Items       *SchemaProperty           `json:"items,omitempty" yaml:"items,omitempty"`
	Properties  map[string]SchemaProperty `json:"properties,omitempty" yaml:"properties,omitempty"`
	Enum        []any                     `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// Resources
// Resource represents an addressable resource.
type Resource struct {
	URI         string  `json:"uri" yaml:"uri"`
	Name        string  `json:"name" yaml:"name"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	MimeType    *string `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
}

// ResourceTemplate describes a template for resource URIs.
type ResourceTemplate struct {
	URITemplate string  `json:"uriTemplate" yaml:"uriTemplate"`
	Name        string  `json:"name" yaml:"name"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	MimeType    *string `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
}

// Prompts
// Prompt describes a named prompt the server can provide.
type Prompt struct {
	Name        string           `json:"name" yaml:"name"`
	Description *string          `json:"description,omitempty" yaml:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

// PromptArgument describes a single prompt argument.
type PromptArgument struct {
	Name        string  `json:"name" yaml:"name"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool    `json:"required,omitzero" yaml:"required,omitempty"`
}

// String returns a pointer to s, for populating optional descriptor fields.
func String(s string) *string { return &s }
