// Package mcp contains the protocol descriptor types shared by the capability
// registry, the observing decorator and the profiler report. The structs mirror
// the wire representation specified by the Model Context Protocol while keeping
// the surface Go-friendly (exported structs with json tags, string constants for
// enumerations, helper validation functions).
//
// The package is intentionally free of transport and storage logic. Registry
// implementations key their collections on the identifying field of each
// descriptor:
//
//   - Tool: Name
//   - Prompt: Name
//   - Resource: URI
//   - ResourceTemplate: URITemplate
//
// # Optional fields
//
// Fields the protocol marks optional (descriptions, MIME types) are pointers so
// that "absent" and "empty" stay distinguishable all the way into reports. Use
// String to populate them inline:
//
//	tool := mcp.Tool{
//	    Name:        "echo",
//	    Description: mcp.String("Echoes input"),
//	    InputSchema: mcp.ToolInputSchema{Type: "object"},
//	}
//
// # Logging Levels
//
// LoggingLevel values mirror syslog severities as defined by MCP. Use
// IsValidLoggingLevel to validate user-provided values.
package mcp
