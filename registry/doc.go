// Package registry provides the capability registry: the authoritative store
// of the tools, prompts, resources and resource templates an MCP server
// exposes, each paired with an opaque handler.
//
// Registry is the contract. Memory is the in-memory implementation; other
// packages (notably observe) decorate a Registry without changing its
// semantics.
//
// # Keys and overwrites
//
// Each category is keyed by the descriptor's identifying field (tool and
// prompt Name, resource URI, template URITemplate). Registering an existing
// key replaces the stored reference and keeps its position in listing order.
// Re-registration never fails:
//
//	reg := registry.New()
//	reg.RegisterTool(mcp.Tool{Name: "echo", InputSchema: mcp.ToolInputSchema{Type: "object"}}, echoHandler, true)
//	reg.RegisterTool(mcp.Tool{Name: "echo", Description: mcp.String("v2"), InputSchema: mcp.ToolInputSchema{Type: "object"}}, echoV2, true)
//	ref, _ := reg.GetTool("echo") // ref.Handler == echoV2
//
// # Pagination
//
// List methods take a limit (non-positive means all) and an opaque cursor.
// Following NextCursor with the same limit visits every entry exactly once,
// in insertion order, provided the category is not mutated in between:
//
//	var cursor *string
//	for {
//	    page, err := reg.ListTools(10, cursor)
//	    if err != nil { return err }
//	    // use page.Items
//	    if page.NextCursor == nil { break }
//	    cursor = page.NextCursor
//	}
//
// A cursor that is malformed or points past the end fails with
// ErrInvalidCursor.
//
// # Resource lookup
//
// GetResource resolves a URI to a registered resource, or, when asked to,
// to the first resource template whose RFC 6570 URI template matches it. The
// result is a ResourceTarget; switch on its concrete type.
package registry
