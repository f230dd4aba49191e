// Package manifest populates a capability registry from a declarative YAML
// (or JSON) file.
//
// A manifest lists tools, prompts, resources and resource templates. Each
// entry carries its descriptor fields plus a handler identifier, which is
// stored verbatim as the registry Handler:
//
//	tools:
//	  - name: echo
//	    description: Echoes input
//	    inputSchema: {type: object}
//	    handler: echo
//	resourceTemplates:
//	  - uriTemplate: "users://{id}"
//	    name: user
//	    handler: users.get
//	    completions:
//	      id: [alice, bob]
//
// Tool input schemas are validated as written, against the JSON Schema
// 2020-12 metaschema. The registered descriptor keeps only what
// mcp.ToolInputSchema models (type, properties, required,
// additionalProperties); other keywords such as oneOf, minimum or $defs
// are checked but not stored.
//
// Loader applies a manifest as discovered (not manual) registrations and
// records the file and its digest in the registry's DiscoveryState.
package manifest
