// Package schema provides JSON Schema types, validation and named schema
// loading for the YouTube MCP server.
//
// The JSON type models the subset of JSON Schema Draft 7 used by tool input
// schemas and by the response schemas the server checks its own output
// against.
//
// # Building schemas
//
//	args := schema.Object(map[string]schema.JSON{
//		"query":      schema.StringWithDesc("Search query"),
//		"maxResults": schema.Int(),
//	}, "query")
//
// Tool argument structs can derive their schema instead:
//
//	type searchArgs struct {
//		Query      string `json:"query" description:"Search query" minLength:"1"`
//		MaxResults int    `json:"maxResults,omitempty" minimum:"1" maximum:"50"`
//	}
//	args := schema.FromType(searchArgs{})
//
// # Validation
//
// Check reports every mismatch with a dotted field path, Validate wraps the
// same result as an error:
//
//	for _, fe := range args.Check(map[string]any{"maxResults": 99}) {
//		fmt.Println(fe.Field, fe.Message)
//	}
//	// query required field query is missing
//	// maxResults value 99 is greater than maximum 50
//
// # Named schemas
//
// A Loader resolves schema names ("mcp-response", "tool-response") through a
// Source, usually an embedded or on-disk directory, and caches the parsed
// result until Clear is called.
package schema
