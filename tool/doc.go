// Package tool defines the contract every YouTube MCP tool implements.
//
// A tool is registered as a Descriptor (static metadata: name, description,
// input schema, quota estimate) paired with a Factory. Factories come in two
// shapes:
//
//   - Simple factories receive an Env (logger, upstream API, page size).
//   - Chainable factories also receive an Invoker, so the tool can execute
//     other registered tools by name and compose their results.
//
// Every execution produces a Result: either {success:true, data} or
// {success:false, error}, with optional Metadata.
//
// # Usage
//
//	desc, factory, err := tool.NewConfig().
//		SetName("get_video_details").
//		SetDescription("Fetch metadata and statistics for a video").
//		SetArgs(videoArgs{}).
//		SetQuotaCost(1).
//		SetFactory(tool.Simple(func(env tool.Env) (tool.Tool, error) {
//			return &videoDetails{api: env.YouTube}, nil
//		})).
//		Build()
//
// Results are built with Ok and Fail:
//
//	tool.Ok(map[string]any{"id": "dQw4w9WgXcQ"}, &tool.Metadata{Source: "get_video_details"})
//	tool.Fail("video not found", nil)
package tool
