package tool

import (
	"context"
	"log/slog"

	"github.com/zero-day-ai/youtube-mcp/youtube"
)

// Tool is one constructed tool instance, ready to run.
// Run receives the caller's arguments after they have been checked against
// the descriptor's input schema. Implementations should be safe to call from
// concurrent requests; the registry does not serialize them.
type Tool interface {
	// Run executes the tool. The returned value becomes the Data of a
	// successful Result; any error becomes a failure Result.
	Run(ctx context.Context, args map[string]any) (any, error)
}

// RunFunc adapts a function to the Tool interface.
type RunFunc func(ctx context.Context, args map[string]any) (any, error)

// Run calls f(ctx, args).
func (f RunFunc) Run(ctx context.Context, args map[string]any) (any, error) {
	return f(ctx, args)
}

// Env is the execution context handed to every factory.
type Env struct {
	// Logger is the structured logger tools should use. Never nil once the
	// registry has applied its defaults.
	Logger *slog.Logger

	// YouTube is the upstream Data API. Nil when no API key is configured.
	YouTube youtube.API

	// MaxResults is the default page size for list-style tools.
	MaxResults int64
}

// Invoker executes tools by name. The registry implements it and hands it to
// chainable factories so that one tool can compose others.
type Invoker interface {
	Execute(ctx context.Context, name string, args map[string]any) Result
}
