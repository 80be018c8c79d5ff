// Package mcpserver serves a tool registry over the Model Context Protocol.
//
// Every registered tool is advertised with its descriptor's input schema.
// Calls are decoded, dispatched to the registry, and wrapped in an Envelope
// before they reach the client. In strict mode each envelope is checked by
// the response validator first and a non-compliant one is replaced by a
// failure envelope.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/zero-day-ai/youtube-mcp/response"
	"github.com/zero-day-ai/youtube-mcp/tool"
	"github.com/zero-day-ai/youtube-mcp/toolerr"
)

// Default implementation info advertised to clients.
const (
	DefaultName    = "youtube-mcp"
	DefaultVersion = "dev"
)

// Executor is the registry surface the server needs.
type Executor interface {
	List() []tool.Descriptor
	Execute(ctx context.Context, name string, args map[string]any) tool.Result
}

// Server adapts an Executor to an MCP server.
type Server struct {
	exec      Executor
	logger    *slog.Logger
	strict    bool
	validator *response.Validator
	name      string
	version   string

	mcp *mcp.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStrict enables envelope validation before responses are returned.
func WithStrict(strict bool) Option {
	return func(s *Server) {
		s.strict = strict
	}
}

// WithValidator sets the validator used in strict mode.
func WithValidator(v *response.Validator) Option {
	return func(s *Server) {
		s.validator = v
	}
}

// WithImplementation sets the name and version reported to clients.
func WithImplementation(name, version string) Option {
	return func(s *Server) {
		if name != "" {
			s.name = name
		}
		if version != "" {
			s.version = version
		}
	}
}

// New creates a server and registers every tool exec lists. Tools whose
// input schema is not an object cannot be expressed in the protocol and are
// skipped with a warning.
func New(exec Executor, opts ...Option) (*Server, error) {
	if exec == nil {
		return nil, fmt.Errorf("mcpserver: executor is required")
	}

	s := &Server{
		exec:    exec,
		name:    DefaultName,
		version: DefaultVersion,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.validator == nil {
		s.validator = response.New()
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{Name: s.name, Version: s.version}, nil)

	for _, d := range exec.List() {
		inputSchema, err := toolSchema(d)
		if err != nil {
			s.logger.Warn("skipping tool", "tool", d.Name, "error", err)
			continue
		}
		s.mcp.AddTool(&mcp.Tool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: inputSchema,
		}, s.handler(d.Name))
	}
	return s, nil
}

// toolSchema renders a descriptor's input schema as the generic map the
// protocol SDK accepts.
func toolSchema(d tool.Descriptor) (map[string]any, error) {
	if d.InputSchema.Type != "object" {
		return nil, fmt.Errorf("input schema type must be object, got %q", d.InputSchema.Type)
	}
	data, err := json.Marshal(d.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("encode input schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode input schema: %w", err)
	}
	return out, nil
}

func (s *Server) handler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var raw json.RawMessage
		if req != nil && req.Params != nil {
			raw = req.Params.Arguments
		}
		return callResult(s.Handle(ctx, name, raw)), nil
	}
}

// Handle decodes raw arguments, executes the tool and returns its envelope.
// Empty or null arguments are treated as an empty object.
func (s *Server) Handle(ctx context.Context, name string, raw json.RawMessage) Envelope {
	args, err := decodeArgs(raw)
	if err != nil {
		s.logger.Warn("malformed tool arguments", "tool", name, "error", err)
		return s.enforce(name, Wrap(toolerr.ValidationError("arguments must be a JSON object: "+err.Error(), name)))
	}
	return s.enforce(name, Wrap(s.exec.Execute(ctx, name, args)))
}

func decodeArgs(raw json.RawMessage) (map[string]any, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// enforce runs strict-mode validation on an envelope.
func (s *Server) enforce(name string, env Envelope) Envelope {
	if !s.strict {
		return env
	}

	var problems []string
	for _, r := range []response.ValidationResult{
		s.validator.ValidateResponseIntegrity(env),
		s.validator.ValidateMCPResponse(env),
	} {
		for _, e := range r.Errors {
			problems = append(problems, e.Error())
		}
	}
	if len(problems) == 0 {
		return env
	}

	s.logger.Error("response failed validation", "tool", name, "errors", problems)
	return failure("response failed validation: "+strings.Join(problems, "; "), &tool.Metadata{Source: name})
}

// Connect serves one session over the given transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}

// Run serves over stdin and stdout until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "name", s.name, "version", s.version, "strict", s.strict)
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
