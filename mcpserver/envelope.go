package mcpserver

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/zero-day-ai/youtube-mcp/tool"
)

// ContentTypeText is the only content type the server emits.
const ContentTypeText = "text"

// Content is one element of an envelope's content list.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Envelope is the protocol-level shape of every tool response.
type Envelope struct {
	Success  bool           `json:"success"`
	Content  []Content      `json:"content"`
	Error    string         `json:"error,omitempty"`
	Metadata *tool.Metadata `json:"metadata,omitempty"`
}

// Wrap converts a tool result into an envelope. Successful data is rendered
// as indented JSON text; a failure carries its message both as text content
// and in Error.
func Wrap(res tool.Result) Envelope {
	if !res.Success {
		return failure(res.Error, res.Metadata)
	}

	text, err := json.MarshalIndent(res.Data, "", "  ")
	if err != nil {
		return failure("failed to encode result: "+err.Error(), res.Metadata)
	}
	return Envelope{
		Success:  true,
		Content:  []Content{{Type: ContentTypeText, Text: string(text)}},
		Metadata: res.Metadata,
	}
}

func failure(msg string, meta *tool.Metadata) Envelope {
	if msg == "" {
		msg = "tool execution failed"
	}
	return Envelope{
		Success:  false,
		Content:  []Content{{Type: ContentTypeText, Text: msg}},
		Error:    msg,
		Metadata: meta,
	}
}

// callResult converts an envelope into the SDK result type. The full
// envelope, metadata included, is also attached as structured content.
func callResult(env Envelope) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(env.Content))
	for _, c := range env.Content {
		content = append(content, &mcp.TextContent{Text: c.Text})
	}
	return &mcp.CallToolResult{
		Content:           content,
		StructuredContent: env,
		IsError:           !env.Success,
	}
}
