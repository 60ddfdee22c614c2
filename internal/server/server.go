// Package server exposes a toolkit over the Model Context Protocol.
package server

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

// New creates an MCP server carrying every tool of tk.
func New(name, version string, tk *toolkit.Toolkit) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)
	Attach(srv, tk)
	return srv
}

// Attach registers every tool of tk with srv. Arguments are validated by the
// toolkit before the tool runs.
func Attach(srv *mcp.Server, tk *toolkit.Toolkit) {
	for _, tool := range tk.Tools() {
		srv.AddTool(&mcp.Tool{
			Name:         tool.GetName(),
			Description:  tool.GetDescription(),
			InputSchema:  tool.GetInputSchema(),
			OutputSchema: tool.GetOutputSchema(),
		}, handler(tk, tool.GetName()))
	}
}

func handler(tk *toolkit.Toolkit, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := tk.Handle(ctx, name, req.Params.Arguments)
		if err != nil {
			var tkErr toolkit.Error
			if errors.As(err, &tkErr) {
				return &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{Text: tkErr.Message}},
					IsError: true,
				}, nil
			}
			return nil, err
		}
		return toCallToolResult(res), nil
	}
}

func toCallToolResult(res toolkit.Result) *mcp.CallToolResult {
	out := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: res.Content}},
		IsError: res.IsError,
	}
	if res.Structured != nil {
		out.StructuredContent = res.Structured
	}
	return out
}
