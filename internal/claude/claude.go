// Package claude exposes a toolkit to Claude's tool use API.
package claude

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

// ToolParams returns one tool definition per registered tool.
func ToolParams(tk *toolkit.Toolkit) []anthropic.ToolUnionUnionParam {
	tools := tk.Tools()
	out := make([]anthropic.ToolUnionUnionParam, 0, len(tools))
	for _, tool := range tools {
		out = append(out, anthropic.ToolParam{
			Name:        anthropic.F(tool.GetName()),
			Description: anthropic.F(tool.GetDescription()),
			InputSchema: anthropic.F(tool.GetInputSchema()),
		})
	}
	return out
}

// Dispatch runs a tool call and returns the tool_result text and error flag.
// Dispatch-level rejections are reported as a JSON {code, message} object.
func Dispatch(ctx context.Context, tk *toolkit.Toolkit, name string, input json.RawMessage) (string, bool) {
	res, err := tk.Handle(ctx, name, input)
	if err == nil {
		return res.Content, res.IsError
	}

	var tkErr toolkit.Error
	if !errors.As(err, &tkErr) {
		tkErr = toolkit.Error{Code: "internal_error", Message: err.Error()}
	}
	text, mErr := json.Marshal(tkErr)
	if mErr != nil {
		return tkErr.Error(), true
	}
	return string(text), true
}

// ToolResult answers a tool_use block.
func ToolResult(ctx context.Context, tk *toolkit.Toolkit, block anthropic.ToolUseBlock) anthropic.ToolResultBlockParam {
	text, isError := Dispatch(ctx, tk, block.Name, block.Input)
	return anthropic.NewToolResultBlock(block.ID, text, isError)
}
