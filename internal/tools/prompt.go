package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/DiversioTeam/gemini-cli-mcp/internal/gemini"
)

// PromptTool handles the gemini_prompt MCP tool: a direct prompt with
// optional prepended context. It never references files.
type PromptTool struct {
	gemini Caller
}

// NewPromptTool creates a PromptTool with its dependencies.
func NewPromptTool(caller Caller) *PromptTool {
	return &PromptTool{gemini: caller}
}

// Definition returns the MCP tool definition for registration.
func (t *PromptTool) Definition() mcp.Tool {
	return mcp.NewTool("gemini_prompt",
		mcp.WithDescription("Send a prompt to Gemini CLI and get a response"),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The prompt to send to Gemini"),
		),
		mcp.WithString("model",
			mcp.Description(modelDescription),
		),
		mcp.WithString("context",
			mcp.Description("Additional context to prepend to the prompt"),
		),
	)
}

// Handle processes the gemini_prompt tool call.
func (t *PromptTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt := req.GetString("prompt", "")
	if prompt == "" {
		return mcp.NewToolResultError("'prompt' is required"), nil
	}

	if extra := req.GetString("context", ""); extra != "" {
		prompt = extra + "\n\n" + prompt
	}

	out, err := t.gemini.Run(ctx, gemini.Request{
		Prompt: prompt,
		Model:  req.GetString("model", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
