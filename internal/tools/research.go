package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/DiversioTeam/gemini-cli-mcp/internal/gemini"
)

// researchTemplate wraps a topic in a fixed structure asking for
// overview, findings, details, and conclusions.
const researchTemplate = `Please research the following topic and provide a comprehensive analysis:

Topic: %s

Please include:
1. Overview and background
2. Key findings and insights
3. Relevant details and examples
4. Conclusions and recommendations

Be thorough but concise.`

// ResearchTool handles the gemini_research MCP tool: topic research with
// optional file context.
type ResearchTool struct {
	gemini Caller
}

// NewResearchTool creates a ResearchTool with its dependencies.
func NewResearchTool(caller Caller) *ResearchTool {
	return &ResearchTool{gemini: caller}
}

// Definition returns the MCP tool definition for registration.
func (t *ResearchTool) Definition() mcp.Tool {
	return mcp.NewTool("gemini_research",
		mcp.WithDescription("Use Gemini to research a topic with optional file context"),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("The research topic or question"),
		),
		mcp.WithArray("files",
			mcp.Description("List of file paths to include as context"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("model",
			mcp.Description(modelDescription),
		),
	)
}

// Handle processes the gemini_research tool call.
func (t *ResearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := req.GetString("topic", "")
	if topic == "" {
		return mcp.NewToolResultError("'topic' is required"), nil
	}

	files, err := stringSliceArg(req, "files")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := t.gemini.Run(ctx, gemini.Request{
		Prompt: fmt.Sprintf(researchTemplate, topic),
		Model:  req.GetString("model", ""),
		Files:  files,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
