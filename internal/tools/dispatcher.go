package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// UnknownToolError reports a dispatch for a tool name that was never
// registered — an integration error in the calling layer.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// Registry owns the four gemini tools. The MCP server registers each
// tool individually; Dispatch serves callers that route by name.
type Registry struct {
	Prompt    *PromptTool
	Research  *ResearchTool
	Analyze   *AnalyzeTool
	Summarize *SummarizeTool
}

// NewRegistry wires all four tools to one gemini caller.
func NewRegistry(caller Caller) *Registry {
	return &Registry{
		Prompt:    NewPromptTool(caller),
		Research:  NewResearchTool(caller),
		Analyze:   NewAnalyzeTool(caller),
		Summarize: NewSummarizeTool(caller),
	}
}

// Definitions returns the tool definitions in registration order.
func (r *Registry) Definitions() []mcp.Tool {
	return []mcp.Tool{
		r.Prompt.Definition(),
		r.Research.Definition(),
		r.Analyze.Definition(),
		r.Summarize.Definition(),
	}
}

// Dispatch routes a named tool call with a raw argument map to its
// handler. Unknown names fail with UnknownToolError.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	switch name {
	case "gemini_prompt":
		return r.Prompt.Handle(ctx, req)
	case "gemini_research":
		return r.Research.Handle(ctx, req)
	case "gemini_analyze_code":
		return r.Analyze.Handle(ctx, req)
	case "gemini_summarize":
		return r.Summarize.Handle(ctx, req)
	default:
		return nil, &UnknownToolError{Name: name}
	}
}
