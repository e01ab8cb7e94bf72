package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/DiversioTeam/gemini-cli-mcp/internal/gemini"
)

// SummaryType enumerates the supported summary variants.
type SummaryType string

const (
	SummaryBrief        SummaryType = "brief"
	SummaryDetailed     SummaryType = "detailed"
	SummaryBulletPoints SummaryType = "bullet_points"
	SummaryExecutive    SummaryType = "executive"
)

// summaryPrompts maps each summary variant to its prompt template.
var summaryPrompts = map[SummaryType]string{
	SummaryBrief:        "Please provide a brief summary of the following content in 2-3 sentences.",
	SummaryDetailed:     "Please provide a detailed summary of the following content, covering all main points.",
	SummaryBulletPoints: "Please summarize the following content as bullet points.",
	SummaryExecutive:    "Please provide an executive summary of the following content suitable for decision makers.",
}

// missingInputMessage is returned as a normal text result, not an error,
// when a summarize call supplies neither content nor files. Callers have
// historically depended on this degrading gracefully.
const missingInputMessage = "Error: Either content or files must be provided for summarization."

// SummaryTypeValues returns the enum values for the tool schema.
func SummaryTypeValues() []string {
	return []string{
		string(SummaryBrief),
		string(SummaryDetailed),
		string(SummaryBulletPoints),
		string(SummaryExecutive),
	}
}

// Prompt returns the prompt template for this summary type; unknown
// types fall back to brief.
func (s SummaryType) Prompt() string {
	if p, ok := summaryPrompts[s]; ok {
		return p
	}
	return summaryPrompts[SummaryBrief]
}

// SummarizeTool handles the gemini_summarize MCP tool: summarization of
// inline content or files.
type SummarizeTool struct {
	gemini Caller
}

// NewSummarizeTool creates a SummarizeTool with its dependencies.
func NewSummarizeTool(caller Caller) *SummarizeTool {
	return &SummarizeTool{gemini: caller}
}

// Definition returns the MCP tool definition for registration.
func (t *SummarizeTool) Definition() mcp.Tool {
	return mcp.NewTool("gemini_summarize",
		mcp.WithDescription("Use Gemini to summarize content from files or text"),
		mcp.WithString("content",
			mcp.Description("Text content to summarize"),
		),
		mcp.WithArray("files",
			mcp.Description("Files to summarize (alternative to content)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("summary_type",
			mcp.Description("Type of summary"),
			mcp.Enum(SummaryTypeValues()...),
			mcp.DefaultString(string(SummaryBrief)),
		),
		mcp.WithString("model",
			mcp.Description(modelDescription),
		),
	)
}

// Handle processes the gemini_summarize tool call.
func (t *SummarizeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := req.GetString("content", "")
	files, err := stringSliceArg(req, "files")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if content == "" && len(files) == 0 {
		return mcp.NewToolResultText(missingInputMessage), nil
	}

	prompt := SummaryType(req.GetString("summary_type", string(SummaryBrief))).Prompt()
	model := req.GetString("model", "")

	// Inline content wins: it is folded into the prompt and files are
	// not attached.
	greq := gemini.Request{Model: model}
	if content != "" {
		greq.Prompt = fmt.Sprintf("%s\n\nContent:\n%s", prompt, content)
	} else {
		greq.Prompt = prompt
		greq.Files = files
	}

	out, err := t.gemini.Run(ctx, greq)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
