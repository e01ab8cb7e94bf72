package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/DiversioTeam/gemini-cli-mcp/internal/gemini"
)

// AnalysisType enumerates the supported code-analysis variants.
type AnalysisType string

const (
	AnalysisReview   AnalysisType = "review"
	AnalysisExplain  AnalysisType = "explain"
	AnalysisOptimize AnalysisType = "optimize"
	AnalysisSecurity AnalysisType = "security"
	AnalysisTest     AnalysisType = "test"
)

// analysisPrompts maps each analysis variant to its base prompt.
var analysisPrompts = map[AnalysisType]string{
	AnalysisReview:   "Please review this code and identify potential issues, bugs, or areas for improvement.",
	AnalysisExplain:  "Please explain what this code does in detail, including its purpose and how it works.",
	AnalysisOptimize: "Please suggest optimizations for this code to improve performance, readability, or maintainability.",
	AnalysisSecurity: "Please analyze this code for security vulnerabilities and suggest fixes.",
	AnalysisTest:     "Please suggest test cases and testing strategies for this code.",
}

// analysisFallbackPrompt is used when the requested type isn't recognized.
const analysisFallbackPrompt = "Please analyze this code."

// AnalysisTypeValues returns the enum values for the tool schema.
func AnalysisTypeValues() []string {
	return []string{
		string(AnalysisReview),
		string(AnalysisExplain),
		string(AnalysisOptimize),
		string(AnalysisSecurity),
		string(AnalysisTest),
	}
}

// Prompt returns the base prompt for this analysis type.
func (a AnalysisType) Prompt() string {
	if p, ok := analysisPrompts[a]; ok {
		return p
	}
	return analysisFallbackPrompt
}

// AnalyzeTool handles the gemini_analyze_code MCP tool.
type AnalyzeTool struct {
	gemini Caller
}

// NewAnalyzeTool creates an AnalyzeTool with its dependencies.
func NewAnalyzeTool(caller Caller) *AnalyzeTool {
	return &AnalyzeTool{gemini: caller}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("gemini_analyze_code",
		mcp.WithDescription("Use Gemini to analyze code files"),
		mcp.WithArray("files",
			mcp.Required(),
			mcp.Description("List of code files to analyze"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("analysis_type",
			mcp.Required(),
			mcp.Description("Type of analysis to perform"),
			mcp.Enum(AnalysisTypeValues()...),
		),
		mcp.WithString("specific_question",
			mcp.Description("Specific question about the code"),
		),
		mcp.WithString("model",
			mcp.Description(modelDescription),
		),
	)
}

// Handle processes the gemini_analyze_code tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := stringSliceArg(req, "files")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(files) == 0 {
		return mcp.NewToolResultError("'files' is required and must not be empty"), nil
	}

	analysisType := AnalysisType(req.GetString("analysis_type", ""))
	if analysisType == "" {
		return mcp.NewToolResultError("'analysis_type' is required"), nil
	}

	prompt := analysisType.Prompt()
	if question := req.GetString("specific_question", ""); question != "" {
		prompt = fmt.Sprintf("%s\n\nSpecific question: %s", prompt, question)
	}

	out, err := t.gemini.Run(ctx, gemini.Request{
		Prompt: prompt,
		Model:  req.GetString("model", ""),
		Files:  files,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
