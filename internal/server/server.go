// Package server wires the MCP components and creates the server
// instance. This is the composition root: it creates the path guard,
// the gemini client, and the tool registry, and registers everything
// with the mcp-go server. No business logic lives here — only wiring.
package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DiversioTeam/gemini-cli-mcp/internal/config"
	"github.com/DiversioTeam/gemini-cli-mcp/internal/gemini"
	"github.com/DiversioTeam/gemini-cli-mcp/internal/history"
	"github.com/DiversioTeam/gemini-cli-mcp/internal/logging"
	"github.com/DiversioTeam/gemini-cli-mcp/internal/pathguard"
	"github.com/DiversioTeam/gemini-cli-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with the four gemini tools
// registered. The returned cleanup function closes the history store and
// must be called on shutdown; it is always non-nil and safe to call
// even when history is disabled.
func New(cfg *config.Config) (*server.MCPServer, func(), error) {
	log := logging.Component("server")

	guard, err := pathguard.New(cfg.AllowedDirs)
	if err != nil {
		return nil, noop, fmt.Errorf("creating path guard: %w", err)
	}
	log.WithField("allowed_dirs", strings.Join(guard.Roots(), ", ")).Info("file access restricted")

	client, err := gemini.New(guard,
		gemini.WithBinary(cfg.GeminiCmd),
		gemini.WithDefaultModel(cfg.DefaultModel),
	)
	if err != nil {
		return nil, noop, err
	}

	// MCP logging/setLevel maps straight onto the process logger.
	hooks := &server.Hooks{}
	hooks.AddAfterSetLevel(func(ctx context.Context, id any, message *mcp.SetLevelRequest, result *mcp.EmptyResult) {
		logging.SetMCPLevel(string(message.Params.Level))
	})

	s := server.NewMCPServer(
		"gemini-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
		server.WithHooks(hooks),
		server.WithInstructions(serverInstructions()),
	)

	// History is an independent subsystem: if it fails to open, the
	// tools keep working and calls simply go unrecorded.
	cleanup := noop
	var hist *history.Store
	if cfg.HistoryDB != "" {
		hist, err = history.Open(cfg.HistoryDB)
		if err != nil {
			log.WithError(err).Warn("invocation history disabled")
			hist = nil
		} else {
			cleanup = func() {
				if err := hist.Close(); err != nil {
					log.WithError(err).Warn("history store close")
				}
			}
		}
	}

	registry := tools.NewRegistry(client)
	register := func(def mcp.Tool, handler server.ToolHandlerFunc) {
		s.AddTool(def, withTimeout(cfg.Timeout(), withHistory(hist, def.Name, handler)))
	}
	register(registry.Prompt.Definition(), registry.Prompt.Handle)
	register(registry.Research.Definition(), registry.Research.Handle)
	register(registry.Analyze.Definition(), registry.Analyze.Handle)
	register(registry.Summarize.Definition(), registry.Summarize.Handle)

	log.WithField("version", Version).WithField("gemini", client.Binary()).Info("gemini MCP server ready")

	return s, cleanup, nil
}

// noop is the default cleanup when history is disabled.
func noop() {}

// withTimeout caps a tool invocation with a deadline. The gemini client
// cleans up its temporary artifacts on cancellation before the handler
// returns, so the cap is safe to apply above it.
func withTimeout(d time.Duration, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	if d <= 0 {
		return next
	}
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next(ctx, req)
	}
}

// withHistory records each completed invocation. Recording is
// best-effort: a history failure is logged, never surfaced.
func withHistory(hist *history.Store, tool string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	if hist == nil {
		return next
	}
	log := logging.Component("history")
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := next(ctx, req)

		status, detail := classifyOutcome(result, err)
		entry := history.Entry{
			Tool:       tool,
			Model:      req.GetString("model", ""),
			Status:     status,
			Error:      detail,
			DurationMS: time.Since(start).Milliseconds(),
		}
		if recordErr := hist.Record(entry); recordErr != nil {
			log.WithError(recordErr).Warn("failed to record invocation")
		}
		return result, err
	}
}

// classifyOutcome maps a handler outcome to a history status. Handlers
// fold typed errors into error results, so classification here reads
// the result text — coarse, but enough for an audit trail.
func classifyOutcome(result *mcp.CallToolResult, err error) (string, string) {
	if err != nil {
		return history.StatusInternal, err.Error()
	}
	if result == nil || !result.IsError {
		return history.StatusOK, ""
	}

	text := resultText(result)
	switch {
	case strings.Contains(text, "authentication error"):
		return history.StatusAuthError, text
	case strings.Contains(text, "gemini CLI error"):
		return history.StatusCommandError, text
	case strings.Contains(text, "outside allowed directories"),
		strings.Contains(text, "invalid file path"),
		strings.Contains(text, "file does not exist"):
		return history.StatusPathError, text
	default:
		return history.StatusToolError, text
	}
}

// resultText extracts the text content from a CallToolResult.
func resultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// serverInstructions tells the connected AI when to reach for the
// gemini tools.
func serverInstructions() string {
	return `This server exposes the Google Gemini CLI as four tools:

- gemini_prompt: send a prompt (with optional prepended context) and get a response
- gemini_research: research a topic, optionally grounded in local files
- gemini_analyze_code: analyze code files (review, explain, optimize, security, test)
- gemini_summarize: summarize inline content or files (brief, detailed, bullet_points, executive)

File paths passed to these tools must live inside the server's allowed
directories; anything else is rejected. Use gemini_research and
gemini_analyze_code when you want a second model's perspective grounded
in actual project files.`
}
