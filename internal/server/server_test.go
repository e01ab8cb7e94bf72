package server

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiversioTeam/gemini-cli-mcp/internal/config"
	"github.com/DiversioTeam/gemini-cli-mcp/internal/history"
)

// installFakeGemini puts an executable gemini stub on PATH so client
// construction succeeds without the real CLI.
func installFakeGemini(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "gemini")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", dir)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		GeminiCmd:    "gemini",
		DefaultModel: "gemini-2.5-pro",
		AllowedDirs:  []string{t.TempDir()},
		TimeoutSecs:  30,
		HistoryDB:    filepath.Join(t.TempDir(), "history.db"),
	}
}

func TestNew_WiresServerAndCleanup(t *testing.T) {
	installFakeGemini(t)

	s, cleanup, err := New(testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NotNil(t, cleanup)
	cleanup()
}

func TestNew_HistoryFailureDoesNotFailStartup(t *testing.T) {
	installFakeGemini(t)

	cfg := testConfig(t)
	// A directory is not a usable database file path.
	cfg.HistoryDB = t.TempDir()

	s, cleanup, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, s)
	cleanup()
}

func TestNew_MissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, cleanup, err := New(testConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in PATH")
	require.NotNil(t, cleanup)
	cleanup()
}

func TestWithTimeout_SetsDeadline(t *testing.T) {
	var sawDeadline bool
	handler := withTimeout(time.Minute, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		_, sawDeadline = ctx.Deadline()
		return mcp.NewToolResultText("ok"), nil
	})

	_, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, sawDeadline)
}

func TestWithTimeout_ZeroDisablesDeadline(t *testing.T) {
	var sawDeadline bool
	handler := withTimeout(0, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		_, sawDeadline = ctx.Deadline()
		return mcp.NewToolResultText("ok"), nil
	})

	_, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.False(t, sawDeadline)
}

func TestWithHistory_RecordsOutcome(t *testing.T) {
	hist, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer func() { _ = hist.Close() }()

	handler := withHistory(hist, "gemini_prompt", func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("answer"), nil
	})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"model": "gemini-2.5-flash"}
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "answer", resultText(res))

	entries, err := hist.Recent(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gemini_prompt", entries[0].Tool)
	assert.Equal(t, "gemini-2.5-flash", entries[0].Model)
	assert.Equal(t, history.StatusOK, entries[0].Status)
}

func TestWithHistory_NilStorePassesThrough(t *testing.T) {
	called := false
	handler := withHistory(nil, "gemini_prompt", func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("ok"), nil
	})

	_, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestClassifyOutcome(t *testing.T) {
	cases := []struct {
		name   string
		result *mcp.CallToolResult
		err    error
		want   string
	}{
		{"success", mcp.NewToolResultText("fine"), nil, history.StatusOK},
		{"internal", nil, errors.New("handler panic"), history.StatusInternal},
		{"auth", mcp.NewToolResultError("gemini CLI authentication error: not authenticated"), nil, history.StatusAuthError},
		{"command", mcp.NewToolResultError("gemini CLI error (exit 2): overloaded"), nil, history.StatusCommandError},
		{"path", mcp.NewToolResultError(`file path "/x" is outside allowed directories (allowed: /y)`), nil, history.StatusPathError},
		{"missing file", mcp.NewToolResultError("file does not exist: /y/gone.txt"), nil, history.StatusPathError},
		{"other", mcp.NewToolResultError("'prompt' is required"), nil, history.StatusToolError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := classifyOutcome(tc.result, tc.err)
			assert.Equal(t, tc.want, status)
		})
	}
}
