package tools

import (
	"context"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/DiversioTeam/gemini-cli-mcp/internal/gemini"
)

// fakeCaller records gemini requests and replays a canned answer.
type fakeCaller struct {
	mu   sync.Mutex
	reqs []gemini.Request
	out  string
	err  error
}

func (f *fakeCaller) Run(_ context.Context, req gemini.Request) (string, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	return f.out, f.err
}

func (f *fakeCaller) lastRequest(t *testing.T) gemini.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.reqs, "expected the gemini caller to be invoked")
	return f.reqs[len(f.reqs)-1]
}

func (f *fakeCaller) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

func callReq(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}
