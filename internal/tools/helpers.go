// Package tools implements the MCP tool handlers that front the gemini
// CLI. Each tool lives in its own file as a struct with a Definition for
// registration and a Handle compatible with mcp-go's CallToolRequest
// signature; all of them build a task-specific prompt and delegate to
// the gemini client.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/DiversioTeam/gemini-cli-mcp/internal/gemini"
)

// Caller runs one gemini CLI call. Implemented by *gemini.Client; tests
// substitute a recording fake.
type Caller interface {
	Run(ctx context.Context, req gemini.Request) (string, error)
}

// stringSliceArg reads an optional array-of-strings argument. MCP
// arguments arrive as decoded JSON, so the slice is []interface{}.
func stringSliceArg(req mcp.CallToolRequest, key string) ([]string, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}

	switch typed := raw.(type) {
	case []interface{}:
		out := make([]string, 0, len(typed))
		for i, item := range typed {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", key, i)
			}
			if s = strings.TrimSpace(s); s == "" {
				return nil, fmt.Errorf("%s[%d] must be a non-empty string", key, i)
			}
			out = append(out, s)
		}
		return out, nil
	case []string:
		out := make([]string, 0, len(typed))
		for i, item := range typed {
			if item = strings.TrimSpace(item); item == "" {
				return nil, fmt.Errorf("%s[%d] must be a non-empty string", key, i)
			}
			out = append(out, item)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be an array of strings", key)
	}
}

// modelDescription is the shared help text for the optional model parameter.
var modelDescription = fmt.Sprintf("The model to use (default: %s)", gemini.DefaultModel)
