package gemini

import (
	"fmt"
	"strings"
)

// AuthenticationError means the gemini CLI refused the call because no
// valid credentials are present. It carries remediation guidance — this
// is not recoverable without operator intervention.
type AuthenticationError struct {
	Stderr string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("gemini CLI authentication error: %s\nPlease run 'gemini auth login' to authenticate.", e.Stderr)
}

// CommandError is any other nonzero exit from the gemini CLI. It carries
// the raw stderr text for diagnostics.
type CommandError struct {
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("gemini CLI error (exit %d): %s", e.ExitCode, e.Stderr)
}

// FileNotFoundError names a path that passed containment validation but
// does not exist on the filesystem. Distinct from pathguard errors so
// callers can tell "forbidden" from "missing".
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file does not exist: %s", e.Path)
}

// authMarkers are stderr substrings that indicate a credential failure.
// The gemini CLI exposes no structured error codes, so classification is
// best-effort text inspection and may misread ambiguous messages.
var authMarkers = []string{"not authenticated", "login required", "auth", "credentials"}

// LooksLikeAuthError reports whether stderr text matches a known
// authentication-failure marker, case-insensitively.
func LooksLikeAuthError(stderr string) bool {
	lower := strings.ToLower(stderr)
	for _, marker := range authMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// classifyExit turns a nonzero exit into an AuthenticationError or a
// generic CommandError based on the captured stderr. Kept as the single
// classification site so a structured error channel, if the CLI ever
// grows one, replaces exactly one function.
func classifyExit(res Result) error {
	stderr := strings.TrimSpace(string(res.Stderr))
	if LooksLikeAuthError(stderr) {
		return &AuthenticationError{Stderr: stderr}
	}
	return &CommandError{ExitCode: res.ExitCode, Stderr: stderr}
}
