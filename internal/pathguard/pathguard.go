// Package pathguard restricts file access to an allow-list of directories.
//
// Every file path a tool call references must resolve to a descendant of
// (or be equal to) one of the configured root directories. Containment is
// decided by ancestor comparison over resolved paths, never by string
// prefix, so /home/al is not an ancestor of /home/alice.
package pathguard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathNotAllowedError reports a path that resolved outside every allowed root.
type PathNotAllowedError struct {
	Path    string
	Allowed []string
}

func (e *PathNotAllowedError) Error() string {
	return fmt.Sprintf("file path %q is outside allowed directories (allowed: %s)",
		e.Path, strings.Join(e.Allowed, ", "))
}

// InvalidPathError reports a path that could not be resolved at all —
// a malformed path or an OS-level resolution failure.
type InvalidPathError struct {
	Path string
	Err  error
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid file path %q: %v", e.Path, e.Err)
}

func (e *InvalidPathError) Unwrap() error { return e.Err }

// Guard holds the immutable allow-list of resolved root directories.
// Validation is a pure function of (path, roots) — a Guard is safe for
// concurrent use without synchronization.
type Guard struct {
	roots []string
}

// New creates a Guard from the configured directories. Each root is
// resolved to an absolute, symlink-free form once, at construction.
func New(roots []string) (*Guard, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("pathguard: at least one allowed directory is required")
	}

	resolved := make([]string, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("pathguard: resolving allowed directory %q: %w", root, err)
		}
		if real, err := filepath.EvalSymlinks(abs); err == nil {
			abs = real
		}
		resolved = append(resolved, abs)
	}

	return &Guard{roots: resolved}, nil
}

// Roots returns a copy of the resolved allow-list.
func (g *Guard) Roots() []string {
	out := make([]string, len(g.roots))
	copy(out, g.roots)
	return out
}

// Validate resolves raw to its canonical absolute form and proves it is
// contained in (or equal to) one of the allowed roots. The path itself
// does not have to exist — existence is the caller's concern, containment
// is ours.
func (g *Guard) Validate(raw string) (string, error) {
	resolved, err := resolve(raw)
	if err != nil {
		return "", &InvalidPathError{Path: raw, Err: err}
	}

	for _, root := range g.roots {
		if isAncestor(root, resolved) {
			return resolved, nil
		}
	}

	return "", &PathNotAllowedError{Path: raw, Allowed: g.Roots()}
}

// resolve canonicalizes a path: absolute, cleaned, symlinks evaluated.
// For paths whose leaf does not exist yet, symlinks are resolved through
// the deepest existing ancestor so traversal tricks still canonicalize.
func resolve(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("empty path")
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)

	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	parent := filepath.Dir(abs)
	if parent == abs {
		// Filesystem root reported as missing — nothing left to resolve.
		return "", err
	}
	resolvedParent, err := resolve(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(abs)), nil
}

// isAncestor reports whether path is root itself or a descendant of root,
// using segment-wise comparison rather than string prefixes.
func isAncestor(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
