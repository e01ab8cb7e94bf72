// Package gemini builds and executes gemini CLI invocations.
//
// The Client is the command-execution core: it validates file references
// through the path guard, marshals file lists into the CLI via a
// temporary side-channel file, runs the binary through a Runner, and
// classifies failures. It holds no mutable state between calls, so one
// Client serves concurrent tool invocations.
package gemini

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/DiversioTeam/gemini-cli-mcp/internal/logging"
	"github.com/DiversioTeam/gemini-cli-mcp/internal/pathguard"
)

// DefaultModel is used when a tool call does not name a model.
const DefaultModel = "gemini-2.5-pro"

// Request describes one gemini CLI call.
type Request struct {
	// Prompt is the finished prompt text. Required.
	Prompt string

	// Model selects the gemini model; empty means the client default.
	Model string

	// Files are paths to attach as context. Each must pass the path
	// guard and exist on disk.
	Files []string

	// Stdin, when non-empty, replaces the generated file-listing payload.
	Stdin string
}

// Client executes requests against the gemini CLI.
type Client struct {
	binary       string
	defaultModel string
	guard        *pathguard.Guard
	runner       Runner
	log          *logrus.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithBinary overrides the binary name or path looked up at construction.
func WithBinary(name string) Option {
	return func(c *Client) { c.binary = name }
}

// WithDefaultModel overrides the model used when requests leave it empty.
func WithDefaultModel(model string) Option {
	return func(c *Client) { c.defaultModel = model }
}

// WithRunner substitutes the process runner. Tests inject fakes here.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.runner = r }
}

// New resolves the gemini binary in PATH (once, at startup) and returns
// a ready Client.
func New(guard *pathguard.Guard, opts ...Option) (*Client, error) {
	c := &Client{
		binary:       "gemini",
		defaultModel: DefaultModel,
		guard:        guard,
		runner:       ExecRunner{},
		log:          logging.Component("gemini"),
	}
	for _, opt := range opts {
		opt(c)
	}

	path, err := exec.LookPath(c.binary)
	if err != nil {
		return nil, fmt.Errorf("gemini CLI not found in PATH: %w", err)
	}
	c.binary = path
	c.log.WithField("path", c.binary).Info("found gemini CLI")

	return c, nil
}

// Binary returns the resolved binary path.
func (c *Client) Binary() string { return c.binary }

// Guard returns the path guard the client validates file paths against.
func (c *Client) Guard() *pathguard.Guard { return c.guard }

// Run builds the invocation for req, executes it, and returns trimmed
// stdout. A nonzero exit becomes an AuthenticationError or CommandError.
// The temporary file listing, if one was created, is removed before Run
// returns, on every path.
func (c *Client) Run(ctx context.Context, req Request) (string, error) {
	inv, cleanup, err := c.buildInvocation(req)
	if err != nil {
		return "", err
	}
	defer cleanup()

	c.log.WithFields(logrus.Fields{
		"model": modelOf(inv.Args),
		"args":  len(inv.Args),
		"stdin": len(inv.Stdin),
	}).Debug("running gemini CLI")

	res, err := c.runner.Run(ctx, inv)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", classifyExit(res)
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// buildInvocation assembles the argument vector and stdin payload. The
// returned cleanup removes the temporary file listing and is always
// non-nil; when validation fails no temporary artifact exists and no
// partial invocation is returned.
func (c *Client) buildInvocation(req Request) (Invocation, func(), error) {
	noop := func() {}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	inv := Invocation{
		Binary: c.binary,
		Args:   []string{"-m", model, "-p", req.Prompt},
	}

	if len(req.Files) == 0 {
		if req.Stdin != "" {
			inv.Stdin = []byte(req.Stdin)
		}
		return inv, noop, nil
	}

	// Validate every path before touching the filesystem for the
	// listing — any failure aborts with no artifact created.
	validated := make([]string, 0, len(req.Files))
	for _, file := range req.Files {
		resolved, err := c.guard.Validate(file)
		if err != nil {
			return Invocation{}, noop, err
		}
		if _, err := os.Stat(resolved); err != nil {
			if os.IsNotExist(err) {
				return Invocation{}, noop, &FileNotFoundError{Path: file}
			}
			return Invocation{}, noop, fmt.Errorf("checking %s: %w", file, err)
		}
		validated = append(validated, resolved)
	}

	listing, err := writeListing(validated)
	if err != nil {
		return Invocation{}, noop, err
	}
	cleanup := func() {
		if err := os.Remove(listing); err != nil && !os.IsNotExist(err) {
			c.log.WithError(err).WithField("path", listing).
				Warn("failed to remove temporary file listing")
		}
	}

	payload, err := os.ReadFile(listing)
	if err != nil {
		cleanup()
		return Invocation{}, noop, fmt.Errorf("reading file listing: %w", err)
	}

	// -a tells the CLI to attach the files named on stdin.
	inv.Args = append(inv.Args, "-a")
	if req.Stdin != "" {
		inv.Stdin = []byte(req.Stdin)
	} else {
		inv.Stdin = payload
	}

	return inv, cleanup, nil
}

// writeListing writes the validated paths, one per line, to a uniquely
// named temporary file and returns its path. The file is fully written
// and closed before the caller reads it back.
func writeListing(paths []string) (string, error) {
	f, err := os.CreateTemp("", "gemini-files-*.txt")
	if err != nil {
		return "", fmt.Errorf("creating file listing: %w", err)
	}
	for _, p := range paths {
		if _, err := fmt.Fprintln(f, p); err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("writing file listing: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("closing file listing: %w", err)
	}
	return f.Name(), nil
}

// modelOf extracts the -m value from an argument vector, for logging.
func modelOf(args []string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-m" {
			return args[i+1]
		}
	}
	return ""
}
