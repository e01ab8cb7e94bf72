package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Invocation is one fully specified external-process call: the binary,
// its argument vector, and an optional stdin payload. It is built fresh
// per call and never mutated after construction. Each logical argument
// occupies its own vector slot — prompt content is never joined into a
// shell string, so shell metacharacters carry no meaning.
type Invocation struct {
	Binary string
	Args   []string
	Stdin  []byte
}

// Result is the captured outcome of one subprocess run.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner executes an Invocation and reports the captured result. A
// nonzero exit is a Result, not an error — errors are reserved for
// failures to run the process at all (binary missing, context canceled).
// Implementations must be safe for concurrent use; each Run spawns an
// independent child process with no shared state.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// ExecRunner runs invocations with os/exec. The argument vector is
// handed to the kernel as-is — no shell ever interprets it.
type ExecRunner struct{}

// Run spawns the binary, writes the stdin payload, and collects stdout
// and stderr until the process exits or ctx is done. On cancellation the
// child is killed and the context error is returned.
func (ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	cmd := exec.CommandContext(ctx, inv.Binary, inv.Args...)
	if len(inv.Stdin) > 0 {
		cmd.Stdin = bytes.NewReader(inv.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("running %s: %w", inv.Binary, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("running %s: %w", inv.Binary, err)
	}
	return res, nil
}
