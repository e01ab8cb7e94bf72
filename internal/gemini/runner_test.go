package gemini

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_CapturesStdout(t *testing.T) {
	res, err := ExecRunner{}.Run(context.Background(), Invocation{
		Binary: "sh",
		Args:   []string{"-c", "printf hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello", string(res.Stdout))
}

func TestExecRunner_WritesStdin(t *testing.T) {
	res, err := ExecRunner{}.Run(context.Background(), Invocation{
		Binary: "cat",
		Stdin:  []byte("line one\nline two\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(res.Stdout))
}

func TestExecRunner_NonzeroExitIsAResult(t *testing.T) {
	res, err := ExecRunner{}.Run(context.Background(), Invocation{
		Binary: "sh",
		Args:   []string{"-c", "echo broken >&2; exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, string(res.Stderr), "broken")
}

func TestExecRunner_ContextDeadlineKillsChild(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := ExecRunner{}.Run(ctx, Invocation{
		Binary: "sh",
		Args:   []string{"-c", "sleep 10"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), Invocation{
		Binary: "/no/such/binary-zz",
	})
	require.Error(t, err)
}
