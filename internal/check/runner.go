package check

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Runner starts an external tool and waits for it to finish.
type Runner interface {
	// Run executes name with args in dir and returns the exit status.
	// A non-nil error means the process could not be started, or ctx was cancelled.
	Run(ctx context.Context, dir, name string, args ...string) (int, error)
}

// ExecRunner is the Runner used in production. The child inherits the given streams.
type ExecRunner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewExecRunner creates a new ExecRunner writing the child's output to stdout and stderr.
func NewExecRunner(stdin io.Reader, stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{stdin: stdin, stdout: stdout, stderr: stderr}
}

// Run executes the tool synchronously.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (int, error) {
	//nolint:gosec // the tool and its arguments come from the checker's own configuration
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// terminated by a signal
			code = 1
		}
		return code, nil
	}

	return CommandNotFoundExitCode, err
}
