// Package executor runs external commands and captures their complete
// outcome. Output is buffered in full before returning; the wrapped tool
// emits JSON payloads on stdout and truncating them would corrupt the
// result, so there is no size cap.
package executor

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
)

// Result represents the outcome of a command execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands. A non-zero exit is not an error at
// this level: it is reported through Result.ExitCode with a nil error.
// A non-nil error means the process could not be started or waited on.
type Runner interface {
	Run(ctx context.Context, command []string, dir string, env []string) (*Result, error)
}

// OSRunner implements Runner using os/exec for real system commands.
type OSRunner struct{}

// Run executes a command and returns the result. It buffers output
// internally and blocks until the process exits or ctx is cancelled.
func (OSRunner) Run(ctx context.Context, command []string, dir string, env []string) (*Result, error) {
	if len(command) == 0 {
		return nil, os.ErrInvalid
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = nil

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err, Stage: "start"}
	}

	err := cmd.Wait()

	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, &CommandError{Cmd: command[0], Cause: ctx.Err(), Stage: "wait"}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, &CommandError{Cmd: command[0], Cause: err, Stage: "wait"}
	}

	return res, nil
}

// IsNotFound reports whether err indicates the command binary could not
// be located at all, as opposed to a failure of a command that ran.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
