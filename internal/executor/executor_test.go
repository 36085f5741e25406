package executor

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestRun(t *testing.T) {
	exec := OSRunner{}

	t.Run("SimpleCommand", func(t *testing.T) {
		res, err := exec.Run(context.Background(), []string{"echo", "hello"}, "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(res.Stdout) != "hello" {
			t.Errorf("expected stdout 'hello', got %q", res.Stdout)
		}
		if res.ExitCode != 0 {
			t.Errorf("expected exit code 0, got %d", res.ExitCode)
		}
	})

	t.Run("EmptyCommand", func(t *testing.T) {
		_, err := exec.Run(context.Background(), []string{}, "", nil)
		if err != os.ErrInvalid {
			t.Errorf("expected os.ErrInvalid, got %v", err)
		}
	})

	t.Run("NonZeroExit", func(t *testing.T) {
		cmd := []string{"false"}
		if runtime.GOOS == "windows" {
			cmd = []string{"cmd", "/c", "exit 1"}
		}
		res, err := exec.Run(context.Background(), cmd, "", nil)
		if err != nil {
			t.Fatalf("expected nil error for non-zero exit, got %v", err)
		}
		if res.ExitCode != 1 {
			t.Errorf("expected exit code 1, got %d", res.ExitCode)
		}
	})

	t.Run("Stderr", func(t *testing.T) {
		cmd := []string{"sh", "-c", "echo error >&2"}
		if runtime.GOOS == "windows" {
			cmd = []string{"cmd", "/c", "echo error 1>&2"}
		}
		res, err := exec.Run(context.Background(), cmd, "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(res.Stderr) != "error" {
			t.Errorf("expected stderr 'error', got %q", res.Stderr)
		}
	})

	t.Run("CommandNotFound", func(t *testing.T) {
		_, err := exec.Run(context.Background(), []string{"definitely-not-a-real-command-xyz"}, "", nil)
		if err == nil {
			t.Fatal("expected error for missing command")
		}
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) {
			t.Fatalf("expected CommandError, got %T", err)
		}
		if cmdErr.Stage != "start" {
			t.Errorf("expected stage 'start', got %q", cmdErr.Stage)
		}
		if !IsNotFound(err) {
			t.Errorf("expected IsNotFound to report true for %v", err)
		}
	})

	t.Run("MissingAbsolutePath", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("Skipping absolute path test on Windows")
		}
		_, err := exec.Run(context.Background(), []string{"/nonexistent/dir/tool"}, "", nil)
		if err == nil {
			t.Fatal("expected error for missing binary")
		}
		if !IsNotFound(err) {
			t.Errorf("expected IsNotFound to report true for %v", err)
		}
	})

	t.Run("ContextCancellation", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("Skipping cancellation test on Windows")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_, err := exec.Run(ctx, []string{"sleep", "10"}, "", nil)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) || cmdErr.Stage != "wait" {
			t.Errorf("expected CommandError at stage 'wait', got %v", err)
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if IsNotFound(errors.New("some other failure")) {
		t.Error("expected IsNotFound to report false for unrelated error")
	}
	if IsNotFound(nil) {
		t.Error("expected IsNotFound to report false for nil")
	}
}
