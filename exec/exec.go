// Package exec provides the external command collaborator for fact
// computations. Run wraps os/exec with timeout and context handling; Runner
// is the narrow interface facts use to execute a literal command line and
// read back its text.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

var (
	// ErrTimeout is wrapped by Run when the command exceeds its timeout.
	ErrTimeout = errors.New("command timed out")

	// ErrCancelled is wrapped by Run when the parent context is cancelled.
	ErrCancelled = errors.New("command cancelled")
)

const waitDelay = time.Second

// Config holds the configuration for command execution.
type Config struct {
	// Command is the name or path of the command to execute (required)
	Command string

	// Args are the command-line arguments (optional)
	Args []string

	// Env specifies the environment variables in "KEY=value" format (optional)
	// If nil, the command inherits the parent process environment
	Env []string

	// Timeout specifies the maximum execution duration (optional)
	// If zero, no timeout is enforced (uses parent context)
	Timeout time.Duration
}

// Result holds the result of command execution.
type Result struct {
	// Stdout contains the captured stdout
	Stdout []byte

	// Stderr contains the captured stderr
	Stderr []byte

	// ExitCode is the process exit code
	ExitCode int

	// Duration is the actual execution time
	Duration time.Duration
}

// Run executes a command with the given configuration.
//
// A non-zero exit code is not treated as an error: the Result is returned
// with the exit code populated. Only failures to execute at all (binary not
// found, permission denied, timeout, cancellation) return an error, and the
// partial Result is returned alongside it.
//
// Example:
//
//	result, err := exec.Run(ctx, exec.Config{
//		Command: "/usr/bin/id",
//		Args:    []string{"-u", "puppet"},
//		Timeout: 5 * time.Second,
//	})
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Command == "" {
		return nil, errors.New("command is required")
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	// Children of a killed shell may hold the output pipes open.
	cmd.WaitDelay = waitDelay
	if cfg.Env != nil {
		cmd.Env = cfg.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return result, fmt.Errorf("%w after %v", ErrTimeout, cfg.Timeout)
		case errors.Is(ctx.Err(), context.Canceled):
			return result, ErrCancelled
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}

		return result, fmt.Errorf("command execution failed: %w", err)
	}

	return result, nil
}

// BinaryPath returns the full path to a binary in the system PATH, or, for
// an absolute or relative path, the path itself when it names an executable.
// It returns an error if the binary is not found.
func BinaryPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("binary %q not found in PATH: %w", name, err)
	}
	return path, nil
}
