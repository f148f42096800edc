package exec

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"
)

// Runner executes a literal command line and returns its trimmed output.
//
// Stream handling is part of the command line itself: "2>&1" merges stderr
// into the returned text and "2>/dev/null" discards it. An empty string with
// a nil error means the command ran and printed nothing.
type Runner interface {
	Output(ctx context.Context, commandLine string) (string, error)
}

// DefaultShell is the interpreter ShellRunner uses when none is configured.
const DefaultShell = "/bin/sh"

// ShellRunner runs command lines through a POSIX shell.
type ShellRunner struct {
	// Shell is the interpreter path, DefaultShell when empty
	Shell string

	// Timeout bounds each command; zero leaves it to the caller's context
	Timeout time.Duration
}

// NewShellRunner returns a ShellRunner using DefaultShell and the given timeout.
func NewShellRunner(timeout time.Duration) *ShellRunner {
	return &ShellRunner{Shell: DefaultShell, Timeout: timeout}
}

// Output runs commandLine with "sh -c". The program named by the first word
// must be resolvable on PATH (or be an executable path); otherwise the
// command is not started and an error is returned. Commands run with the C
// locale so their output is stable across hosts. A non-zero exit status is
// not an error: whatever the command printed is returned.
func (r *ShellRunner) Output(ctx context.Context, commandLine string) (string, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return "", errors.New("empty command line")
	}
	if _, err := BinaryPath(fields[0]); err != nil {
		return "", err
	}

	shell := r.Shell
	if shell == "" {
		shell = DefaultShell
	}

	result, err := Run(ctx, Config{
		Command: shell,
		Args:    []string{"-c", commandLine},
		Env:     append(os.Environ(), "LANG=C", "LC_ALL=C"),
		Timeout: r.Timeout,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(result.Stdout)), nil
}
