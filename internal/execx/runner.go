// Package execx provides a testable abstraction for command execution.
package execx

import (
	"context"
	"errors"
	"os/exec"
)

// Runner defines an interface for executing external commands.
type Runner interface {
	// Output runs the command and returns its stdout. When the command exits
	// non-zero the captured stdout is still returned alongside an *exec.ExitError.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RealRunner implements Runner using os/exec.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Output executes a command and returns its stdout.
func (r *RealRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// ExitCode extracts the process exit code from err. It returns -1 when err does
// not describe a process that ran and exited.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Stderr returns the stderr captured by Output when the command exited non-zero.
func Stderr(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(exitErr.Stderr)
	}
	return ""
}

// IsNotFound reports whether err means the executable could not be located.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}
