// Package fakerunner provides a fake implementation of execx.Runner for testing.
package fakerunner

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Runner is a fake implementation of execx.Runner for testing.
// It is safe for concurrent use so that both scopes can be refreshed in parallel.
type Runner struct {
	mu      sync.Mutex
	outputs map[string][]byte
	errors  map[string]error
	calls   []Call
}

// Call represents a captured command execution call.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a shell-like command line.
func (c Call) String() string {
	return makeKey(c.Name, c.Args)
}

// New creates a new fake runner.
func New() *Runner {
	return &Runner{
		outputs: make(map[string][]byte),
		errors:  make(map[string]error),
		calls:   []Call{},
	}
}

// SetOutput sets the output for a specific command.
func (r *Runner) SetOutput(name string, args []string, output []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs[makeKey(name, args)] = output
}

// SetError sets the error for a specific command.
func (r *Runner) SetError(name string, args []string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors[makeKey(name, args)] = err
}

// SetResult sets both output and error for a command. This mirrors commands
// such as `systemctl is-active` that exit non-zero while still printing.
func (r *Runner) SetResult(name string, args []string, output []byte, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := makeKey(name, args)
	r.outputs[key] = output
	r.errors[key] = err
}

// Output implements execx.Runner.
func (r *Runner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	return r.record(name, args)
}

func (r *Runner) record(name string, args []string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, Call{Name: name, Args: append([]string(nil), args...)})

	key := makeKey(name, args)
	output, hasOutput := r.outputs[key]
	err, hasErr := r.errors[key]

	switch {
	case hasErr:
		return output, err
	case hasOutput:
		return output, nil
	}

	// Default behavior - return empty output and no error
	return []byte{}, nil
}

// GetCalls returns all captured command calls.
func (r *Runner) GetCalls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Reset clears all stored outputs, errors, and calls.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = make(map[string][]byte)
	r.errors = make(map[string]error)
	r.calls = []Call{}
}

func makeKey(name string, args []string) string {
	return fmt.Sprintf("%s %s", name, strings.Join(args, " "))
}
