package systemd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	godbus "github.com/godbus/dbus/v5"

	"github.com/trly/unitctl/internal/execx"
	"github.com/trly/unitctl/internal/unit"
)

// ErrTransport classifies every failure to talk to systemd, whether over the
// bus or through a helper process.
var ErrTransport = errors.New("transport failure")

// ErrBinaryNotFound is returned when a helper executable is not installed.
var ErrBinaryNotFound = errors.New("executable not found")

// Kind tells apart the ways a bus operation can fail.
type Kind int

const (
	// KindCall means the method call could not be built or sent.
	KindCall Kind = iota
	// KindReply means the manager answered with an error reply.
	KindReply
	// KindTimeout means the deadline passed before a reply or job result.
	KindTimeout
	// KindJob means a queued job finished with a result other than "done".
	KindJob
	// KindRejected means the request was refused before reaching the bus.
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindReply:
		return "error reply"
	case KindTimeout:
		return "timeout"
	case KindJob:
		return "job failed"
	case KindRejected:
		return "rejected"
	default:
		return "method call"
	}
}

// Error represents a failed systemd manager operation.
type Error struct {
	Op    string     // enable, disable, start, stop, list, reload
	Unit  string     // may be empty for manager-wide operations
	Scope unit.Scope // bus the operation ran on
	Kind  Kind
	Err   error
}

func (e *Error) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("systemd %s (%s): %s: %v", e.Op, e.Scope, e.Kind, e.Err)
	}
	return fmt.Sprintf("systemd %s %s (%s): %s: %v", e.Op, e.Unit, e.Scope, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes every Error match ErrTransport.
func (e *Error) Is(target error) bool {
	return target == ErrTransport
}

// NewError classifies err as returned by a go-systemd call.
func NewError(op, unitName string, scope unit.Scope, err error) *Error {
	return &Error{Op: op, Unit: unitName, Scope: scope, Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	var reply godbus.Error
	var replyPtr *godbus.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &reply), errors.As(err, &replyPtr):
		return KindReply
	default:
		return KindCall
	}
}

// ConnectionError represents an error connecting to systemd.
type ConnectionError struct {
	Scope unit.Scope
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to systemd %s bus: %v", e.Scope, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// Is makes every ConnectionError match ErrTransport.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrTransport
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(scope unit.Scope, cause error) *ConnectionError {
	return &ConnectionError{Scope: scope, Cause: cause}
}

// CommandError reports a helper process that could not run or exited non-zero.
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Command, strings.Join(e.Args, " "), e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Is makes every CommandError match ErrTransport, and ErrBinaryNotFound when
// the executable is missing.
func (e *CommandError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return true
	case ErrBinaryNotFound:
		return execx.IsNotFound(e.Err)
	}
	return false
}

func newCommandError(name string, args []string, err error) *CommandError {
	return &CommandError{
		Command:  name,
		Args:     args,
		ExitCode: execx.ExitCode(err),
		Stderr:   execx.Stderr(err),
		Err:      err,
	}
}

// IsConnectionError checks if an error is a ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsError checks if an error is a systemd Error.
func IsError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}

// IsKind checks if err is a systemd Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// IsCommandError checks if an error is a CommandError.
func IsCommandError(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}
