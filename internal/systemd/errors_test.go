package systemd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"

	godbus "github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"

	"github.com/trly/unitctl/internal/unit"
)

func TestError(t *testing.T) {
	t.Run("Error returns formatted message", func(t *testing.T) {
		err := &Error{Op: "start", Unit: "foo.service", Scope: unit.ScopeUser, Kind: KindJob, Err: errors.New("failed")}
		assert.Equal(t, "systemd start foo.service (user): job failed: failed", err.Error())
	})

	t.Run("without unit", func(t *testing.T) {
		err := &Error{Op: "reload", Scope: unit.ScopeSystem, Kind: KindReply, Err: errors.New("denied")}
		assert.Equal(t, "systemd reload (system): error reply: denied", err.Error())
	})

	t.Run("Unwrap returns underlying error", func(t *testing.T) {
		inner := errors.New("connection refused")
		err := NewError("enable", "foo.service", unit.ScopeSystem, inner)
		assert.Equal(t, inner, errors.Unwrap(err))
		assert.ErrorIs(t, err, inner)
	})

	t.Run("matches transport taxonomy", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewError("enable", "foo.service", unit.ScopeSystem, errors.New("x")))
		assert.ErrorIs(t, err, ErrTransport)
		assert.True(t, IsError(err))
		assert.False(t, IsError(errors.New("x")))
	})
}

func TestNewError_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindTimeout},
		{"error reply", godbus.Error{Name: "org.freedesktop.systemd1.NoSuchUnit"}, KindReply},
		{"error reply pointer", godbus.NewError("org.freedesktop.DBus.Error.AccessDenied", nil), KindReply},
		{"other", errors.New("invalid object path"), KindCall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewError("start", "a.service", unit.ScopeSystem, tt.err)
			assert.Equal(t, tt.want, err.Kind)
			assert.True(t, IsKind(err, tt.want))
		})
	}
}

func TestConnectionError(t *testing.T) {
	t.Run("Error returns formatted message for user mode", func(t *testing.T) {
		err := NewConnectionError(unit.ScopeUser, errors.New("permission denied"))
		assert.Equal(t, "failed to connect to systemd user bus: permission denied", err.Error())
	})

	t.Run("Error returns formatted message for system mode", func(t *testing.T) {
		err := NewConnectionError(unit.ScopeSystem, errors.New("permission denied"))
		assert.Equal(t, "failed to connect to systemd system bus: permission denied", err.Error())
	})

	t.Run("IsConnectionError detects ConnectionError", func(t *testing.T) {
		originalErr := errors.New("permission denied")
		err := NewConnectionError(unit.ScopeUser, originalErr)

		assert.True(t, IsConnectionError(err))
		assert.False(t, IsConnectionError(originalErr))
		assert.ErrorIs(t, err, ErrTransport)
		assert.ErrorIs(t, err, originalErr)
	})
}

func TestCommandError(t *testing.T) {
	t.Run("message includes stderr", func(t *testing.T) {
		err := &CommandError{Command: "systemctl", Args: []string{"cat", "x.service"}, Err: errors.New("exit status 1"), Stderr: "No files found for x.service.\n"}
		assert.Equal(t, "systemctl cat x.service: exit status 1: No files found for x.service.", err.Error())
		assert.ErrorIs(t, err, ErrTransport)
		assert.NotErrorIs(t, err, ErrBinaryNotFound)
		assert.True(t, IsCommandError(err))
	})

	t.Run("missing binary", func(t *testing.T) {
		err := newCommandError("journalctl", nil, &exec.Error{Name: "journalctl", Err: exec.ErrNotFound})
		assert.ErrorIs(t, err, ErrBinaryNotFound)
		assert.Equal(t, -1, err.ExitCode)
	})
}
