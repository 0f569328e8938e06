// Package systemd talks to the systemd manager, over D-Bus for listing and
// mutating unit files and through systemctl, journalctl and systemd-analyze
// for everything else. It also decodes the replies of both transports.
package systemd

import (
	"context"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/trly/unitctl/internal/unit"
)

// Connection wraps systemd D-Bus operations for testability.
type Connection interface {
	// ListUnitFiles returns every unit file the manager knows about.
	ListUnitFiles(ctx context.Context) ([]dbus.UnitFile, error)

	// EnableUnitFiles enables unit files.
	EnableUnitFiles(ctx context.Context, files []string, runtime, force bool) (bool, []dbus.EnableUnitFileChange, error)

	// DisableUnitFiles disables unit files.
	DisableUnitFiles(ctx context.Context, files []string, runtime bool) ([]dbus.DisableUnitFileChange, error)

	// StartUnit queues a start job. The job result is delivered on the channel.
	StartUnit(ctx context.Context, unitName, mode string) (<-chan string, error)

	// StopUnit queues a stop job. The job result is delivered on the channel.
	StopUnit(ctx context.Context, unitName, mode string) (<-chan string, error)

	// Reload reloads systemd configuration.
	Reload(ctx context.Context) error

	// Close closes the connection.
	Close() error
}

// ConnectionFactory creates Connection instances.
type ConnectionFactory interface {
	// NewConnection opens a connection to the manager of the given scope.
	NewConnection(ctx context.Context, scope unit.Scope) (Connection, error)
}
