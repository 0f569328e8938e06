package systemd

import (
	"context"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/trly/unitctl/internal/log"
	"github.com/trly/unitctl/internal/unit"
)

// DBusConnection implements Connection interface wrapping systemd D-Bus operations.
type DBusConnection struct {
	conn *dbus.Conn
}

// NewDBusConnection creates a new D-Bus connection wrapper.
func NewDBusConnection(conn *dbus.Conn) *DBusConnection {
	return &DBusConnection{conn: conn}
}

// ListUnitFiles returns every unit file the manager knows about.
func (d *DBusConnection) ListUnitFiles(ctx context.Context) ([]dbus.UnitFile, error) {
	return d.conn.ListUnitFilesContext(ctx)
}

// EnableUnitFiles enables unit files.
func (d *DBusConnection) EnableUnitFiles(ctx context.Context, files []string, runtime, force bool) (bool, []dbus.EnableUnitFileChange, error) {
	return d.conn.EnableUnitFilesContext(ctx, files, runtime, force)
}

// DisableUnitFiles disables unit files.
func (d *DBusConnection) DisableUnitFiles(ctx context.Context, files []string, runtime bool) ([]dbus.DisableUnitFileChange, error) {
	return d.conn.DisableUnitFilesContext(ctx, files, runtime)
}

// StartUnit starts a systemd unit.
func (d *DBusConnection) StartUnit(ctx context.Context, unitName, mode string) (<-chan string, error) {
	// go-systemd sends the job result while holding its listener lock, so the
	// channel must never block even if the caller stopped waiting.
	ch := make(chan string, 1)
	if _, err := d.conn.StartUnitContext(ctx, unitName, mode, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// StopUnit stops a systemd unit.
func (d *DBusConnection) StopUnit(ctx context.Context, unitName, mode string) (<-chan string, error) {
	ch := make(chan string, 1)
	if _, err := d.conn.StopUnitContext(ctx, unitName, mode, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// Reload reloads systemd configuration.
func (d *DBusConnection) Reload(ctx context.Context) error {
	return d.conn.ReloadContext(ctx)
}

// Close closes the D-Bus connection.
func (d *DBusConnection) Close() error {
	if d.conn != nil {
		d.conn.Close()
	}
	return nil
}

// DefaultConnectionFactory implements ConnectionFactory interface.
type DefaultConnectionFactory struct {
	logger log.Logger
}

// NewConnectionFactory creates a new connection factory with injected logger.
func NewConnectionFactory(logger log.Logger) *DefaultConnectionFactory {
	return &DefaultConnectionFactory{
		logger: logger,
	}
}

// NewConnection creates a new systemd connection for the scope.
func (f *DefaultConnectionFactory) NewConnection(ctx context.Context, scope unit.Scope) (Connection, error) {
	var conn *dbus.Conn
	var err error

	if scope.IsUser() {
		f.logger.Debug("Establishing user connection to systemd")
		conn, err = dbus.NewUserConnectionContext(ctx)
	} else {
		f.logger.Debug("Establishing system connection to systemd")
		conn, err = dbus.NewSystemConnectionContext(ctx)
	}

	if err != nil {
		return nil, NewConnectionError(scope, err)
	}

	return NewDBusConnection(conn), nil
}
