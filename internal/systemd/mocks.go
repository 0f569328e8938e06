package systemd

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/trly/unitctl/internal/unit"
)

// MockConnection implements Connection interface for testing.
type MockConnection struct {
	ListUnitFilesFunc    func(ctx context.Context) ([]dbus.UnitFile, error)
	EnableUnitFilesFunc  func(ctx context.Context, files []string, runtime, force bool) (bool, []dbus.EnableUnitFileChange, error)
	DisableUnitFilesFunc func(ctx context.Context, files []string, runtime bool) ([]dbus.DisableUnitFileChange, error)
	StartUnitFunc        func(ctx context.Context, unitName, mode string) (<-chan string, error)
	StopUnitFunc         func(ctx context.Context, unitName, mode string) (<-chan string, error)
	ReloadFunc           func(ctx context.Context) error
	CloseFunc            func() error

	Closed int
}

// ListUnitFiles returns every unit file the manager knows about.
func (m *MockConnection) ListUnitFiles(ctx context.Context) ([]dbus.UnitFile, error) {
	if m.ListUnitFilesFunc != nil {
		return m.ListUnitFilesFunc(ctx)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// EnableUnitFiles enables unit files.
func (m *MockConnection) EnableUnitFiles(ctx context.Context, files []string, runtime, force bool) (bool, []dbus.EnableUnitFileChange, error) {
	if m.EnableUnitFilesFunc != nil {
		return m.EnableUnitFilesFunc(ctx, files, runtime, force)
	}
	return false, nil, fmt.Errorf("mock not implemented")
}

// DisableUnitFiles disables unit files.
func (m *MockConnection) DisableUnitFiles(ctx context.Context, files []string, runtime bool) ([]dbus.DisableUnitFileChange, error) {
	if m.DisableUnitFilesFunc != nil {
		return m.DisableUnitFilesFunc(ctx, files, runtime)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// StartUnit starts a systemd unit.
func (m *MockConnection) StartUnit(ctx context.Context, unitName, mode string) (<-chan string, error) {
	if m.StartUnitFunc != nil {
		return m.StartUnitFunc(ctx, unitName, mode)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// StopUnit stops a systemd unit.
func (m *MockConnection) StopUnit(ctx context.Context, unitName, mode string) (<-chan string, error) {
	if m.StopUnitFunc != nil {
		return m.StopUnitFunc(ctx, unitName, mode)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// Reload reloads systemd configuration.
func (m *MockConnection) Reload(ctx context.Context) error {
	if m.ReloadFunc != nil {
		return m.ReloadFunc(ctx)
	}
	return fmt.Errorf("mock not implemented")
}

// Close closes the connection.
func (m *MockConnection) Close() error {
	m.Closed++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// JobResult returns a channel already holding result, for use in StartUnitFunc
// and StopUnitFunc.
func JobResult(result string) <-chan string {
	ch := make(chan string, 1)
	ch <- result
	return ch
}

// MockConnectionFactory implements ConnectionFactory interface for testing.
type MockConnectionFactory struct {
	NewConnectionFunc func(ctx context.Context, scope unit.Scope) (Connection, error)
	Connection        Connection
}

// NewConnection creates a new systemd connection based on configuration.
func (m *MockConnectionFactory) NewConnection(ctx context.Context, scope unit.Scope) (Connection, error) {
	if m.NewConnectionFunc != nil {
		return m.NewConnectionFunc(ctx, scope)
	}
	if m.Connection != nil {
		return m.Connection, nil
	}
	return nil, fmt.Errorf("mock not configured")
}
