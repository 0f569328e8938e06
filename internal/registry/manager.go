package registry

import (
	"context"

	"github.com/trly/unitctl/internal/control"
	"github.com/trly/unitctl/internal/dependency"
	"github.com/trly/unitctl/internal/log"
	"github.com/trly/unitctl/internal/unit"
)

// Controller is the control surface the Manager drives.
type Controller interface {
	EnableUnit(ctx context.Context, u unit.Unit) (bool, error)
	Disable(ctx context.Context, name string, scope unit.Scope) (bool, error)
	Start(ctx context.Context, name string, scope unit.Scope) error
	Stop(ctx context.Context, name string, scope unit.Scope) error
	IsActive(ctx context.Context, name string, scope unit.Scope) bool
	Journal(ctx context.Context, name string, scope unit.Scope) string
	Dependencies(ctx context.Context, name string, scope unit.Scope) string
	DependencyTree(ctx context.Context, name string, scope unit.Scope) (*dependency.Tree, error)
	Properties(ctx context.Context, name string, scope unit.Scope, visit func(i int, key, value string)) error
	Cat(ctx context.Context, name string, scope unit.Scope) (*control.UnitFile, error)
	SaveUnitFile(ctx context.Context, path, content string, scope unit.Scope) (bool, error)
}

var _ Controller = (*control.Client)(nil)

// Manager resolves units in the registries and applies control operations,
// updating the in-memory unit only after the operation succeeded.
type Manager struct {
	set    *Set
	ctl    Controller
	logger log.Logger
}

// NewManager creates a Manager.
func NewManager(set *Set, ctl Controller, logger log.Logger) *Manager {
	return &Manager{set: set, ctl: ctl, logger: logger}
}

// Registries returns the managed registries.
func (m *Manager) Registries() *Set {
	return m.set
}

// record applies fn to the registry entry once the operation succeeded. A
// unit dropped by a concurrent refresh cannot be updated; that is logged and
// fn is applied to fallback instead so the caller still sees the outcome.
func (m *Manager) record(reg *Registry, fallback unit.Unit, fn func(u *unit.Unit)) unit.Unit {
	u, err := reg.Update(fallback.Name, fn)
	if err != nil {
		m.logger.Warn("Operation succeeded but the unit left the registry", "unit", fallback.Name, "scope", reg.scope, "error", err)
		fn(&fallback)
		return fallback
	}
	return u
}

// Enable enables the unit and marks it enabled. It reports whether the unit
// was already enabled.
func (m *Manager) Enable(ctx context.Context, name string, scope unit.Scope) (bool, error) {
	reg := m.set.For(scope)
	u, err := reg.Get(name)
	if err != nil {
		return false, err
	}
	_, already, err := m.enable(ctx, reg, u)
	return already, err
}

func (m *Manager) enable(ctx context.Context, reg *Registry, u unit.Unit) (unit.Unit, bool, error) {
	already, err := m.ctl.EnableUnit(ctx, u)
	if err != nil {
		return unit.Unit{}, false, err
	}
	return m.record(reg, u, func(u *unit.Unit) { u.State = unit.StateEnabled }), already, nil
}

// Disable disables the unit and marks it disabled. It reports whether the
// unit was already disabled.
func (m *Manager) Disable(ctx context.Context, name string, scope unit.Scope) (bool, error) {
	reg := m.set.For(scope)
	u, err := reg.Get(name)
	if err != nil {
		return false, err
	}
	_, already, err := m.disable(ctx, reg, u)
	return already, err
}

func (m *Manager) disable(ctx context.Context, reg *Registry, u unit.Unit) (unit.Unit, bool, error) {
	already, err := m.ctl.Disable(ctx, u.Name, u.Scope)
	if err != nil {
		return unit.Unit{}, false, err
	}
	return m.record(reg, u, func(u *unit.Unit) { u.State = unit.StateDisabled }), already, nil
}

// ToggleEnablement disables an enabled unit and enables any other.
func (m *Manager) ToggleEnablement(ctx context.Context, name string, scope unit.Scope) (unit.Unit, error) {
	reg := m.set.For(scope)
	u, err := reg.Get(name)
	if err != nil {
		return unit.Unit{}, err
	}
	if u.State == unit.StateEnabled {
		u, _, err = m.disable(ctx, reg, u)
	} else {
		u, _, err = m.enable(ctx, reg, u)
	}
	return u, err
}

// Start starts the unit and marks it active.
func (m *Manager) Start(ctx context.Context, name string, scope unit.Scope) error {
	_, err := m.setActive(ctx, name, scope, true)
	return err
}

// Stop stops the unit and marks it inactive.
func (m *Manager) Stop(ctx context.Context, name string, scope unit.Scope) error {
	_, err := m.setActive(ctx, name, scope, false)
	return err
}

func (m *Manager) setActive(ctx context.Context, name string, scope unit.Scope, active bool) (unit.Unit, error) {
	reg := m.set.For(scope)
	u, err := reg.Get(name)
	if err != nil {
		return unit.Unit{}, err
	}
	if active {
		err = m.ctl.Start(ctx, name, scope)
	} else {
		err = m.ctl.Stop(ctx, name, scope)
	}
	if err != nil {
		return unit.Unit{}, err
	}
	return m.record(reg, u, func(u *unit.Unit) { u.Active = active }), nil
}

// ToggleActive stops an active unit and starts an inactive one.
func (m *Manager) ToggleActive(ctx context.Context, name string, scope unit.Scope) (unit.Unit, error) {
	u, err := m.set.For(scope).Get(name)
	if err != nil {
		return unit.Unit{}, err
	}
	return m.setActive(ctx, name, scope, !u.Active)
}

// RefreshActive asks the manager whether the unit is running and records the
// answer. A unit whose status cannot be read is recorded as inactive.
func (m *Manager) RefreshActive(ctx context.Context, name string, scope unit.Scope) (unit.Unit, error) {
	reg := m.set.For(scope)
	u, err := reg.Get(name)
	if err != nil {
		return unit.Unit{}, err
	}
	active := m.ctl.IsActive(ctx, name, scope)
	return m.record(reg, u, func(u *unit.Unit) { u.Active = active }), nil
}

// Journal returns the unit's journal, or a placeholder when it cannot be read.
func (m *Manager) Journal(ctx context.Context, name string, scope unit.Scope) (string, error) {
	if _, err := m.set.For(scope).Get(name); err != nil {
		return "", err
	}
	return m.ctl.Journal(ctx, name, scope), nil
}

// Dependencies returns the unit's dependency listing, or its name when the
// listing cannot be produced.
func (m *Manager) Dependencies(ctx context.Context, name string, scope unit.Scope) (string, error) {
	if _, err := m.set.For(scope).Get(name); err != nil {
		return "", err
	}
	return m.ctl.Dependencies(ctx, name, scope), nil
}

// DependencyTree returns the unit's dependency graph.
func (m *Manager) DependencyTree(ctx context.Context, name string, scope unit.Scope) (*dependency.Tree, error) {
	if _, err := m.set.For(scope).Get(name); err != nil {
		return nil, err
	}
	return m.ctl.DependencyTree(ctx, name, scope)
}

// Properties visits the unit's properties in key order.
func (m *Manager) Properties(ctx context.Context, name string, scope unit.Scope, visit func(i int, key, value string)) error {
	if _, err := m.set.For(scope).Get(name); err != nil {
		return err
	}
	return m.ctl.Properties(ctx, name, scope, visit)
}

// Cat returns the unit file.
func (m *Manager) Cat(ctx context.Context, name string, scope unit.Scope) (*control.UnitFile, error) {
	if _, err := m.set.For(scope).Get(name); err != nil {
		return nil, err
	}
	return m.ctl.Cat(ctx, name, scope)
}

// SaveUnitFile replaces the file backing the unit with content and reloads
// the manager. The path is the one systemctl cat reports for the unit; the
// flag reports whether the file was rewritten.
func (m *Manager) SaveUnitFile(ctx context.Context, name, content string, scope unit.Scope) (string, bool, error) {
	uf, err := m.Cat(ctx, name, scope)
	if err != nil {
		return "", false, err
	}
	changed, err := m.ctl.SaveUnitFile(ctx, uf.Path, content, scope)
	if err != nil {
		return "", false, err
	}
	return uf.Path, changed, nil
}
