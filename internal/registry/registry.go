// Package registry holds the live unit list of each scope and keeps it in
// step with control operations.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/trly/unitctl/internal/catalog"
	"github.com/trly/unitctl/internal/log"
	"github.com/trly/unitctl/internal/unit"
)

// ErrNotFound classifies lookups of units the registry does not hold.
var ErrNotFound = errors.New("unit not found")

// NotFoundError reports a missing unit name or index.
type NotFoundError struct {
	Scope unit.Scope
	Name  string
	Index int
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("no %s unit at index %d", e.Scope, e.Index)
	}
	return fmt.Sprintf("%s unit not found: %s", e.Scope, e.Name)
}

// Is makes every NotFoundError match ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// State is the lifecycle of a Registry.
type State int

const (
	// Uninitialized registries have never completed a refresh.
	Uninitialized State = iota
	// Populated registries hold the result of the last successful refresh.
	Populated
)

func (s State) String() string {
	if s == Populated {
		return "populated"
	}
	return "uninitialized"
}

// Enumerator produces the full unit list of a scope.
type Enumerator interface {
	Enumerate(ctx context.Context, scope unit.Scope) (unit.Units, error)
}

// Registry is the unit list of one scope. Readers always receive copies.
type Registry struct {
	scope  unit.Scope
	source Enumerator
	logger log.Logger

	mu    sync.RWMutex
	units unit.Units
	state State
}

// New creates an uninitialized registry.
func New(scope unit.Scope, source Enumerator, logger log.Logger) *Registry {
	return &Registry{scope: scope, source: source, logger: logger}
}

// Scope returns the scope the registry tracks.
func (r *Registry) Scope() unit.Scope {
	return r.scope
}

// State reports whether the registry has been populated.
func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Refresh enumerates the scope and swaps in the result. On failure the
// previous list is kept.
func (r *Registry) Refresh(ctx context.Context) error {
	units, err := r.source.Enumerate(ctx, r.scope)
	if err != nil {
		r.logger.Warn("Refreshing units failed, keeping previous list", "scope", r.scope, "error", err)
		return err
	}

	r.mu.Lock()
	r.units = units
	r.state = Populated
	r.mu.Unlock()

	r.logger.Debug("Refreshed units", "scope", r.scope, "count", len(units))
	return nil
}

// Snapshot returns a copy of the current list.
func (r *Registry) Snapshot() unit.Units {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.units.Clone()
}

// Len returns the number of units.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.units)
}

// Get returns the unit with the given name.
func (r *Registry) Get(name string) (unit.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.units.Index(name)
	if i < 0 {
		return unit.Unit{}, &NotFoundError{Scope: r.scope, Name: name, Index: -1}
	}
	return r.units[i], nil
}

// At returns the unit at position i of the sorted list.
func (r *Registry) At(i int) (unit.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.units) {
		return unit.Unit{}, &NotFoundError{Scope: r.scope, Index: i}
	}
	return r.units[i], nil
}

// Togglable returns the togglable units of type t.
func (r *Registry) Togglable(t unit.Type, p catalog.Policy) unit.Units {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return catalog.Togglable(r.units, t, p)
}

// Update applies fn to the named unit under the write lock. Only State and
// Active changes are kept. The updated unit is returned.
func (r *Registry) Update(name string, fn func(u *unit.Unit)) (unit.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.units.Index(name)
	if i < 0 {
		return unit.Unit{}, &NotFoundError{Scope: r.scope, Name: name, Index: -1}
	}
	edited := r.units[i]
	fn(&edited)
	r.units[i].State = edited.State
	r.units[i].Active = edited.Active
	return r.units[i], nil
}

// Set holds the system and user registries.
type Set struct {
	System *Registry
	User   *Registry
}

// NewSet creates registries for both scopes over one enumerator.
func NewSet(source Enumerator, logger log.Logger) *Set {
	return &Set{
		System: New(unit.ScopeSystem, source, logger),
		User:   New(unit.ScopeUser, source, logger),
	}
}

// For returns the registry of scope.
func (s *Set) For(scope unit.Scope) *Registry {
	if scope.IsUser() {
		return s.User
	}
	return s.System
}

// RefreshAll refreshes both scopes concurrently. A failure in one scope does
// not stop or undo the other.
func (s *Set) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	var sysErr, userErr error
	g.Go(func() error {
		sysErr = s.System.Refresh(ctx)
		return sysErr
	})
	g.Go(func() error {
		userErr = s.User.Refresh(ctx)
		return userErr
	})
	if err := g.Wait(); err != nil {
		return errors.Join(sysErr, userErr)
	}
	return nil
}
