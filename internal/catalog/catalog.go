// Package catalog enumerates the units of a scope and derives the subsets
// that are safe to toggle.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trly/unitctl/internal/log"
	"github.com/trly/unitctl/internal/unit"
)

// Timeouts bound each enumeration pass. Zero means no bound beyond the
// caller's context.
type Timeouts struct {
	List   time.Duration
	Active time.Duration
}

// Catalog builds sorted unit lists from a Source and an ActiveQuerier.
type Catalog struct {
	source   Source
	active   ActiveQuerier
	timeouts Timeouts
	logger   log.Logger
}

// New creates a Catalog.
func New(source Source, active ActiveQuerier, timeouts Timeouts, logger log.Logger) *Catalog {
	return &Catalog{source: source, active: active, timeouts: timeouts, logger: logger}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Enumerate lists every unit of the scope, fills in Active with one bulk
// query and returns the units sorted. Any failure returns no units at all.
func (c *Catalog) Enumerate(ctx context.Context, scope unit.Scope) (unit.Units, error) {
	listCtx, cancel := withTimeout(ctx, c.timeouts.List)
	entries, err := c.source.ListUnitFiles(listCtx, scope)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("listing %s unit files: %w", scope, err)
	}

	units := make(unit.Units, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		u, err := unit.New(e.Name, e.Path, e.State, scope)
		if err != nil {
			return nil, fmt.Errorf("classifying %s units: %w", scope, err)
		}
		if _, dup := seen[u.Name]; dup {
			c.logger.Debug("Skipping duplicate unit file", "unit", u.Name, "path", u.Path)
			continue
		}
		seen[u.Name] = struct{}{}
		units = append(units, u)
	}

	if len(units) > 0 {
		activeCtx, cancel := withTimeout(ctx, c.timeouts.Active)
		active, err := c.active.IsActive(activeCtx, scope, units.Names())
		cancel()
		if err != nil {
			return nil, fmt.Errorf("querying active state of %s units: %w", scope, err)
		}
		if len(active) != len(units) {
			return nil, &unit.ParseError{
				Input: fmt.Sprintf("%d answers for %d units", len(active), len(units)),
				Err:   unit.ErrMalformedReply,
			}
		}
		for i := range units {
			units[i].Active = active[i]
		}
	}

	unit.Sort(units)
	c.logger.Debug("Enumerated units", "scope", scope, "count", len(units))
	return units, nil
}

// Policy tunes Togglable.
type Policy struct {
	// ExcludeVendorServices drops services whose path starts with VendorPrefix.
	ExcludeVendorServices bool
	VendorPrefix          string
}

// DefaultPolicy keeps vendor services.
func DefaultPolicy() Policy {
	return Policy{VendorPrefix: "/etc/"}
}

// Togglable returns the units of type t that may be flipped between enabled
// and disabled: never masked, static or otherwise fixed, and never templates.
func Togglable(units unit.Units, t unit.Type, p Policy) unit.Units {
	out := unit.Units{}
	for _, u := range units {
		if u.Type != t || !u.State.Togglable() || u.IsTemplate() {
			continue
		}
		if t == unit.TypeService && p.ExcludeVendorServices && p.VendorPrefix != "" &&
			strings.HasPrefix(u.Path, p.VendorPrefix) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// TogglableServices is Togglable for services.
func TogglableServices(units unit.Units, p Policy) unit.Units {
	return Togglable(units, unit.TypeService, p)
}

// TogglableSockets is Togglable for sockets.
func TogglableSockets(units unit.Units, p Policy) unit.Units {
	return Togglable(units, unit.TypeSocket, p)
}

// TogglableTimers is Togglable for timers.
func TogglableTimers(units unit.Units, p Policy) unit.Units {
	return Togglable(units, unit.TypeTimer, p)
}
