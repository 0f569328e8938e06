// Package unit defines the systemd unit model: the closed sets of unit types
// and unit file states, the scope a unit lives in, and the Unit record itself.
package unit

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Scope selects the systemd manager a unit belongs to.
type Scope int

const (
	// ScopeSystem is the system manager on the system bus.
	ScopeSystem Scope = iota
	// ScopeUser is the per-user manager on the session bus.
	ScopeUser
)

// ScopeFor maps the userMode setting onto a Scope.
func ScopeFor(userMode bool) Scope {
	if userMode {
		return ScopeUser
	}
	return ScopeSystem
}

func (s Scope) String() string {
	if s == ScopeUser {
		return "user"
	}
	return "system"
}

// IsUser reports whether s is the user scope.
func (s Scope) IsUser() bool {
	return s == ScopeUser
}

// UserFlag returns the command line flags that select the scope for
// systemctl, journalctl and systemd-analyze.
func (s Scope) UserFlag() []string {
	if s == ScopeUser {
		return []string{"--user"}
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Unit is a single unit file known to a systemd manager.
//
// Type is derived once in New and never re-derived. State and Active are
// independent of each other.
type Unit struct {
	Name   string `json:"name" yaml:"name"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Type   Type   `json:"type" yaml:"type"`
	State  State  `json:"state" yaml:"state"`
	Active bool   `json:"active" yaml:"active"`
	Scope  Scope  `json:"scope" yaml:"scope"`
}

// New constructs a unit, classifying its type from the path extension, or
// from the name when path is empty. An empty name is taken from the path.
func New(name, path string, state State, scope Scope) (Unit, error) {
	if name == "" {
		name = filepath.Base(path)
	}
	source := path
	if source == "" {
		source = name
	}
	t, err := ParseType(source)
	if err != nil {
		return Unit{}, err
	}
	return Unit{
		Name:  name,
		Path:  path,
		Type:  t,
		State: state,
		Scope: scope,
	}, nil
}

// IsTemplate reports whether the unit is a template such as getty@.service.
func (u Unit) IsTemplate() bool {
	return strings.Contains(u.Name, "@.") || strings.Contains(u.Path, "@.")
}

// Units is an ordered collection of units.
type Units []Unit

// Clone returns a copy that does not share storage with us.
func (us Units) Clone() Units {
	if us == nil {
		return nil
	}
	out := make(Units, len(us))
	copy(out, us)
	return out
}

// Index returns the position of the unit with the given name, or -1.
func (us Units) Index(name string) int {
	for i := range us {
		if us[i].Name == name {
			return i
		}
	}
	return -1
}

// Names returns unit names in collection order.
func (us Units) Names() []string {
	names := make([]string, len(us))
	for i := range us {
		names[i] = us[i].Name
	}
	return names
}

// OfType returns the units of type t, keeping order.
func (us Units) OfType(t Type) Units {
	var out Units
	for _, u := range us {
		if u.Type == t {
			out = append(out, u)
		}
	}
	return out
}

// Sort orders units by case-folded name, then path, then exact name. The
// result is a total order over name-unique units.
func Sort(us Units) {
	fold := cases.Fold()
	keys := make(map[string]string, len(us))
	for _, u := range us {
		if _, ok := keys[u.Name]; !ok {
			keys[u.Name] = fold.String(u.Name)
		}
	}
	sort.SliceStable(us, func(i, j int) bool {
		a, b := us[i], us[j]
		if ka, kb := keys[a.Name], keys[b.Name]; ka != kb {
			return ka < kb
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Name < b.Name
	})
}
