package unit

import (
	"path/filepath"
	"strings"
)

// Type is the kind of a unit, taken from its file extension.
type Type int

// The closed set of unit types.
const (
	TypeAutomount Type = iota
	TypeBusname
	TypeMount
	TypePath
	TypeScope
	TypeService
	TypeSlice
	TypeSocket
	TypeSwap
	TypeTarget
	TypeTimer
)

var typeNames = [...]string{
	TypeAutomount: "automount",
	TypeBusname:   "busname",
	TypeMount:     "mount",
	TypePath:      "path",
	TypeScope:     "scope",
	TypeService:   "service",
	TypeSlice:     "slice",
	TypeSocket:    "socket",
	TypeSwap:      "swap",
	TypeTarget:    "target",
	TypeTimer:     "timer",
}

var typesByExt = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = Type(t)
	}
	return m
}()

// AllTypes lists every unit type in declaration order.
func AllTypes() []Type {
	out := make([]Type, len(typeNames))
	for i := range typeNames {
		out[i] = Type(i)
	}
	return out
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Suffix returns the file extension including the leading dot.
func (t Type) Suffix() string {
	return "." + t.String()
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseType classifies a unit path or name by its extension. Everything
// before the extension is ignored.
func ParseType(path string) (Type, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if t, ok := typesByExt[ext]; ok {
		return t, nil
	}
	return 0, &ParseError{Input: path, Err: ErrUnrecognizedExtension}
}

// ParseTypeName parses a bare type name such as "service".
func ParseTypeName(name string) (Type, error) {
	if t, ok := typesByExt[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return 0, &ParseError{Input: name, Err: ErrUnrecognizedExtension}
}
