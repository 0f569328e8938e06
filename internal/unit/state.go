package unit

import "strings"

// State is the enablement state of a unit file.
type State int

// The closed set of unit file states.
const (
	StateEnabled State = iota
	StateDisabled
	StateMasked
	StateStatic
	StateIndirect
	StateLinked
	StateBad
	StateGenerated
	StateTransient
	StateAlias
)

var stateNames = [...]string{
	StateEnabled:   "enabled",
	StateDisabled:  "disabled",
	StateMasked:    "masked",
	StateStatic:    "static",
	StateIndirect:  "indirect",
	StateLinked:    "linked",
	StateBad:       "bad",
	StateGenerated: "generated",
	StateTransient: "transient",
	StateAlias:     "alias",
}

// statesByLead maps the first character of a state word to its state.
var statesByLead = map[byte]State{
	's': StateStatic,
	'd': StateDisabled,
	'e': StateEnabled,
	'i': StateIndirect,
	'l': StateLinked,
	'm': StateMasked,
	'b': StateBad,
	'g': StateGenerated,
	't': StateTransient,
	'a': StateAlias,
}

// stateTokenOffset is the width of ` Str("` in a debug-formatted reply field.
const stateTokenOffset = 6

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Togglable reports whether a unit in this state can be flipped between
// enabled and disabled.
func (s State) Togglable() bool {
	return s == StateEnabled || s == StateDisabled
}

// ParseStateToken classifies the state field of a debug-formatted unit file
// reply, e.g. ` Str("enabled")])`, by the character after the structural prefix.
func ParseStateToken(token string) (State, error) {
	if len(token) <= stateTokenOffset {
		return 0, &ParseError{Input: token, Err: ErrUnrecognizedState}
	}
	if s, ok := statesByLead[token[stateTokenOffset]]; ok {
		return s, nil
	}
	return 0, &ParseError{Input: token, Err: ErrUnrecognizedState}
}

// ParseState classifies a bare state word as printed by systemctl or returned
// over D-Bus. Runtime variants collapse onto their base state.
func ParseState(word string) (State, error) {
	w := strings.TrimSuffix(strings.TrimSpace(word), "-runtime")
	if w == "" {
		return 0, &ParseError{Input: word, Err: ErrUnrecognizedState}
	}
	s, ok := statesByLead[w[0]]
	if !ok || stateNames[s] != w {
		return 0, &ParseError{Input: word, Err: ErrUnrecognizedState}
	}
	return s, nil
}
