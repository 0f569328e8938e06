package systemd

import (
	"path/filepath"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/trly/unitctl/internal/log"
	"github.com/trly/unitctl/internal/unit"
)

// UnitFileEntry is one row of a unit file listing. Path is set by the D-Bus
// transport, Name by the systemctl transport.
type UnitFileEntry struct {
	Path  string
	Name  string
	State unit.State
}

// UnitName returns Name, or the base name of Path when Name is empty.
func (e UnitFileEntry) UnitName() string {
	if e.Name != "" {
		return e.Name
	}
	return filepath.Base(e.Path)
}

// FromUnitFiles decodes a native ListUnitFiles reply, keeping reply order.
func FromUnitFiles(files []dbus.UnitFile) ([]UnitFileEntry, error) {
	entries := make([]UnitFileEntry, 0, len(files))
	for _, f := range files {
		state, err := unit.ParseState(f.Type)
		if err != nil {
			return nil, err
		}
		entries = append(entries, UnitFileEntry{Path: f.Path, State: state})
	}
	return entries, nil
}

// Layout of the debug dump of a ListUnitFiles reply:
//
//	[Array([Struct([Str("/path"), Str("state")]), ...], "(ss)")]
const (
	replyPrefixLen = len(`[Array(`)
	replySuffixLen = len(`, "(ss)")]`)
	pathFieldSkip  = len(`[Struct([Str("`)
)

// ParseUnitFileReply decodes the textual dump of a ListUnitFiles reply.
func ParseUnitFileReply(raw string) ([]UnitFileEntry, error) {
	if raw == "" {
		return []UnitFileEntry{}, nil
	}
	if len(raw) < replyPrefixLen+replySuffixLen {
		return nil, &unit.ParseError{Input: raw, Err: unit.ErrMalformedReply}
	}

	body := raw[replyPrefixLen : len(raw)-replySuffixLen]
	if body == "" || body == "[]" {
		return []UnitFileEntry{}, nil
	}

	fields := strings.Split(body, ",")
	if len(fields)%2 != 0 {
		return nil, &unit.ParseError{Input: fields[len(fields)-1], Err: unit.ErrMalformedReply}
	}

	entries := make([]UnitFileEntry, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		pathField, stateField := fields[i], fields[i+1]
		if len(pathField) <= pathFieldSkip {
			return nil, &unit.ParseError{Input: pathField, Err: unit.ErrMalformedReply}
		}
		path, _, closed := strings.Cut(pathField[pathFieldSkip:], `"`)
		if !closed {
			return nil, &unit.ParseError{Input: pathField, Err: unit.ErrMalformedReply}
		}
		state, err := unit.ParseStateToken(stateField)
		if err != nil {
			return nil, err
		}
		entries = append(entries, UnitFileEntry{Path: path, State: state})
	}
	return entries, nil
}

// statusColumn is the width of "Active: " on the third line of systemctl status.
const statusColumn = 8

// ParseStatusActive reports whether systemctl status output describes an
// active unit. Anything unexpected reads as inactive.
func ParseStatusActive(text string) bool {
	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return false
	}
	line := strings.TrimSpace(lines[2])
	if len(line) <= statusColumn {
		return false
	}
	return line[statusColumn] == 'a'
}

// ParseIsActive decodes `systemctl is-active` output for want units. Line i
// answers for the i-th queried unit.
func ParseIsActive(out []byte, want int) ([]bool, error) {
	text := strings.TrimSuffix(string(out), "\n")
	var lines []string
	if text != "" || want == 1 {
		lines = strings.Split(text, "\n")
	}
	if len(lines) != want {
		return nil, &unit.ParseError{Input: string(out), Err: unit.ErrMalformedReply}
	}
	active := make([]bool, want)
	for i, line := range lines {
		active[i] = strings.HasPrefix(line, "a")
	}
	return active, nil
}

// ParseListUnitFiles decodes `systemctl list-unit-files` output. The header is
// skipped and parsing stops at the blank line before the summary. Rows whose
// state is outside states are dropped; states == nil keeps every parseable row.
func ParseListUnitFiles(out string, states []unit.State, logger log.Logger) []UnitFileEntry {
	lines := strings.Split(out, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}

	var entries []UnitFileEntry
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			break
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			logger.Warn("missing info in unit file listing", "line", line)
			continue
		}
		state, err := unit.ParseState(fields[1])
		if err != nil || !wanted(state, states) {
			logger.Debug("skipping unit file", "unit", fields[0], "state", fields[1])
			continue
		}
		entries = append(entries, UnitFileEntry{Name: fields[0], State: state})
	}
	return entries
}

func wanted(s unit.State, states []unit.State) bool {
	if states == nil {
		return true
	}
	for _, w := range states {
		if s == w {
			return true
		}
	}
	return false
}
