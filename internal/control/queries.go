package control

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/trly/unitctl/internal/dependency"
	"github.com/trly/unitctl/internal/unit"
)

// JournalPlaceholder is shown instead of a journal that could not be read.
const JournalPlaceholder = "No journal entries could be read for this unit"

// ErrEmptyJournal is returned when the journal holds no entries for the unit.
var ErrEmptyJournal = errors.New("journal is empty")

// noEntries is what journalctl prints when nothing matches.
const noEntries = "-- No entries --"

func (c *Client) query(ctx context.Context, op, name string, scope unit.Scope, fn func(context.Context) (string, error)) (string, error) {
	if err := validateName(op, name, scope); err != nil {
		return "", err
	}
	ctx, cancel := bound(ctx, c.opts.CommandTimeout)
	defer cancel()
	return fn(ctx)
}

// IsActive reports whether systemctl status shows the unit running. A status
// that cannot be read counts as inactive.
func (c *Client) IsActive(ctx context.Context, name string, scope unit.Scope) bool {
	var active bool
	_, err := c.query(ctx, "status", name, scope, func(ctx context.Context) (string, error) {
		var err error
		active, err = c.systemctl.Status(ctx, scope, name)
		return "", err
	})
	if err != nil {
		c.logger.Warn("Reading unit status failed", "unit", name, "scope", scope, "error", err)
		return false
	}
	return active
}

// ReadJournal returns this boot's journal for the unit, newest first.
func (c *Client) ReadJournal(ctx context.Context, name string, scope unit.Scope) (string, error) {
	out, err := c.query(ctx, "journal", name, scope, func(ctx context.Context) (string, error) {
		return c.systemctl.Journal(ctx, scope, name)
	})
	if err != nil {
		return "", err
	}
	if s := strings.TrimSpace(out); s == "" || s == noEntries {
		return "", ErrEmptyJournal
	}
	return out, nil
}

// Journal is ReadJournal that never fails: errors become JournalPlaceholder.
func (c *Client) Journal(ctx context.Context, name string, scope unit.Scope) string {
	out, err := c.ReadJournal(ctx, name, scope)
	if err != nil {
		c.logger.Warn("Reading journal failed", "unit", name, "scope", scope, "error", err)
		return fmt.Sprintf("%s: %v", JournalPlaceholder, err)
	}
	return out
}

// ReadDependencies returns the dependency listing of the unit with the
// header and the outermost branch drawing removed.
func (c *Client) ReadDependencies(ctx context.Context, name string, scope unit.Scope) (string, error) {
	out, err := c.query(ctx, "list-dependencies", name, scope, func(ctx context.Context) (string, error) {
		return c.systemctl.ListDependencies(ctx, scope, name)
	})
	if err != nil {
		return "", err
	}
	return dependency.StripBranches(out), nil
}

// Dependencies is ReadDependencies that never fails: on error it returns the
// unit name itself.
func (c *Client) Dependencies(ctx context.Context, name string, scope unit.Scope) string {
	out, err := c.ReadDependencies(ctx, name, scope)
	if err != nil {
		c.logger.Warn("Listing dependencies failed", "unit", name, "scope", scope, "error", err)
		return name
	}
	return out
}

// DependencyTree parses the dependency listing of the unit into a graph.
func (c *Client) DependencyTree(ctx context.Context, name string, scope unit.Scope) (*dependency.Tree, error) {
	out, err := c.query(ctx, "list-dependencies", name, scope, func(ctx context.Context) (string, error) {
		return c.systemctl.ListDependencies(ctx, scope, name)
	})
	if err != nil {
		return nil, err
	}
	return dependency.ParseTree(name, out)
}

// Property is one key=value pair from systemctl show.
type Property struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// ParseProperties decodes systemctl show output, dropping empty values and
// sorting by key.
func ParseProperties(out string) []Property {
	var props []Property
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok || value == "" {
			continue
		}
		props = append(props, Property{Key: key, Value: value})
	}
	sort.SliceStable(props, func(i, j int) bool { return props[i].Key < props[j].Key })
	return props
}

// Properties calls visit for every non-empty property of the unit in key
// order, passing the zero-based position.
func (c *Client) Properties(ctx context.Context, name string, scope unit.Scope, visit func(i int, key, value string)) error {
	out, err := c.query(ctx, "show", name, scope, func(ctx context.Context) (string, error) {
		return c.systemctl.Show(ctx, scope, name)
	})
	if err != nil {
		return err
	}
	for i, p := range ParseProperties(out) {
		visit(i, p.Key, p.Value)
	}
	return nil
}
