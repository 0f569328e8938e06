package control

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/trly/unitctl/internal/unit"
	"github.com/trly/unitctl/internal/validate"
)

// UnitFile is the on-disk definition of a unit as shown by systemctl cat.
type UnitFile struct {
	Path        string `json:"path" yaml:"path"`
	Content     string `json:"content" yaml:"content"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

var iniOptions = ini.LoadOptions{
	AllowShadows:            true,
	AllowNonUniqueSections:  true,
	AllowBooleanKeys:        true,
	SkipUnrecognizableLines: true,
	IgnoreInlineComment:     true,
}

// ParseCat decodes systemctl cat output: a "# <path>" line followed by the
// file body.
func ParseCat(out string) (*UnitFile, error) {
	first, body, found := strings.Cut(out, "\n")
	if !found || len(first) <= 3 || !strings.HasPrefix(first, "# ") {
		return nil, &unit.ParseError{Input: first, Err: unit.ErrMalformedReply}
	}
	f := &UnitFile{
		Path:    strings.TrimSpace(first[2:]),
		Content: strings.TrimSpace(body),
	}
	f.Description = Description(f.Content)
	return f, nil
}

// Description returns the Description= of the [Unit] section, or "".
func Description(content string) string {
	cfg, err := ini.LoadSources(iniOptions, []byte(content))
	if err == nil {
		if sec, err := cfg.GetSection("Unit"); err == nil && sec.HasKey("Description") {
			return sec.Key("Description").String()
		}
	}
	for _, line := range strings.Split(content, "\n") {
		if after, ok := strings.CutPrefix(line, "Description="); ok {
			return after
		}
	}
	return ""
}

// Cat returns the unit file of the unit.
func (c *Client) Cat(ctx context.Context, name string, scope unit.Scope) (*UnitFile, error) {
	out, err := c.query(ctx, "cat", name, scope, func(ctx context.Context) (string, error) {
		return c.systemctl.Cat(ctx, scope, name)
	})
	if err != nil {
		return nil, err
	}
	return ParseCat(out)
}

// SaveUnitFile atomically replaces the unit file at path and reloads the
// manager so the change takes effect. Unchanged content is not rewritten but
// the manager is still reloaded. It reports whether the file was written.
func (c *Client) SaveUnitFile(ctx context.Context, path, content string, scope unit.Scope) (bool, error) {
	path, err := validate.UnitFilePath(path)
	if err != nil {
		return false, fmt.Errorf("unit file path: %w", err)
	}
	if _, err := unit.ParseType(path); err != nil {
		return false, fmt.Errorf("unit file path: %w", err)
	}
	if _, err := ini.LoadSources(iniOptions, []byte(content)); err != nil {
		return false, fmt.Errorf("unit file %s is not valid: %w", path, err)
	}

	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	changed := c.files.HasUnitChanged(path, content)
	if changed {
		if err := c.files.WriteUnitFile(path, content); err != nil {
			return false, fmt.Errorf("writing unit file %s: %w", path, err)
		}
		c.logger.Info("Saved unit file", "path", path, "scope", scope)
	} else {
		c.logger.Debug("Unit file unchanged, skipping write", "path", path)
	}

	return changed, c.Reload(ctx, scope)
}
