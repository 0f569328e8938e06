// Package validate checks unit names and unit file paths before they are
// handed to systemctl, journalctl or the bus.
package validate

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// maxUnitNameLength is the longest unit name systemd accepts.
const maxUnitNameLength = 256

var (
	// ErrUnsafeUnitName is returned for names that could not come from systemd.
	ErrUnsafeUnitName = errors.New("unsafe unit name")
	// ErrUnsafePath is returned for paths that are relative or escape their directory.
	ErrUnsafePath = errors.New("unsafe path")
)

// unitNamePattern matches the characters systemd allows in unit names, so no
// shell metacharacter or path separator can slip through.
var unitNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._@:\\-]+$`)

// UnitName validates that a unit name is safe to pass as a command argument.
func UnitName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrUnsafeUnitName)
	}
	if len(name) > maxUnitNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrUnsafeUnitName, maxUnitNameLength)
	}
	if !unitNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q contains characters systemd does not allow", ErrUnsafeUnitName, name)
	}
	return nil
}

// UnitFilePath validates that path is absolute and free of traversal
// sequences, and returns it cleaned.
func UnitFilePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsafePath)
	}
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %q must be absolute", ErrUnsafePath, path)
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q contains a traversal sequence", ErrUnsafePath, path)
		}
	}
	return filepath.Clean(path), nil
}
