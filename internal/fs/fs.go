// Package fs writes unit files to disk.
package fs

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // Not used for security purposes, just content comparison
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/trly/unitctl/internal/log"
)

// defaultUnitFileMode is used for unit files that do not exist yet.
const defaultUnitFileMode os.FileMode = 0o644

// Service provides unit file system operations.
type Service struct {
	logger log.Logger
}

// NewService creates a new filesystem service.
func NewService(logger log.Logger) *Service {
	return &Service{logger: logger}
}

// HasUnitChanged reports whether content differs from the file at unitPath.
// A file that cannot be read counts as changed.
func (s *Service) HasUnitChanged(unitPath, content string) bool {
	existing, err := os.ReadFile(unitPath) //nolint:gosec // Path is validated by the caller
	if err != nil {
		return true
	}

	s.logger.Debug("Content hash comparison",
		"existing", fmt.Sprintf("%x", GetContentHash(string(existing))),
		"new", fmt.Sprintf("%x", GetContentHash(content)))

	return !bytes.Equal(existing, []byte(content))
}

// WriteUnitFile atomically replaces the file at unitPath. An existing file
// keeps its permissions; the parent directory must exist.
func (s *Service) WriteUnitFile(unitPath, content string) error {
	if _, err := os.Stat(filepath.Dir(unitPath)); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unit directory %s does not exist", filepath.Dir(unitPath))
	}
	s.logger.Debug("Writing unit file", "path", unitPath)
	return renameio.WriteFile(unitPath, []byte(content), defaultUnitFileMode, renameio.IgnoreUmask())
}

// GetContentHash calculates a SHA1 hash for change tracking.
func GetContentHash(content string) []byte {
	hash := sha1.New() //nolint:gosec // Not used for security purposes, just for content tracking
	hash.Write([]byte(content))
	return hash.Sum(nil)
}
