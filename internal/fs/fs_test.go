package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/unitctl/internal/log"
)

func TestHasUnitChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.timer")
	require.NoError(t, os.WriteFile(path, []byte("[Timer]\nOnCalendar=daily\n"), 0o644))

	s := NewService(log.Nop())
	assert.False(t, s.HasUnitChanged(path, "[Timer]\nOnCalendar=daily\n"))
	assert.True(t, s.HasUnitChanged(path, "[Timer]\nOnCalendar=weekly\n"))
	assert.True(t, s.HasUnitChanged(filepath.Join(dir, "missing.timer"), ""))
}

func TestWriteUnitFile(t *testing.T) {
	s := NewService(log.Nop())

	t.Run("new file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hello.service")
		require.NoError(t, s.WriteUnitFile(path, "[Unit]\nDescription=hello\n"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[Unit]\nDescription=hello\n", string(data))

		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())
	})

	t.Run("keeps permissions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hello.service")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
		require.NoError(t, s.WriteUnitFile(path, "new"))

		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	})

	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope", "hello.service")
		assert.Error(t, s.WriteUnitFile(path, "x"))
	})
}

func TestGetContentHash(t *testing.T) {
	assert.Equal(t, GetContentHash("a"), GetContentHash("a"))
	assert.NotEqual(t, GetContentHash("a"), GetContentHash("b"))
	assert.Len(t, GetContentHash("a"), 20)
}
