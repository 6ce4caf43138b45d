package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathInDir(t *testing.T) {
	base := t.TempDir()

	t.Run("joins inside the base", func(t *testing.T) {
		path, err := PathInDir(base, "user-1", "calls.json")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "user-1", "calls.json"), path)
	})

	t.Run("rejects parent traversal", func(t *testing.T) {
		_, err := PathInDir(base, "..", "etc", "passwd")
		assert.ErrorIs(t, err, ErrPathEscapes)
	})

	t.Run("rejects a symlink out of the base", func(t *testing.T) {
		outside := t.TempDir()
		require.NoError(t, os.Symlink(outside, filepath.Join(base, "link")))

		_, err := PathInDir(base, "link", "calls.json")
		assert.ErrorIs(t, err, ErrPathEscapes)
	})

	t.Run("rejects an empty base", func(t *testing.T) {
		_, err := PathInDir("", "x")
		assert.Error(t, err)
	})
}

func TestReadFileInDir(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "u"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "u", "f.json"), []byte("[]"), 0o644))

	data, err := ReadFileInDir(base, "u", "f.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = ReadFileInDir(base, "u", "missing.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
