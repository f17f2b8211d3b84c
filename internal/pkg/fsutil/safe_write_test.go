package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFile(t *testing.T) {
	t.Run("creates file and parent directories", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "nested", "dir", "state.json")

		err := SafeWriteFile(name, []byte("first"), 0600)
		require.NoError(t, err)

		data, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, "first", string(data))
	})

	t.Run("replaces existing content and leaves no temporary files", func(t *testing.T) {
		dir := t.TempDir()
		name := filepath.Join(dir, "state.json")

		require.NoError(t, SafeWriteFile(name, []byte("first"), 0600))
		require.NoError(t, SafeWriteFile(name, []byte("second"), 0600))

		data, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
