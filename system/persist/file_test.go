package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/projecthelios/HeliosManager/system/profile"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "state", "desired_profile"))
	require.NoError(t, err)
	return store
}

func TestReadMissingDefaultsToBalanced(t *testing.T) {
	store := newTestStore(t)

	level, err := store.Read()
	require.NoError(t, err)
	require.Equal(t, profile.Balanced, level)
}

func TestWriteReadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	for _, level := range profile.SupportedLevels() {
		require.NoError(t, store.Write(level))

		back, err := store.Read()
		require.NoError(t, err)
		require.Equal(t, level, back)
	}
}

func TestLastWriteWins(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Write(profile.Quiet))
	require.NoError(t, store.Write(profile.Performance))

	level, err := store.Read()
	require.NoError(t, err)
	require.Equal(t, profile.Performance, level)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Write(profile.Balanced))

	entries, err := os.ReadDir(filepath.Dir(store.path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "desired_profile", entries[0].Name())
}

func TestReadGarbageFails(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.path, []byte("ludicrous\n"), 0o644))

	_, err := store.Read()
	require.Error(t, err)
}

func TestNewFileStoreValidation(t *testing.T) {
	_, err := NewFileStore("")
	require.Error(t, err)
}
