package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	storage := NewFileTokenStorage(path)

	// Nothing stored yet
	token, err := storage.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, storage.Save("tok-abc"))

	token, err = storage.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, storage.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine
	require.NoError(t, storage.Clear())
}
