package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStorage persists the bearer token across process restarts.
type TokenStorage interface {
	// Load returns the stored token, or "" when none is stored.
	Load() (string, error)
	// Save mirrors a token change to durable storage.
	Save(token string) error
	// Clear removes the stored token.
	Clear() error
}

// FileTokenStorage keeps the token in a single file under the user's home
// directory, the server-side equivalent of the browser's localStorage key.
type FileTokenStorage struct {
	path string
}

var _ TokenStorage = (*FileTokenStorage)(nil)

// NewFileTokenStorage creates a storage backed by the given file path.
func NewFileTokenStorage(path string) *FileTokenStorage {
	return &FileTokenStorage{path: path}
}

// Load reads the stored token. A missing file means no stored session.
func (s *FileTokenStorage) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token with owner-only permissions.
func (s *FileTokenStorage) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear removes the token file. A file that is already gone is not an error.
func (s *FileTokenStorage) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
