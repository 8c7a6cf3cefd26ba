package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists cookies as a JSON file
type FileStore struct {
	path string
}

// NewFileStore creates a store at path. A leading "~/" expands to the
// user's home directory.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: ExpandHome(path)}
}

// Load reads the persisted cookies. A missing file is not an error.
func (s *FileStore) Load() ([]Cookie, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cookies: %w", err)
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("decode cookies: %w", err)
	}
	return cookies, nil
}

// Save writes the cookies, creating the parent directory if needed
func (s *FileStore) Save(cookies []Cookie) error {
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cookie dir: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write cookies: %w", err)
	}
	return nil
}

// ExpandHome resolves a leading "~/" against the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
