package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// FileStore persists the session as a JSON file under the application
// directory.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed persister.
// If baseDir is empty, uses ~/.gestor/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".gestor")
	}

	// Session files carry bearer tokens, keep the directory private
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("session store initialized")

	return &FileStore{path: filepath.Join(baseDir, "session.json")}, nil
}

// Load reads the persisted session. A missing file is not an error; it simply
// means nobody is logged in.
func (f *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	return &st, nil
}

// Save writes the session file atomically.
func (f *FileStore) Save(st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write to temp file first
	tempPath := f.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, f.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}
