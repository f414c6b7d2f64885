package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/snipeproj/snipe/engine/model"
)

// Store persists a repository's Symbol table to a single JSON file under a
// workspace's state directory, using a temp-file-then-rename write so a
// crash mid-write never leaves a truncated file in place. No cross-process
// locking: only one process ever owns a workspace's state directory at a
// time.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store writing to path (typically
// "<workspaceRoot>/.snipe/repo_symbols.json").
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save atomically replaces the persisted Symbol table. The previous
// contents, if any, are kept alongside as a ".bak" file.
func (s *Store) Save(symbols []model.Symbol) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(symbols, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal repository symbols: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".repo_symbols-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := os.Rename(s.path, s.path+".bak"); err != nil {
			return fmt.Errorf("back up previous state: %w", err)
		}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("install new state: %w", err)
	}
	return nil
}

// Load reads the persisted Symbol table. A missing file is not an error:
// it returns a nil slice, the shape of "no index yet".
func (s *Store) Load() ([]model.Symbol, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read repository symbols: %w", err)
	}
	var symbols []model.Symbol
	if err := json.Unmarshal(data, &symbols); err != nil {
		return nil, fmt.Errorf("unmarshal repository symbols: %w", err)
	}
	return symbols, nil
}
