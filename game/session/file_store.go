package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore implements Store using one JSON file per game ID under a
// directory. The version check is guarded by a process-local mutex, so the
// conditional-save guarantee only holds within a single process; use
// RedisStore when multiple processes share the store.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a file-based store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create games directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load retrieves the record for id from its JSON file.
func (s *FileStore) Load(ctx context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id)
}

// Save writes rec under id with an optimistic version check.
func (s *FileStore) Save(ctx context.Context, id string, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.read(id)
	switch {
	case errors.Is(err, ErrNotFound):
		if rec.Version != 0 {
			return Record{}, ErrNotFound
		}
	case err != nil:
		return Record{}, err
	case stored.Version != rec.Version:
		return Record{}, ErrVersionConflict
	}

	rec.Version++
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Record{}, fmt.Errorf("failed to marshal game record: %w", err)
	}
	if err := os.WriteFile(s.path(id), data, 0644); err != nil {
		return Record{}, fmt.Errorf("failed to write game file: %w", err)
	}
	return rec, nil
}

// Delete removes the file for id.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(id)); os.IsNotExist(err) {
		return ErrNotFound
	}
	if err := os.Remove(s.path(id)); err != nil {
		return fmt.Errorf("failed to remove game file: %w", err)
	}
	return nil
}

// List returns all persisted game IDs.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read games directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
	}
	return ids, nil
}

// Ping checks that the directory is still readable.
func (s *FileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read(id string) (Record, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to read game file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return rec, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.json", id))
}
