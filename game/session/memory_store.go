package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store backed by a map. It is the default
// for tests and single-process development runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
	}
}

// Load retrieves the record for id.
func (s *MemoryStore) Load(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Save writes rec under id with an optimistic version check.
func (s *MemoryStore) Save(ctx context.Context, id string, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.records[id]
	switch {
	case !exists && rec.Version != 0:
		return Record{}, ErrNotFound
	case exists && stored.Version != rec.Version:
		return Record{}, ErrVersionConflict
	}

	rec.Version++
	s.records[id] = rec
	return rec, nil
}

// Delete removes the record for id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// List returns all stored game IDs.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
