// Package memory is an in-process key-value store used when Redis is not
// configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/prefire/internal/history"
)

// Store provides in-memory storage for history lists.
// It acts as a fallback when Redis is unavailable
type Store struct {
	mu       sync.RWMutex
	values   map[string][]byte // key -> raw value
	lastSave time.Time         // Timestamp of last write
}

// NewStore creates a new memory store
func NewStore() *Store {
	return &Store{
		values: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, history.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	s.lastSave = time.Now()
	return nil
}

// Update applies fn to the value under key while holding the write lock.
func (s *Store) Update(_ context.Context, key string, fn func([]byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cur []byte
	if v, ok := s.values[key]; ok {
		cur = append([]byte{}, v...)
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	s.values[key] = append([]byte(nil), next...)
	s.lastSave = time.Now()
	return nil
}

// Delete removes a key
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
}

// Count returns the number of keys in the store
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

// LastSave returns the timestamp of the last write
func (s *Store) LastSave() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastSave
}
