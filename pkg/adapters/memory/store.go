package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/aretw0/gobarber/pkg/ports"
)

// Store implements ports.KeyValueStore in memory.
// Safe for concurrent use. Batches are applied under one lock, so they are atomic.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

// Get retrieves a value from memory.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return value, nil
}

// Set stores a value in memory.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Remove deletes a key.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// MultiGet reads several keys under a single read lock.
func (s *Store) MultiGet(ctx context.Context, keys []string) ([]ports.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]ports.Entry, len(keys))
	for i, key := range keys {
		value, ok := s.data[key]
		entries[i] = ports.Entry{Key: key, Value: value, Found: ok}
	}
	return entries, nil
}

// MultiSet writes several pairs under a single lock.
func (s *Store) MultiSet(ctx context.Context, pairs []ports.KeyValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kv := range pairs {
		s.data[kv.Key] = kv.Value
	}
	return nil
}

// MultiRemove deletes several keys under a single lock.
func (s *Store) MultiRemove(ctx context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

// Keys returns every stored key, sorted.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ ports.KeyValueStore = (*Store)(nil)
