package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/aretw0/gobarber/pkg/ports"
)

// Store implements ports.KeyValueStore using a single JSON file on the local filesystem.
// Every mutation rewrites the file atomically, so a batch is either fully on disk or not at all.
type Store struct {
	Path string

	mu sync.Mutex
}

// New creates a new Store backed by the file at path.
// If path is empty, it defaults to ".gobarber/storage.json".
func New(path string) *Store {
	if path == "" {
		path = filepath.Join(".gobarber", "storage.json")
	}
	return &Store{Path: path}
}

// Get retrieves a value from the file.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return "", err
	}
	value, ok := data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return value, nil
}

// Set stores a value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.MultiSet(ctx, []ports.KeyValue{{Key: key, Value: value}})
}

// Remove deletes a key.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.MultiRemove(ctx, []string{key})
}

// MultiGet reads several keys from one read of the file.
func (s *Store) MultiGet(ctx context.Context, keys []string) ([]ports.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}

	entries := make([]ports.Entry, len(keys))
	for i, key := range keys {
		value, ok := data[key]
		entries[i] = ports.Entry{Key: key, Value: value, Found: ok}
	}
	return entries, nil
}

// MultiSet writes several pairs in one atomic file replacement.
func (s *Store) MultiSet(ctx context.Context, pairs []ports.KeyValue) error {
	if len(pairs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	for _, kv := range pairs {
		data[kv.Key] = kv.Value
	}
	return s.write(data)
}

// MultiRemove deletes several keys in one atomic file replacement.
func (s *Store) MultiRemove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	changed := false
	for _, key := range keys {
		if _, ok := data[key]; ok {
			delete(data, key)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.write(data)
}

// Keys returns every stored key, sorted.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// read loads the whole file. A missing file is an empty store.
func (s *Store) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal storage file: %w", err)
	}
	return data, nil
}

// write replaces the file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) write(data map[string]string) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to ensure storage directory: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-"+filepath.Base(s.Path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if err := tmpFile.Chmod(0600); err != nil {
		return fmt.Errorf("failed to restrict temp file: %w", err)
	}
	if _, err := tmpFile.Write(raw); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(s.Path); err == nil {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("failed to remove existing storage file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to rename temp file to storage file: %w", err)
	}
	return nil
}

var _ ports.KeyValueStore = (*Store)(nil)
