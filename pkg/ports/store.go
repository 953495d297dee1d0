package ports

import (
	"context"
)

// KeyValue is a single key/value pair for batched writes.
type KeyValue struct {
	Key   string
	Value string
}

// Entry is the result of a batched read for one key.
// Found is false when the key is absent; Value is then empty.
type Entry struct {
	Key   string
	Value string
	Found bool
}

// KeyValueStore defines the local persistence facility used by the session manager.
// Keys and values are strings. Implementations must be safe for concurrent use.
type KeyValueStore interface {
	// Get returns the value for key, or domain.ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// MultiGet reads several keys at once. The result has one Entry per requested key,
	// in request order. Absent keys are reported with Found == false, not as an error.
	MultiGet(ctx context.Context, keys []string) ([]Entry, error)

	// MultiSet writes several pairs. Backends that support it apply the batch atomically.
	MultiSet(ctx context.Context, pairs []KeyValue) error

	// MultiRemove deletes several keys. Absent keys are ignored.
	MultiRemove(ctx context.Context, keys []string) error

	// Keys lists every stored key.
	Keys(ctx context.Context) ([]string, error)
}

// EntryMap indexes MultiGet results by key, keeping only the found entries.
func EntryMap(entries []Entry) map[string]string {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Found {
			out[e.Key] = e.Value
		}
	}
	return out
}
