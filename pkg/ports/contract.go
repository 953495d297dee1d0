package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunKeyValueStoreContract runs a suite of tests to verify that a KeyValueStore implementation
// adheres to the defined interface contract.
// The store should be empty, or at least free of keys with the "contract:" prefix.
func RunKeyValueStoreContract(t *testing.T, store KeyValueStore) {
	ctx := context.Background()
	prefix := "contract:" + time.Now().Format("20060102150405") + ":"
	k1, k2, k3 := prefix+"token", prefix+"user", prefix+"other"

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, k1, "abc"), "Set should not return error")

		got, err := store.Get(ctx, k1)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, "abc", got)

		require.NoError(t, store.Set(ctx, k1, "def"), "Set should overwrite")
		got, err = store.Get(ctx, k1)
		require.NoError(t, err)
		assert.Equal(t, "def", got)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, prefix+"missing")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, k1, "abc"))
		require.NoError(t, store.Remove(ctx, k1))

		_, err := store.Get(ctx, k1)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound, "Get after Remove should return ErrKeyNotFound")

		assert.NoError(t, store.Remove(ctx, k1), "Remove of an absent key should not fail")
	})

	t.Run("MultiSet and MultiGet", func(t *testing.T) {
		err := store.MultiSet(ctx, []KeyValue{
			{Key: k1, Value: "t1"},
			{Key: k2, Value: `{"id":"u1","name":"Alice"}`},
		})
		require.NoError(t, err)

		entries, err := store.MultiGet(ctx, []string{k2, k3, k1})
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, Entry{Key: k2, Value: `{"id":"u1","name":"Alice"}`, Found: true}, entries[0])
		assert.Equal(t, Entry{Key: k3}, entries[1], "absent keys are reported, not skipped")
		assert.Equal(t, Entry{Key: k1, Value: "t1", Found: true}, entries[2])
	})

	t.Run("Values Are Opaque", func(t *testing.T) {
		value := "line1\nline2\t\"quoted\" ünïcode"
		require.NoError(t, store.Set(ctx, k3, value))
		got, err := store.Get(ctx, k3)
		require.NoError(t, err)
		assert.Equal(t, value, got)

		require.NoError(t, store.Set(ctx, k3, ""))
		got, err = store.Get(ctx, k3)
		require.NoError(t, err, "an empty value is still a stored value")
		assert.Equal(t, "", got)
	})

	t.Run("Keys", func(t *testing.T) {
		require.NoError(t, store.MultiSet(ctx, []KeyValue{{Key: k1, Value: "1"}, {Key: k2, Value: "2"}}))

		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})

	t.Run("MultiRemove", func(t *testing.T) {
		require.NoError(t, store.MultiSet(ctx, []KeyValue{{Key: k1, Value: "1"}, {Key: k2, Value: "2"}}))

		require.NoError(t, store.MultiRemove(ctx, []string{k1, k2, k3}))

		entries, err := store.MultiGet(ctx, []string{k1, k2, k3})
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, e.Found, "key %s should be gone", e.Key)
		}

		assert.NoError(t, store.MultiRemove(ctx, []string{k1, k2}), "MultiRemove is idempotent")
	})

	t.Run("Empty Batches", func(t *testing.T) {
		assert.NoError(t, store.MultiSet(ctx, nil))
		assert.NoError(t, store.MultiRemove(ctx, nil))

		entries, err := store.MultiGet(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, entries)
	})
}
