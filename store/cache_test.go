package store

import (
	"testing"

	"github.com/iov-one/trustvault/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGet(t *testing.T, kv ReadOnlyKVStore, key []byte) []byte {
	t.Helper()
	val, err := kv.Get(key)
	require.NoError(t, err)
	return val
}

func mustHas(t *testing.T, kv ReadOnlyKVStore, key []byte) bool {
	t.Helper()
	ok, err := kv.Has(key)
	require.NoError(t, err)
	return ok
}

func TestCacheLayers(t *testing.T) {
	base := MemStore()

	k, v := []byte("payer"), []byte{5}
	assert.Nil(t, mustGet(t, base, k))
	assert.False(t, mustHas(t, base, k))
	require.NoError(t, base.Set(k, v))
	assert.Equal(t, v, mustGet(t, base, k))

	cache := base.CacheWrap()
	assert.Equal(t, v, mustGet(t, cache, k))

	k2, v2 := []byte("vault"), []byte{7}
	require.NoError(t, cache.Set(k2, v2))
	require.NoError(t, cache.Delete(k))
	assert.Equal(t, v2, mustGet(t, cache, k2))
	assert.False(t, mustHas(t, cache, k))
	assert.Nil(t, mustGet(t, base, k2))
	assert.True(t, mustHas(t, base, k))

	require.NoError(t, cache.Write())
	assert.Nil(t, mustGet(t, base, k))
	assert.Equal(t, v2, mustGet(t, base, k2))

	discarded := base.CacheWrap()
	require.NoError(t, discarded.Set([]byte("payee"), []byte{1}))
	discarded.Discard()
	require.NoError(t, discarded.Write())
	assert.Nil(t, mustGet(t, base, []byte("payee")))
}

// recordingStore remembers the order of the writes it received.
type recordingStore struct {
	EmptyKVStore
	writes []string
	failOn string
}

func (r *recordingStore) Set(key, value []byte) error {
	if string(key) == r.failOn {
		return errors.Wrap(errors.ErrDatabase, "disk full")
	}
	r.writes = append(r.writes, "set "+string(key))
	return nil
}

func (r *recordingStore) Delete(key []byte) error {
	r.writes = append(r.writes, "del "+string(key))
	return nil
}

func TestCacheWritesFinalValueInKeyOrder(t *testing.T) {
	rec := &recordingStore{}
	cache := NewCache(rec)

	require.NoError(t, cache.Set([]byte("c"), []byte{1}))
	require.NoError(t, cache.Set([]byte("a"), []byte{1}))
	require.NoError(t, cache.Set([]byte("b"), []byte{1}))
	require.NoError(t, cache.Delete([]byte("b")))
	require.NoError(t, cache.Set([]byte("a"), []byte{2}))
	assert.Empty(t, rec.writes)

	require.NoError(t, cache.Write())
	assert.Equal(t, []string{"set a", "del b", "set c"}, rec.writes)
}

func TestCacheWriteFailure(t *testing.T) {
	rec := &recordingStore{failOn: "b"}
	cache := NewCache(rec)
	require.NoError(t, cache.Set([]byte("a"), []byte{1}))
	require.NoError(t, cache.Set([]byte("b"), []byte{1}))
	require.NoError(t, cache.Set([]byte("c"), []byte{1}))

	err := cache.Write()
	assert.True(t, errors.ErrDatabase.Is(err))
	assert.Equal(t, []string{"set a"}, rec.writes)
	assert.Nil(t, mustGet(t, cache, []byte("c")))
}

func TestNonAtomicBatchReplaysInOrder(t *testing.T) {
	rec := &recordingStore{}
	b := NewNonAtomicBatch(rec)
	require.NoError(t, b.Set([]byte("z"), []byte{1}))
	require.NoError(t, b.Delete([]byte("z")))
	require.NoError(t, b.Set([]byte("a"), []byte{1}))
	require.NoError(t, b.Write())
	assert.Equal(t, []string{"set z", "del z", "set a"}, rec.writes)

	require.NoError(t, b.Write())
	assert.Len(t, rec.writes, 3)
}
