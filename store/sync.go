package store

import "sync"

// SyncStore guards a KVStore that is shared between goroutines. Reads may
// run in parallel, every write excludes all other access. A cache created
// by a SyncStore is written under a single lock, so other goroutines never
// observe half of it.
//
// SyncStore does not order concurrent writers to the same key. Callers that
// read, modify and write a key must hold their own lock for that key.
type SyncStore struct {
	mu sync.RWMutex
	kv KVStore
}

var _ CacheableKVStore = (*SyncStore)(nil)

// NewSyncStore wraps given store.
func NewSyncStore(kv KVStore) *SyncStore {
	return &SyncStore{kv: kv}
}

func (s *SyncStore) Get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kv.Get(key)
}

func (s *SyncStore) Has(key []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kv.Has(key)
}

func (s *SyncStore) Set(key, value []byte) error {
	return s.apply(func(kv SetDeleter) error { return kv.Set(key, value) })
}

func (s *SyncStore) Delete(key []byte) error {
	return s.apply(func(kv SetDeleter) error { return kv.Delete(key) })
}

// NewBatch returns a batch that applies all operations at once.
func (s *SyncStore) NewBatch() Batch {
	return NewNonAtomicBatch(s.kv).locked(s)
}

// CacheWrap returns a scratch-pad on top of this store. Writing it applies
// all changes under a single exclusive lock.
func (s *SyncStore) CacheWrap() KVCacheWrap {
	return newCache(s, s)
}

// Exclusive runs fn while no other goroutine can access the store. It is
// used to commit the wrapped store.
func (s *SyncStore) Exclusive(fn func(KVStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.kv)
}

func (s *SyncStore) apply(fn func(SetDeleter) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.kv)
}
