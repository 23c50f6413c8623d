package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/trustvault/errors"
)

// cacheDegree is the btree degree of a cache. Transitions touch a handful
// of keys, so a shallow tree is enough.
const cacheDegree = 4

// Cache is a scratch-pad over a store. Reads fall through to the parent
// until a key is written or deleted in the cache. Write hands the final
// value of every touched key to the parent in a single call, so a parent
// that guards itself with a lock applies the whole cache at once.
type Cache struct {
	items  *btree.BTree
	parent ReadOnlyKVStore
	out    applier
}

var _ KVCacheWrap = (*Cache)(nil)

// applier applies a set of changes to a store. A store that is shared
// between goroutines holds its lock for the duration of fn.
type applier interface {
	apply(fn func(SetDeleter) error) error
}

// direct applies changes without any locking.
type direct struct {
	SetDeleter
}

func (d direct) apply(fn func(SetDeleter) error) error {
	return fn(d.SetDeleter)
}

// NewCache returns a cache over kv. Writing the cache sets and deletes the
// touched keys on kv.
func NewCache(kv KVStore) *Cache {
	return newCache(kv, direct{kv})
}

func newCache(parent ReadOnlyKVStore, out applier) *Cache {
	return &Cache{
		items:  btree.New(cacheDegree),
		parent: parent,
		out:    out,
	}
}

// MemStore returns an in-memory store for tests. Nothing outlives it.
func MemStore() CacheableKVStore {
	return NewCache(EmptyKVStore{})
}

// CacheWrap layers another cache on top of this one.
func (c *Cache) CacheWrap() KVCacheWrap {
	return NewCache(c)
}

// NewBatch returns a batch that writes into the cache.
func (c *Cache) NewBatch() Batch {
	return NewNonAtomicBatch(c)
}

// Write applies all changes to the parent in key order and empties the
// cache. The cache stays usable.
func (c *Cache) Write() error {
	err := c.out.apply(func(out SetDeleter) error {
		var err error
		c.items.Ascend(func(i btree.Item) bool {
			switch it := i.(type) {
			case setItem:
				err = out.Set(it.key, it.value)
			case deletedItem:
				err = out.Delete(it.key)
			}
			return err == nil
		})
		return err
	})
	c.Discard()
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Discard drops all changes.
func (c *Cache) Discard() {
	c.items = btree.New(cacheDegree)
}

// Set records value for key.
func (c *Cache) Set(key, value []byte) error {
	c.items.ReplaceOrInsert(setItem{bkey{key}, value})
	return nil
}

// Delete records the removal of key.
func (c *Cache) Delete(key []byte) error {
	c.items.ReplaceOrInsert(deletedItem{bkey{key}})
	return nil
}

// Get returns the cached value of key, or the value held by the parent
// when the cache did not touch key.
func (c *Cache) Get(key []byte) ([]byte, error) {
	switch it := c.items.Get(bkey{key}).(type) {
	case nil:
		return c.parent.Get(key)
	case setItem:
		return it.value, nil
	default:
		return nil, nil
	}
}

// Has is Get without the value.
func (c *Cache) Has(key []byte) (bool, error) {
	switch c.items.Get(bkey{key}).(type) {
	case nil:
		return c.parent.Has(key)
	case setItem:
		return true, nil
	default:
		return false, nil
	}
}

// bkey orders cache items by key. It is also used as the lookup item.
type bkey struct {
	key []byte
}

func (k bkey) Less(than btree.Item) bool {
	return bytes.Compare(k.key, keyOf(than)) < 0
}

func keyOf(i btree.Item) []byte {
	switch it := i.(type) {
	case bkey:
		return it.key
	case setItem:
		return it.key
	case deletedItem:
		return it.key
	}
	panic("unknown cache item")
}

type setItem struct {
	bkey
	value []byte
}

type deletedItem struct {
	bkey
}
