package store

import "github.com/iov-one/trustvault/errors"

// EmptyKVStore never holds any data. It is the bottom layer of MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

// Get always returns nil
func (e EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }

// Has always returns false
func (e EmptyKVStore) Has(key []byte) (bool, error) { return false, nil }

// Set is a noop
func (e EmptyKVStore) Set(key, value []byte) error { return nil }

// Delete is a noop
func (e EmptyKVStore) Delete(key []byte) error { return nil }

// NewBatch returns a batch that writes nowhere.
func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

type op struct {
	del   bool
	key   []byte
	value []byte
}

func (o op) apply(out SetDeleter) error {
	if o.del {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// NonAtomicBatch collects operations and replays them in order on Write.
// A failing operation leaves the ones before it applied.
type NonAtomicBatch struct {
	via applier
	ops []op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch creates an empty batch to be later written to out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{via: direct{out}}
}

// locked makes the batch replay its operations through a, so that a shared
// store applies them under one lock.
func (b *NonAtomicBatch) locked(a applier) *NonAtomicBatch {
	b.via = a
	return b
}

// Set adds a set operation to the batch
func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, op{key: key, value: value})
	return nil
}

// Delete adds a delete operation to the batch
func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, op{del: true, key: key})
	return nil
}

// Write replays all operations and empties the batch.
func (b *NonAtomicBatch) Write() error {
	err := b.via.apply(func(out SetDeleter) error {
		for i, o := range b.ops {
			if err := o.apply(out); err != nil {
				return errors.Wrapf(err, "operation %d", i)
			}
		}
		return nil
	})
	b.ops = nil
	return err
}
