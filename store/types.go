// nolint
package store

import "github.com/iov-one/trustvault"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = trustvault.ReadOnlyKVStore
type SetDeleter = trustvault.SetDeleter
type KVStore = trustvault.KVStore
type Batch = trustvault.Batch
type CacheableKVStore = trustvault.CacheableKVStore
type KVCacheWrap = trustvault.KVCacheWrap
type CommitKVStore = trustvault.CommitKVStore
type CommitID = trustvault.CommitID
