package cash

import (
	"encoding/binary"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
)

// BucketName is where we store the balances
const BucketName = "cash"

const balanceSize = 8

// Bucket persists balances keyed by identity. A missing key is a zero
// balance and a zero balance is never stored.
type Bucket struct {
	prefix []byte
}

// NewBucket returns the bucket used by the ledger.
func NewBucket() Bucket {
	return Bucket{prefix: []byte(BucketName + ":")}
}

// DBKey returns the store key of the balance of given identity.
func (b Bucket) DBKey(id trustvault.Identity) []byte {
	key := make([]byte, 0, len(b.prefix)+trustvault.IdentityLength)
	key = append(key, b.prefix...)
	return append(key, id[:]...)
}

// Get returns the balance of given identity.
func (b Bucket) Get(db trustvault.ReadOnlyKVStore, id trustvault.Identity) (uint64, error) {
	raw, err := db.Get(b.DBKey(id))
	if err != nil {
		return 0, errors.Wrap(err, "get balance")
	}
	if raw == nil {
		return 0, nil
	}
	if len(raw) != balanceSize {
		return 0, errors.Wrapf(errors.ErrInvalidState, "balance of %s has %d bytes", id, len(raw))
	}
	return binary.LittleEndian.Uint64(raw), nil
}

// Save writes the balance of given identity. A zero balance removes the key.
func (b Bucket) Save(db trustvault.KVStore, id trustvault.Identity, amount uint64) error {
	if amount == 0 {
		return b.wrap(db.Delete(b.DBKey(id)))
	}
	raw := make([]byte, balanceSize)
	binary.LittleEndian.PutUint64(raw, amount)
	return b.wrap(db.Set(b.DBKey(id), raw))
}

func (b Bucket) wrap(err error) error {
	return errors.Wrap(err, "save balance")
}
