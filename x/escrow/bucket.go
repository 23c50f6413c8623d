package escrow

import (
	"bytes"
	"crypto/sha256"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
)

const (
	// BucketName is where we store the escrow records
	BucketName = "esc"

	discriminatorLength = 8
	frameLength         = discriminatorLength + 1 + payloadLength
)

// discriminator is the first part of every stored record. It tells an
// escrow record apart from any other value stored under the same key.
var discriminator = func() []byte {
	h := sha256.Sum256([]byte("account:Escrow"))
	return h[:discriminatorLength]
}()

// Bucket persists escrow records together with their state. Identities of
// closed records are remembered so that they are never reused.
type Bucket struct {
	prefix []byte
	closed []byte
}

// NewBucket returns the bucket used for escrow records.
func NewBucket() Bucket {
	return Bucket{
		prefix: []byte(BucketName + ":"),
		closed: []byte(BucketName + "_closed:"),
	}
}

// DBKey returns the store key of the record with given identity.
func (b Bucket) DBKey(id trustvault.Identity) []byte {
	return append(append([]byte{}, b.prefix...), id[:]...)
}

func (b Bucket) closedKey(id trustvault.Identity) []byte {
	return append(append([]byte{}, b.closed...), id[:]...)
}

// Create stores a new active record. It fails with ErrRecordExists if a
// record with the same identity exists or existed before.
func (b Bucket) Create(db trustvault.KVStore, id trustvault.Identity, e *Escrow) error {
	if err := b.checkUnused(db, id); err != nil {
		return err
	}
	return b.Save(db, id, e, StateActive)
}

// checkUnused fails with ErrRecordExists if a record with given identity
// exists or existed before.
func (b Bucket) checkUnused(db trustvault.ReadOnlyKVStore, id trustvault.Identity) error {
	if err := id.Validate(); err != nil {
		return errors.Wrap(err, "escrow id")
	}
	for _, key := range [][]byte{b.DBKey(id), b.closedKey(id)} {
		exists, err := db.Has(key)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if exists {
			return errors.Wrapf(errors.ErrRecordExists, "escrow %s", id)
		}
	}
	return nil
}

// Get loads the record with given identity. It fails with ErrNotFound if
// there is no such record.
func (b Bucket) Get(db trustvault.ReadOnlyKVStore, id trustvault.Identity) (*Escrow, State, error) {
	raw, err := db.Get(b.DBKey(id))
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, 0, errors.Wrapf(errors.ErrNotFound, "escrow %s", id)
	}
	e, state, err := decodeFrame(raw)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "escrow %s", id)
	}
	return e, state, nil
}

// Save writes the record in given state. The released flag of the record
// must agree with the state.
func (b Bucket) Save(db trustvault.KVStore, id trustvault.Identity, e *Escrow, state State) error {
	if err := e.Validate(); err != nil {
		return errors.Wrap(err, "invalid escrow")
	}
	raw, err := encodeFrame(e, state)
	if err != nil {
		return err
	}
	if err := db.Set(b.DBKey(id), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Close removes the record and marks its identity as used.
func (b Bucket) Close(db trustvault.KVStore, id trustvault.Identity) error {
	if err := db.Delete(b.DBKey(id)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if err := db.Set(b.closedKey(id), []byte{1}); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// IsClosed returns true if a record with given identity was closed.
func (b Bucket) IsClosed(db trustvault.ReadOnlyKVStore, id trustvault.Identity) (bool, error) {
	ok, err := db.Has(b.closedKey(id))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// encodeFrame returns discriminator || state || payload.
func encodeFrame(e *Escrow, state State) ([]byte, error) {
	if err := checkState(e, state); err != nil {
		return nil, err
	}
	payload, err := e.Marshal()
	if err != nil {
		return nil, err
	}
	raw := make([]byte, 0, frameLength)
	raw = append(raw, discriminator...)
	raw = append(raw, byte(state))
	return append(raw, payload...), nil
}

func decodeFrame(raw []byte) (*Escrow, State, error) {
	if len(raw) != frameLength {
		return nil, 0, errors.Wrapf(errors.ErrInvalidInput, "record length %d", len(raw))
	}
	if !bytes.Equal(raw[:discriminatorLength], discriminator) {
		return nil, 0, errors.Wrap(errors.ErrInvalidType, "not an escrow record")
	}
	state := State(raw[discriminatorLength])
	var e Escrow
	if err := e.Unmarshal(raw[discriminatorLength+1:]); err != nil {
		return nil, 0, err
	}
	if err := checkState(&e, state); err != nil {
		return nil, 0, err
	}
	return &e, state, nil
}

// checkState ensures that only an active record is not released.
func checkState(e *Escrow, state State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	if e.Released() == (state == StateActive) {
		return errors.Wrapf(errors.ErrInvalidState, "%s escrow with released flag %v", state, e.Released())
	}
	return nil
}
