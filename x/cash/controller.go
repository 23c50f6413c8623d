package cash

import (
	"math"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
)

// Balancer reads balances.
type Balancer interface {
	Balance(db trustvault.ReadOnlyKVStore, id trustvault.Identity) (uint64, error)
}

// Mover moves funds between two identities.
type Mover interface {
	MoveFunds(db trustvault.KVStore, src, dest trustvault.Identity, amount uint64) error
}

// Controller is the complete set of balance primitives.
type Controller interface {
	Balancer
	Mover

	// Credit increases the balance of id by amount. Fails with
	// ErrOverflow if the balance would not fit into 64 bits.
	Credit(db trustvault.KVStore, id trustvault.Identity, amount uint64) error

	// Debit decreases the balance of id by amount. Fails with
	// ErrInsufficientFunds if the balance would go negative.
	Debit(db trustvault.KVStore, id trustvault.Identity, amount uint64) error
}

// BaseController is the ledger backed by a Bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller persisting balances in given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the current balance of given identity.
func (c BaseController) Balance(db trustvault.ReadOnlyKVStore, id trustvault.Identity) (uint64, error) {
	return c.bucket.Get(db, id)
}

// Credit increases the balance.
func (c BaseController) Credit(db trustvault.KVStore, id trustvault.Identity, amount uint64) error {
	if amount == 0 {
		return nil
	}
	have, err := c.bucket.Get(db, id)
	if err != nil {
		return err
	}
	if have > math.MaxUint64-amount {
		return errors.Wrapf(errors.ErrOverflow, "credit %d to %s", amount, id)
	}
	return c.bucket.Save(db, id, have+amount)
}

// Debit decreases the balance.
func (c BaseController) Debit(db trustvault.KVStore, id trustvault.Identity, amount uint64) error {
	if amount == 0 {
		return nil
	}
	have, err := c.bucket.Get(db, id)
	if err != nil {
		return err
	}
	if have < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "%s holds %d, want %d", id, have, amount)
	}
	return c.bucket.Save(db, id, have-amount)
}

// MoveFunds debits src and credits dest with the same amount. Conservation
// holds by construction: the sum of both deltas is zero. If any step fails
// the caller must discard the store, as the debit may already be written.
func (c BaseController) MoveFunds(db trustvault.KVStore, src, dest trustvault.Identity, amount uint64) error {
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInvalidInput, "source and destination are the same")
	}
	if err := c.Debit(db, src, amount); err != nil {
		return err
	}
	return c.Credit(db, dest, amount)
}
