package escrow

import (
	"context"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/app"
	"github.com/iov-one/trustvault/errors"
	"github.com/iov-one/trustvault/x"
	"github.com/iov-one/trustvault/x/cash"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r *app.Router, auth x.Authenticator, bank cash.Controller) {
	bucket := NewBucket()
	r.Handle(pathCreateMsg, CreateHandler{auth: auth, bucket: bucket, bank: bank})
	r.Handle(pathReleaseMsg, ReleaseHandler{auth: auth, bucket: bucket, bank: bank})
	r.Handle(pathRefundMsg, RefundHandler{auth: auth, bucket: bucket, bank: bank})
	r.Handle(pathCloseMsg, CloseHandler{auth: auth, bucket: bucket, bank: bank})
}

// CreateHandler locks the payer funds in the vault of a new record.
type CreateHandler struct {
	auth   x.Authenticator
	bucket Bucket
	bank   cash.Controller
}

var _ trustvault.Handler = CreateHandler{}

// Check just verifies it is properly formed.
func (h CreateHandler) Check(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*trustvault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &trustvault.CheckResult{}, nil
}

// Deliver stores a new record and moves the amount from the payer to the
// vault of the record.
func (h CreateHandler) Deliver(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*trustvault.DeliverResult, error) {
	msg, payer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	escrow := NewEscrow(payer, msg.Payee, msg.Amount, msg.Expiry)
	if err := h.bucket.Create(db, msg.EscrowID, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	if err := newVault(msg.EscrowID, h.bank).Deposit(db, payer, msg.Amount); err != nil {
		return nil, err
	}
	return &trustvault.DeliverResult{Data: msg.EscrowID.Bytes()}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CreateHandler) validate(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*CreateMsg, trustvault.Identity, error) {
	var msg CreateMsg
	if err := tx.LoadMsg(&msg); err != nil {
		return nil, trustvault.Identity{}, errors.Wrap(err, "load msg")
	}

	// Payer must authorize this (if not set, defaults to MainSigner).
	payer := msg.Payer
	if payer.IsZero() {
		signer, ok := x.MainSigner(ctx, h.auth)
		if !ok {
			return nil, payer, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		payer = signer
	} else if !h.auth.HasIdentity(ctx, payer) {
		return nil, payer, errors.Wrap(errors.ErrUnauthorized, "payer signature required")
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, payer, err
	}
	if msg.Amount < conf.MinAmount {
		return nil, payer, errors.Wrapf(errors.ErrInvalidAmount, "amount %d below minimum %d", msg.Amount, conf.MinAmount)
	}
	if conf.MaxLockPeriod > 0 {
		now, ok := trustvault.BlockTime(ctx)
		if !ok {
			return nil, payer, errors.Wrap(errors.ErrHuman, "block time not present in context")
		}
		if msg.Expiry > now+trustvault.UnixTime(conf.MaxLockPeriod) {
			return nil, payer, errors.Wrapf(errors.ErrInvalidInput, "expiry more than %d seconds ahead", conf.MaxLockPeriod)
		}
	}

	if err := h.bucket.checkUnused(db, msg.EscrowID); err != nil {
		return nil, payer, err
	}
	// The vault must hold exactly the locked amount while active.
	held, err := newVault(msg.EscrowID, h.bank).Balance(db)
	if err != nil {
		return nil, payer, err
	}
	if held != 0 {
		return nil, payer, errors.Wrapf(errors.ErrInvalidState, "vault already holds %d", held)
	}
	return &msg, payer, nil
}

// ReleaseHandler sends the vault funds to the payee.
type ReleaseHandler struct {
	auth   x.Authenticator
	bucket Bucket
	bank   cash.Controller
}

var _ trustvault.Handler = ReleaseHandler{}

// Check just verifies it is properly formed.
func (h ReleaseHandler) Check(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*trustvault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &trustvault.CheckResult{}, nil
}

// Deliver marks the record released and moves the amount from the vault to
// the payee. There is no time check, a release is valid at any moment while
// the record is active.
func (h ReleaseHandler) Deliver(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*trustvault.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := escrow.MarkReleased(); err != nil {
		return nil, err
	}
	if err := newVault(msg.EscrowID, h.bank).Withdraw(db, escrow.Payee(), escrow.Amount()); err != nil {
		return nil, err
	}
	if err := h.bucket.Save(db, msg.EscrowID, escrow, StateReleased); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	return &trustvault.DeliverResult{Data: msg.EscrowID.Bytes()}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h ReleaseHandler) validate(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*ReleaseMsg, *Escrow, error) {
	var msg ReleaseMsg
	if err := tx.LoadMsg(&msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadForSpend(db, h.bucket, msg.EscrowID, msg.Vault)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasIdentity(ctx, escrow.Payee()) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "payee signature required")
	}
	if escrow.Released() {
		return nil, nil, errors.ErrAlreadyReleased
	}
	return &msg, escrow, nil
}

// RefundHandler sends the vault funds back to the payer once the escrow
// expired.
type RefundHandler struct {
	auth   x.Authenticator
	bucket Bucket
	bank   cash.Controller
}

var _ trustvault.Handler = RefundHandler{}

// Check just verifies it is properly formed.
func (h RefundHandler) Check(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*trustvault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &trustvault.CheckResult{}, nil
}

// Deliver moves the amount from the vault back to the payer. The record
// becomes refunded, which sets its released flag as well.
func (h RefundHandler) Deliver(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*trustvault.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := escrow.MarkReleased(); err != nil {
		return nil, err
	}
	if err := newVault(msg.EscrowID, h.bank).Withdraw(db, escrow.Payer(), escrow.Amount()); err != nil {
		return nil, err
	}
	if err := h.bucket.Save(db, msg.EscrowID, escrow, StateRefunded); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	return &trustvault.DeliverResult{Data: msg.EscrowID.Bytes()}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h RefundHandler) validate(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*RefundMsg, *Escrow, error) {
	var msg RefundMsg
	if err := tx.LoadMsg(&msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadForSpend(db, h.bucket, msg.EscrowID, msg.Vault)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasIdentity(ctx, escrow.Payer()) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "payer signature required")
	}
	if escrow.Released() {
		return nil, nil, errors.ErrAlreadyReleased
	}
	if !trustvault.IsExpired(ctx, escrow.Expiry()) {
		return nil, nil, errors.Wrapf(errors.ErrNotExpired, "expires at %d", escrow.Expiry())
	}
	return &msg, escrow, nil
}

// CloseHandler removes a record that reached a terminal state.
type CloseHandler struct {
	auth   x.Authenticator
	bucket Bucket
	bank   cash.Controller
}

var _ trustvault.Handler = CloseHandler{}

// Check just verifies it is properly formed.
func (h CloseHandler) Check(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*trustvault.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &trustvault.CheckResult{}, nil
}

// Deliver deletes the record. Its identity stays reserved.
func (h CloseHandler) Deliver(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*trustvault.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Close(db, msg.EscrowID); err != nil {
		return nil, errors.Wrap(err, "cannot close escrow")
	}
	return &trustvault.DeliverResult{Data: msg.EscrowID.Bytes()}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CloseHandler) validate(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*CloseMsg, error) {
	var msg CloseMsg
	if err := tx.LoadMsg(&msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	escrow, state, err := h.bucket.Get(db, msg.EscrowID)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasIdentity(ctx, escrow.Payer()) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature required")
	}
	if !state.IsTerminal() {
		return nil, errors.Wrapf(errors.ErrInvalidState, "cannot close %s escrow", state)
	}
	balance, err := newVault(msg.EscrowID, h.bank).Balance(db)
	if err != nil {
		return nil, err
	}
	if balance != 0 {
		return nil, errors.Wrapf(errors.ErrInvalidState, "vault holds %d", balance)
	}
	return &msg, nil
}

// loadForSpend loads a record and checks that the vault supplied by the
// caller is the one paired with it.
func loadForSpend(db trustvault.ReadOnlyKVStore, bucket Bucket, escrowID, vault trustvault.Identity) (*Escrow, error) {
	escrow, _, err := bucket.Get(db, escrowID)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load escrow from the store")
	}
	if want := VaultIdentity(escrowID); !want.Equals(vault) {
		return nil, errors.Wrapf(errors.ErrIdentityMismatch, "vault %s is not %s", vault, want)
	}
	return escrow, nil
}
