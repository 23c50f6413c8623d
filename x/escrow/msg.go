package escrow

import (
	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
)

const (
	pathCreateMsg  = "escrow/create"
	pathReleaseMsg = "escrow/release"
	pathRefundMsg  = "escrow/refund"
	pathCloseMsg   = "escrow/close"
)

// CreateMsg locks Amount of the payer funds in the vault of a new record.
type CreateMsg struct {
	// EscrowID is the identity of the new record, chosen by the payer.
	EscrowID trustvault.Identity `msgpack:"escrow_id"`
	// Payer defaults to the main signer when not set.
	Payer  trustvault.Identity `msgpack:"payer"`
	Payee  trustvault.Identity `msgpack:"payee"`
	Amount uint64              `msgpack:"amount"`
	// Expiry is the last moment when a refund is not yet possible.
	Expiry trustvault.UnixTime `msgpack:"expiry"`
}

// ReleaseMsg sends the vault funds to the payee.
type ReleaseMsg struct {
	EscrowID trustvault.Identity `msgpack:"escrow_id"`
	Vault    trustvault.Identity `msgpack:"vault"`
}

// RefundMsg sends the vault funds back to the payer after the expiry.
type RefundMsg struct {
	EscrowID trustvault.Identity `msgpack:"escrow_id"`
	Vault    trustvault.Identity `msgpack:"vault"`
}

// CloseMsg removes a record that reached a terminal state.
type CloseMsg struct {
	EscrowID trustvault.Identity `msgpack:"escrow_id"`
}

var _ trustvault.Msg = (*CreateMsg)(nil)
var _ trustvault.Msg = (*ReleaseMsg)(nil)
var _ trustvault.Msg = (*RefundMsg)(nil)
var _ trustvault.Msg = (*CloseMsg)(nil)

//--------- Path routing --------

// Path fulfills trustvault.Msg interface to allow routing
func (CreateMsg) Path() string {
	return pathCreateMsg
}

// Path fulfills trustvault.Msg interface to allow routing
func (ReleaseMsg) Path() string {
	return pathReleaseMsg
}

// Path fulfills trustvault.Msg interface to allow routing
func (RefundMsg) Path() string {
	return pathRefundMsg
}

// Path fulfills trustvault.Msg interface to allow routing
func (CloseMsg) Path() string {
	return pathCloseMsg
}

//--------- Validation --------

// NewCreateMsg is a helper to quickly build a create escrow message. The
// payer is the main signer.
func NewCreateMsg(
	escrowID trustvault.Identity,
	payee trustvault.Identity,
	amount uint64,
	expiry trustvault.UnixTime,
) *CreateMsg {
	return &CreateMsg{
		EscrowID: escrowID,
		Payee:    payee,
		Amount:   amount,
		Expiry:   expiry,
	}
}

// Validate makes sure that this is sensible.
// Note that this allows an expiry in the past, such an escrow can be
// refunded right away.
func (m *CreateMsg) Validate() error {
	if err := m.EscrowID.Validate(); err != nil {
		return errors.Wrap(err, "escrow id")
	}
	if err := m.Payee.Validate(); err != nil {
		return errors.Wrap(err, "payee")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	return nil
}

// NewReleaseMsg returns a message releasing given escrow. The vault is
// derived from the escrow id.
func NewReleaseMsg(escrowID trustvault.Identity) *ReleaseMsg {
	return &ReleaseMsg{EscrowID: escrowID, Vault: VaultIdentity(escrowID)}
}

// Validate makes sure that this is sensible
func (m *ReleaseMsg) Validate() error {
	return validateSpend(m.EscrowID, m.Vault)
}

// NewRefundMsg returns a message refunding given escrow. The vault is
// derived from the escrow id.
func NewRefundMsg(escrowID trustvault.Identity) *RefundMsg {
	return &RefundMsg{EscrowID: escrowID, Vault: VaultIdentity(escrowID)}
}

// Validate makes sure that this is sensible
func (m *RefundMsg) Validate() error {
	return validateSpend(m.EscrowID, m.Vault)
}

// Validate makes sure that this is sensible
func (m *CloseMsg) Validate() error {
	return errors.Wrap(m.EscrowID.Validate(), "escrow id")
}

func validateSpend(escrowID, vault trustvault.Identity) error {
	if err := escrowID.Validate(); err != nil {
		return errors.Wrap(err, "escrow id")
	}
	if err := vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	return nil
}
