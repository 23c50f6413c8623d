package escrow

import (
	"encoding/binary"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
)

// payloadLength is the size of a serialized Escrow:
// payer(32) payee(32) amount(8) expiry(8) released(1).
const payloadLength = 2*trustvault.IdentityLength + 8 + 8 + 1

// State is the lifecycle state of an escrow record.
type State uint8

const (
	// StateActive is the state of a record holding funds in its vault.
	StateActive State = iota + 1
	// StateReleased is the terminal state after the payee took the funds.
	StateReleased
	// StateRefunded is the terminal state after the payer took the funds
	// back.
	StateRefunded
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateReleased:
		return "released"
	case StateRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if no transition other than close is legal in
// this state.
func (s State) IsTerminal() bool {
	return s == StateReleased || s == StateRefunded
}

// Validate returns an error if s is not one of the declared states.
func (s State) Validate() error {
	switch s {
	case StateActive, StateReleased, StateRefunded:
		return nil
	}
	return errors.Wrapf(errors.ErrInvalidState, "unknown state %d", s)
}

// Escrow is the agreement between a payer and a payee. All fields except
// the released flag are fixed by NewEscrow and there is no way to change
// them.
type Escrow struct {
	payer    trustvault.Identity
	payee    trustvault.Identity
	amount   uint64
	expiry   trustvault.UnixTime
	released bool
}

// NewEscrow returns an escrow that is not released.
func NewEscrow(payer, payee trustvault.Identity, amount uint64, expiry trustvault.UnixTime) *Escrow {
	return &Escrow{
		payer:  payer,
		payee:  payee,
		amount: amount,
		expiry: expiry,
	}
}

// Payer returns the identity that deposited the funds.
func (e *Escrow) Payer() trustvault.Identity { return e.payer }

// Payee returns the identity that is allowed to release the funds.
func (e *Escrow) Payee() trustvault.Identity { return e.payee }

// Amount returns the locked amount.
func (e *Escrow) Amount() uint64 { return e.amount }

// Expiry returns the time after which the payer can ask for a refund.
func (e *Escrow) Expiry() trustvault.UnixTime { return e.expiry }

// Released returns true once the funds left the vault.
func (e *Escrow) Released() bool { return e.released }

// MarkReleased sets the released flag. A flag can be set only once.
func (e *Escrow) MarkReleased() error {
	if e.released {
		return errors.ErrAlreadyReleased
	}
	e.released = true
	return nil
}

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	if err := e.payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if err := e.payee.Validate(); err != nil {
		return errors.Wrap(err, "payee")
	}
	return nil
}

// Marshal returns the fixed size binary representation of the escrow.
// Integers are little endian.
func (e *Escrow) Marshal() ([]byte, error) {
	raw := make([]byte, payloadLength)
	n := copy(raw, e.payer[:])
	n += copy(raw[n:], e.payee[:])
	binary.LittleEndian.PutUint64(raw[n:], e.amount)
	n += 8
	binary.LittleEndian.PutUint64(raw[n:], uint64(e.expiry))
	n += 8
	if e.released {
		raw[n] = 1
	}
	return raw, nil
}

// Unmarshal loads an escrow serialized with Marshal.
func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) != payloadLength {
		return errors.Wrapf(errors.ErrInvalidInput, "escrow payload length %d", len(raw))
	}
	var released bool
	switch raw[payloadLength-1] {
	case 0:
	case 1:
		released = true
	default:
		return errors.Wrapf(errors.ErrInvalidState, "released flag %#x", raw[payloadLength-1])
	}

	n := copy(e.payer[:], raw)
	n += copy(e.payee[:], raw[n:])
	e.amount = binary.LittleEndian.Uint64(raw[n:])
	n += 8
	e.expiry = trustvault.UnixTime(binary.LittleEndian.Uint64(raw[n:]))
	e.released = released
	return nil
}
