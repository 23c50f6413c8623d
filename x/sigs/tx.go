package sigs

import (
	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
	"github.com/vmihailenco/msgpack"
	"golang.org/x/crypto/ed25519"
)

// StdSignature carries the public key and the signature of one signer. The
// public key is the signer identity.
type StdSignature struct {
	PubKey    []byte `msgpack:"pub_key"`
	Signature []byte `msgpack:"sig"`
}

// Tx is the envelope of a single message. A message is routed by its path
// and carried as an opaque msgpack payload, so that all signers sign the
// same bytes.
type Tx struct {
	ChainID    string         `msgpack:"chain_id"`
	Path       string         `msgpack:"path"`
	Payload    []byte         `msgpack:"payload"`
	Signatures []StdSignature `msgpack:"sigs"`
}

// NewTx wraps given message into an unsigned transaction.
func NewTx(chainID string, msg trustvault.Msg) (*Tx, error) {
	if !trustvault.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}
	payload, err := msgpack.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return &Tx{
		ChainID: chainID,
		Path:    msg.Path(),
		Payload: payload,
	}, nil
}

var _ trustvault.Tx = (*Tx)(nil)

// MsgPath returns the route of the carried message.
func (tx *Tx) MsgPath() string {
	return tx.Path
}

// LoadMsg decodes the payload into given message, ensures it is the kind of
// message the transaction declares and validates it.
func (tx *Tx) LoadMsg(msg trustvault.Msg) error {
	if tx.Path != msg.Path() {
		return errors.Wrapf(errors.ErrInvalidType, "want %q message, got %q", msg.Path(), tx.Path)
	}
	if err := msgpack.Unmarshal(tx.Payload, msg); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return msg.Validate()
}

// SignBytes returns the bytes every signer signs. The signatures themselves
// are not covered.
func (tx *Tx) SignBytes() ([]byte, error) {
	raw, err := msgpack.Marshal([]interface{}{tx.ChainID, tx.Path, tx.Payload})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return raw, nil
}

// Sign appends a signature of given key to the transaction.
func (tx *Tx) Sign(priv ed25519.PrivateKey) error {
	if len(priv) != ed25519.PrivateKeySize {
		return errors.Wrapf(errors.ErrInvalidInput, "private key length %d", len(priv))
	}
	bz, err := tx.SignBytes()
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, StdSignature{
		PubKey:    []byte(priv.Public().(ed25519.PublicKey)),
		Signature: ed25519.Sign(priv, bz),
	})
	return nil
}

// Marshal serializes the whole transaction, signatures included.
func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := msgpack.Marshal(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return raw, nil
}

// Unmarshal loads a transaction serialized with Marshal.
func (tx *Tx) Unmarshal(raw []byte) error {
	if err := msgpack.Unmarshal(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}
