package trustvault

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/iov-one/trustvault/errors"
)

// IdentityLength is the length of all identities.
const IdentityLength = 32

// Identity is an opaque 32 byte value that uniquely identifies a participant
// (usually an ed25519 public key), an escrow record or a derived balance
// holder.
type Identity [IdentityLength]byte

// NewIdentity copies given bytes into an Identity. The input must be exactly
// IdentityLength long.
func NewIdentity(raw []byte) (Identity, error) {
	var id Identity
	if len(raw) != IdentityLength {
		return id, errors.Wrapf(errors.ErrInvalidInput, "identity length %d", len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// DeriveIdentity computes an identity that is namespaced by the given string
// and bound to all seeds. The same input always produces the same identity,
// so derived identities can be recomputed instead of being stored.
func DeriveIdentity(namespace string, seeds ...[]byte) Identity {
	h := sha256.New()
	h.Write([]byte(namespace))
	for _, s := range seeds {
		h.Write(s)
	}
	var id Identity
	copy(id[:], h.Sum(nil))
	return id
}

// RandomIdentity returns an identity filled with random data. It is used to
// pick a fresh escrow record identity.
func RandomIdentity() (Identity, error) {
	var id Identity
	if _, err := rand.Read(id[:]); err != nil {
		return id, errors.Wrap(err, "read random")
	}
	return id, nil
}

// IsZero returns true if this identity was never set.
func (i Identity) IsZero() bool {
	return i == Identity{}
}

// Equals checks if two identities are the same.
func (i Identity) Equals(o Identity) bool {
	return bytes.Equal(i[:], o[:])
}

// Bytes returns a copy of the binary representation.
func (i Identity) Bytes() []byte {
	b := make([]byte, IdentityLength)
	copy(b, i[:])
	return b
}

// Validate returns an error if this identity is not set.
func (i Identity) Validate() error {
	if i.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "identity")
	}
	return nil
}

// String returns the base58 representation, the format wallets use for
// 32 byte public keys.
func (i Identity) String() string {
	return base58.Encode(i[:])
}

// ParseIdentity accepts a human readable identity. Base58 is the default
// format, a "hex:" prefix selects hexadecimal decoding.
func ParseIdentity(enc string) (Identity, error) {
	chunks := strings.SplitN(enc, ":", 2)
	format := "base58"
	if len(chunks) == 2 {
		format, enc = chunks[0], chunks[1]
	}

	var (
		raw []byte
		err error
	)
	switch format {
	case "base58":
		raw = base58.Decode(enc)
		if len(raw) == 0 && len(enc) != 0 {
			return Identity{}, errors.Wrapf(errors.ErrInvalidInput, "malformed base58 identity %q", enc)
		}
	case "hex":
		raw, err = hex.DecodeString(enc)
		if err != nil {
			return Identity{}, errors.Wrapf(errors.ErrInvalidInput, "malformed hex identity: %s", err)
		}
	default:
		return Identity{}, errors.Wrapf(errors.ErrInvalidInput, "unknown identity format %q", format)
	}
	return NewIdentity(raw)
}

// Set updates the value of the identity. It implements flag.Value so an
// identity can be used as a command line flag.
func (i *Identity) Set(enc string) error {
	id, err := ParseIdentity(enc)
	if err != nil {
		return err
	}
	*i = id
	return nil
}

// MarshalJSON provides the base58 representation for JSON, to override the
// standard array encoding.
func (i Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

func (i *Identity) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	id, err := ParseIdentity(enc)
	if err != nil {
		return err
	}
	*i = id
	return nil
}
