package tvtest

import (
	"testing"

	"github.com/iov-one/trustvault"
	"golang.org/x/crypto/ed25519"
)

// NewKey returns a fresh ed25519 private key. Panics if the system source of
// randomness fails.
func NewKey() ed25519.PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return priv
}

// KeyIdentity returns the identity of the public part of given key.
func KeyIdentity(priv ed25519.PrivateKey) trustvault.Identity {
	var id trustvault.Identity
	copy(id[:], priv.Public().(ed25519.PublicKey))
	return id
}

// NewIdentity returns the identity of a fresh key. Use it when the test only
// needs a participant and never signs anything.
func NewIdentity() trustvault.Identity {
	return KeyIdentity(NewKey())
}

// SequenceID returns a deterministic identity, handy for record identities
// in table tests.
func SequenceID(n uint64) trustvault.Identity {
	var id trustvault.Identity
	for i := 0; i < 8; i++ {
		id[trustvault.IdentityLength-1-i] = byte(n >> (8 * uint(i)))
	}
	return id
}

// ParseIdentity takes an identity in a human readable format and returns
// its binary representation.
func ParseIdentity(t testing.TB, enc string) trustvault.Identity {
	t.Helper()

	id, err := trustvault.ParseIdentity(enc)
	if err != nil {
		t.Fatalf("cannot parse %q identity: %s", enc, err)
	}
	return id
}
