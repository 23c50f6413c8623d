package x

import (
	"context"

	"github.com/iov-one/trustvault"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetSigners reveals all identities that authorized the current
	// transaction.
	GetSigners(context.Context) []trustvault.Identity
	// HasIdentity checks if given identity authorized the current
	// transaction.
	HasIdentity(context.Context, trustvault.Identity) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetSigners combines all signers from all Authenticators
func (m MultiAuth) GetSigners(ctx context.Context) []trustvault.Identity {
	var res []trustvault.Identity
	for _, impl := range m.impls {
		add := impl.GetSigners(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasIdentity returns true iff any Authenticator support this
func (m MultiAuth) HasIdentity(ctx context.Context, id trustvault.Identity) bool {
	for _, impl := range m.impls {
		if impl.HasIdentity(ctx, id) {
			return true
		}
	}
	return false
}

// MainSigner returns the first signer if any, otherwise false.
func MainSigner(ctx context.Context, auth Authenticator) (trustvault.Identity, bool) {
	signers := auth.GetSigners(ctx)
	if len(signers) == 0 {
		return trustvault.Identity{}, false
	}
	return signers[0], true
}
