package sigs

import (
	"context"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/x"
)

//------------------- Context --------
// Add context information specific to this package

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx context.Context, signers []trustvault.Identity) context.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate implements x.Authenticator on top of the signers verified
// by VerifyTx.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetSigners returns who signed the current Context.
// May be empty
func (a Authenticate) GetSigners(ctx context.Context) []trustvault.Identity {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]trustvault.Identity)
	return val
}

// HasIdentity returns true if given identity signed the current Context.
func (a Authenticate) HasIdentity(ctx context.Context, id trustvault.Identity) bool {
	for _, s := range a.GetSigners(ctx) {
		if id.Equals(s) {
			return true
		}
	}
	return false
}
