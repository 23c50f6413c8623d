package tvtest

import (
	"context"
	"fmt"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/x"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced identities. You can use
// either Signer or Signers (or both) attributes to reference identities.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convenience attribute when creating an authentication method for a
	// single signer.
	Signer trustvault.Identity

	// Signers represents an authentication of multiple signers.
	Signers []trustvault.Identity
}

var _ x.Authenticator = (*Auth)(nil)

func (a *Auth) GetSigners(context.Context) []trustvault.Identity {
	if !a.Signer.IsZero() {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasIdentity(ctx context.Context, id trustvault.Identity) bool {
	for _, s := range a.GetSigners(ctx) {
		if id.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve signers.
type CtxAuth struct {
	// Key used to set and retrieve signers from the context. For
	// convenience only string type keys are allowed.
	Key string
}

var _ x.Authenticator = (*CtxAuth)(nil)

func (a *CtxAuth) SetSigners(ctx context.Context, signers ...trustvault.Identity) context.Context {
	return context.WithValue(ctx, a.Key, signers)
}

func (a *CtxAuth) GetSigners(ctx context.Context) []trustvault.Identity {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	signers, ok := val.([]trustvault.Identity)
	if !ok {
		panic(fmt.Sprintf("instead of []trustvault.Identity got %T", val))
	}
	return signers
}

func (a *CtxAuth) HasIdentity(ctx context.Context, id trustvault.Identity) bool {
	for _, s := range a.GetSigners(ctx) {
		if id.Equals(s) {
			return true
		}
	}
	return false
}
