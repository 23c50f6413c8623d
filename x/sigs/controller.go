package sigs

import (
	"context"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
	"golang.org/x/crypto/ed25519"
)

// VerifyTx checks all signatures of the transaction and returns a context
// that authenticates every signer. A transaction without signatures, with a
// single invalid signature or signed for another chain is rejected.
func VerifyTx(ctx context.Context, tx *Tx) (context.Context, error) {
	if chainID := trustvault.ChainID(ctx); chainID != "" && chainID != tx.ChainID {
		return ctx, errors.Wrapf(errors.ErrInvalidInput, "transaction for chain %q, want %q", tx.ChainID, chainID)
	}
	if len(tx.Signatures) == 0 {
		return ctx, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	bz, err := tx.SignBytes()
	if err != nil {
		return ctx, err
	}

	signers := make([]trustvault.Identity, 0, len(tx.Signatures))
	for i, sig := range tx.Signatures {
		id, err := VerifySignature(bz, sig)
		if err != nil {
			return ctx, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, id)
	}
	return withSigners(ctx, signers), nil
}

// VerifySignature checks a single signature over given bytes and returns
// the identity of the signer.
func VerifySignature(signBytes []byte, sig StdSignature) (trustvault.Identity, error) {
	if len(sig.PubKey) != ed25519.PublicKeySize {
		return trustvault.Identity{}, errors.Wrapf(errors.ErrUnauthorized, "public key length %d", len(sig.PubKey))
	}
	if !ed25519.Verify(ed25519.PublicKey(sig.PubKey), signBytes, sig.Signature) {
		return trustvault.Identity{}, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	return trustvault.NewIdentity(sig.PubKey)
}
