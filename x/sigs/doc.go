/*
Package sigs authenticates transactions with ed25519 signatures.

The identity of a signer is its 32 byte ed25519 public key. VerifyTx checks
every signature of a transaction against its sign bytes and records the
signers in the context, where Authenticate makes them available to handlers
through the x.Authenticator interface. Only this package can mark an
identity as a signer.

Replays need no nonce here: every escrow transition can succeed at most once
per record, so a replayed transaction is rejected by the transition itself.
*/
package sigs
