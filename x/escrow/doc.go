/*
Package escrow implements a time-locked escrow between two parties.

A payer locks a fixed amount in a vault that belongs to a single escrow
record. The payee can release the funds at any time. The payer can get them
back with a refund, but only once the clock is strictly past the expiry of
the record. Whichever comes first ends the escrow: at most one of release and
refund ever succeeds for a record.

	create ──▶ Active ── release ──▶ Released
	              └───── refund ───▶ Refunded (after expiry)

The vault of a record is never stored. Its identity is derived from the
record identity with VaultIdentity, and every transition that spends from a
vault checks that the vault it was given is the derived one.

Once a record reached a terminal state the payer may close it. Closing
removes the record, and the identity of a closed record cannot be used again.

All transitions are executed by the Engine. The Engine serializes transitions
that touch the same record or the same participant and executes each of them
atomically: either all of its effects are written or none is.
*/
package escrow
