/*
Package trustvault defines the common interfaces shared by the escrow
extensions, as well as implementations of the simpler components (when
interfaces would be too much overhead).

Participants and records are identified by a 32 byte Identity. Identities of
program controlled balances (vaults) are derived from the identity of the
record they belong to, so the pairing can always be recomputed and never has
to be stored.

We pass context through context.Context between the engine, the
authentication layer and the handlers. To do so, trustvault defines some
common keys to store info, such as block time and the logger. There should
exist two functions for every XYZ of type T that we want to support in
Context:

	WithXYZ(Context, T) Context
	XYZ(Context) (val T, ok bool)
*/
package trustvault
