/*
Package cash implements the native balance ledger.

Every identity holds a single unsigned balance in the smallest indivisible
unit of the native asset. Balances of identities that never received funds
are zero. The ledger offers checked credit and debit primitives: a credit
never overflows and a debit never makes a balance negative. All writes go to
the store handed in by the caller, so they commit or roll back together with
whatever else the caller wrote to that store.
*/
package cash
