package escrow

import (
	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
	"github.com/iov-one/trustvault/x/cash"
)

// vaultNamespace separates vault identities from any other derived identity.
const vaultNamespace = "vault"

// VaultIdentity returns the identity of the vault that belongs to the
// escrow record with given identity.
func VaultIdentity(escrowID trustvault.Identity) trustvault.Identity {
	return trustvault.DeriveIdentity(vaultNamespace, escrowID[:])
}

// Vault is the custodial balance of a single escrow record. Nothing signs
// for a vault identity, so only this package can move its funds.
type Vault struct {
	id   trustvault.Identity
	bank cash.Controller
}

// newVault returns the vault of given escrow record.
func newVault(escrowID trustvault.Identity, bank cash.Controller) Vault {
	return Vault{id: VaultIdentity(escrowID), bank: bank}
}

// Identity returns the derived identity of this vault.
func (v Vault) Identity() trustvault.Identity {
	return v.id
}

// Balance returns the amount held by the vault.
func (v Vault) Balance(db trustvault.ReadOnlyKVStore) (uint64, error) {
	return v.bank.Balance(db, v.id)
}

// Deposit moves funds from src into the vault.
func (v Vault) Deposit(db trustvault.KVStore, src trustvault.Identity, amount uint64) error {
	if err := v.bank.MoveFunds(db, src, v.id, amount); err != nil {
		return errors.Wrap(err, "deposit")
	}
	return nil
}

// Withdraw moves funds from the vault to dest.
func (v Vault) Withdraw(db trustvault.KVStore, dest trustvault.Identity, amount uint64) error {
	if err := v.bank.MoveFunds(db, v.id, dest, amount); err != nil {
		return errors.Wrap(err, "withdraw")
	}
	return nil
}
