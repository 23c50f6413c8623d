package escrow

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/app"
	"github.com/iov-one/trustvault/errors"
	"github.com/iov-one/trustvault/store/iavl"
	"github.com/iov-one/trustvault/tvtest"
	"github.com/iov-one/trustvault/x/cash"
	"github.com/iov-one/trustvault/x/sigs"
	"golang.org/x/crypto/ed25519"
)

const testChainID = "test-chain"

// action is a single transition executed directly by the handlers,
// authenticated as signer at time now.
type action struct {
	signer  trustvault.Identity
	msg     trustvault.Msg
	now     trustvault.UnixTime
	wantErr *errors.Error
}

// deliver runs the action on a cache of db, writing it only on success as
// the engine does.
func (a action) deliver(t testing.TB, db trustvault.CacheableKVStore, r *app.Router) error {
	t.Helper()
	tx, err := sigs.NewTx(testChainID, a.msg)
	if err != nil {
		t.Fatalf("cannot build transaction: %s", err)
	}
	ctx := trustvault.WithBlockTime(context.Background(), a.now)
	auth := &tvtest.CtxAuth{Key: "auth"}
	ctx = auth.SetSigners(ctx, a.signer)

	cache := db.CacheWrap()
	if _, err := r.Check(ctx, cache, tx); err != nil {
		cache.Discard()
		return err
	}
	if _, err := r.Deliver(ctx, cache, tx); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		t.Fatalf("cannot write cache: %s", err)
	}
	return nil
}

// newHandlerRouter returns a router of all escrow handlers authenticating
// with the signers set by action.deliver.
func newHandlerRouter() *app.Router {
	r := app.NewRouter()
	RegisterRoutes(r, &tvtest.CtxAuth{Key: "auth"}, cash.NewController(cash.NewBucket()))
	return r
}

func setBalances(t testing.TB, db trustvault.KVStore, balances map[trustvault.Identity]uint64) {
	t.Helper()
	ctrl := cash.NewController(cash.NewBucket())
	for id, amount := range balances {
		if err := ctrl.Credit(db, id, amount); err != nil {
			t.Fatalf("cannot set balance: %s", err)
		}
	}
}

func balanceOf(t testing.TB, db trustvault.ReadOnlyKVStore, id trustvault.Identity) uint64 {
	t.Helper()
	b, err := cash.NewController(cash.NewBucket()).Balance(db, id)
	if err != nil {
		t.Fatalf("cannot read balance: %s", err)
	}
	return b
}

// newTestEngine returns an engine over an in-memory iavl store, initialized
// with given balances.
func newTestEngine(t testing.TB, clock trustvault.Clock, balances map[trustvault.Identity]uint64) *Engine {
	t.Helper()
	e := NewEngine(iavl.NewMemCommitStore(0), clock, nil)

	accts := make([]cash.GenesisAccount, 0, len(balances))
	for id, b := range balances {
		accts = append(accts, cash.GenesisAccount{Identity: id, Balance: b})
	}
	raw, err := json.Marshal(accts)
	if err != nil {
		t.Fatalf("cannot encode genesis accounts: %s", err)
	}
	gen := &app.Genesis{
		ChainID:  testChainID,
		AppState: trustvault.Options{"cash": raw},
	}
	if err := e.InitChain(gen); err != nil {
		t.Fatalf("cannot init chain: %+v", err)
	}
	return e
}

// signed returns a transaction carrying msg signed by all keys.
func signed(t testing.TB, msg trustvault.Msg, keys ...ed25519.PrivateKey) *sigs.Tx {
	t.Helper()
	tx, err := sigs.NewTx(testChainID, msg)
	if err != nil {
		t.Fatalf("cannot build transaction: %s", err)
	}
	for _, k := range keys {
		if err := tx.Sign(k); err != nil {
			t.Fatalf("cannot sign: %s", err)
		}
	}
	return tx
}

func atTime(now trustvault.UnixTime) context.Context {
	return trustvault.WithBlockTime(context.Background(), now)
}

func engineBalance(t testing.TB, e *Engine, id trustvault.Identity) uint64 {
	t.Helper()
	b, err := e.Balance(id)
	if err != nil {
		t.Fatalf("cannot read balance: %s", err)
	}
	return b
}
