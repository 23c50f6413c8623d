package escrow

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/app"
	"github.com/iov-one/trustvault/errors"
	"github.com/iov-one/trustvault/store"
	"github.com/iov-one/trustvault/x/cash"
	"github.com/iov-one/trustvault/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/vmihailenco/msgpack"
)

// CommitStore is the durable state the engine works on.
type CommitStore interface {
	trustvault.KVStore
	Commit() (trustvault.CommitID, error)
}

// Engine executes escrow transitions.
//
// Transitions that touch distinct records and distinct participants run in
// parallel. A transition holds the locks of its record and of all its
// signers until its changes are written, so concurrent transitions on the
// same record are serialized and every one of them observes the result of
// the previous one. Each transition runs on a cache-wrapped view of the
// state that is written only if the transition succeeded.
type Engine struct {
	// mu is held shared by transitions and exclusively by Commit.
	mu      sync.RWMutex
	locks   lockSet
	db      *store.SyncStore
	durable CommitStore

	handler trustvault.Handler
	bucket  Bucket
	bank    cash.Controller
	clock   trustvault.Clock
	logger  log.Logger
	metrics *engineMetrics
}

// NewEngine returns an engine operating on given store. The clock is read
// once per transition unless the context already carries a block time.
func NewEngine(db CommitStore, clock trustvault.Clock, logger log.Logger) *Engine {
	if logger == nil {
		logger = trustvault.DefaultLogger
	}
	bank := cash.NewController(cash.NewBucket())
	router := app.NewRouter()
	RegisterRoutes(router, sigs.Authenticate{}, bank)
	handler := app.ChainDecorators(
		app.NewLogging(),
		app.NewRecovery(),
	).WithHandler(router)
	return &Engine{
		db:      store.NewSyncStore(db),
		durable: db,
		handler: handler,
		bucket:  NewBucket(),
		bank:    bank,
		clock:   clock,
		logger:  logger.With("module", "escrow"),
		metrics: newEngineMetrics(),
	}
}

// Deliver verifies the signatures of the transaction and executes it. Either
// all effects of the transition are applied or none.
func (e *Engine) Deliver(ctx context.Context, tx *sigs.Tx) (*trustvault.DeliverResult, error) {
	var res *trustvault.DeliverResult
	err := e.run(ctx, tx, func(ctx context.Context, db trustvault.KVCacheWrap) error {
		r, err := e.handler.Deliver(ctx, db, tx)
		if err != nil {
			return err
		}
		if err := db.Write(); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Check verifies the signatures of the transaction and validates it against
// the current state without changing anything.
func (e *Engine) Check(ctx context.Context, tx *sigs.Tx) (*trustvault.CheckResult, error) {
	var res *trustvault.CheckResult
	err := e.run(ctx, tx, func(ctx context.Context, db trustvault.KVCacheWrap) error {
		r, err := e.handler.Check(ctx, db, tx)
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// run executes fn while holding the locks of the transaction. The cache
// given to fn is discarded unless fn wrote it.
func (e *Engine) run(
	ctx context.Context,
	tx *sigs.Tx,
	fn func(context.Context, trustvault.KVCacheWrap) error,
) (err error) {
	started := time.Now()
	defer func() { e.metrics.observe(tx.Path, started, err) }()

	ctx, err = e.withChainID(ctx)
	if err != nil {
		return err
	}
	ctx, err = sigs.VerifyTx(ctx, tx)
	if err != nil {
		return errors.Wrap(err, "verify")
	}
	escrowID, err := escrowIDOf(tx)
	if err != nil {
		return err
	}

	if _, ok := trustvault.BlockTime(ctx); !ok {
		ctx = trustvault.WithBlockTime(ctx, e.clock.Now())
	}
	ctx = trustvault.WithLogger(ctx, e.logger.With("path", tx.Path, "escrow", escrowID))

	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := append([]trustvault.Identity{escrowID}, sigs.Authenticate{}.GetSigners(ctx)...)
	release := e.locks.acquire(ids...)
	defer release()

	cache := e.db.CacheWrap()
	defer cache.Discard()
	return fn(ctx, cache)
}

// withChainID binds the context to the chain id stored by InitChain, so
// that transactions signed for another chain are rejected.
func (e *Engine) withChainID(ctx context.Context) (context.Context, error) {
	if trustvault.ChainID(ctx) != "" {
		return ctx, nil
	}
	chainID, err := e.ChainID()
	if err != nil {
		return ctx, err
	}
	if chainID == "" {
		return ctx, nil
	}
	return trustvault.WithChainID(ctx, chainID)
}

// escrowIDOf reads the record identity shared by all escrow messages
// without decoding the whole message.
func escrowIDOf(tx *sigs.Tx) (trustvault.Identity, error) {
	var ref struct {
		EscrowID trustvault.Identity `msgpack:"escrow_id"`
	}
	if err := msgpack.Unmarshal(tx.Payload, &ref); err != nil {
		return ref.EscrowID, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := ref.EscrowID.Validate(); err != nil {
		return ref.EscrowID, errors.Wrap(err, "escrow id")
	}
	return ref.EscrowID, nil
}

// Commit makes all executed transitions durable. It waits for running
// transitions to finish and blocks new ones until it is done.
func (e *Engine) Commit() (trustvault.CommitID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var id trustvault.CommitID
	err := e.db.Exclusive(func(trustvault.KVStore) error {
		var err error
		id, err = e.durable.Commit()
		return err
	})
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	e.metrics.commits.Inc()
	e.logger.Info("committed", "version", id.Version)
	return id, nil
}

// InitChain loads the initial state from genesis. Balances and the escrow
// configuration are read from the application state.
func (e *Engine) InitChain(gen *app.Genesis) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cache := e.db.CacheWrap()
	defer cache.Discard()
	init := trustvault.ChainInitializers(cash.Initializer{}, Initializer{})
	if err := app.InitChain(cache, gen, init); err != nil {
		return errors.Wrap(err, "init chain")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// ChainID returns the chain id stored by InitChain.
func (e *Engine) ChainID() (string, error) {
	return app.LoadChainID(e.db)
}

// Escrow returns the record with given identity and its state.
func (e *Engine) Escrow(id trustvault.Identity) (*Escrow, State, error) {
	return e.bucket.Get(e.db, id)
}

// IsClosed returns true if the record with given identity was closed.
func (e *Engine) IsClosed(id trustvault.Identity) (bool, error) {
	return e.bucket.IsClosed(e.db, id)
}

// Balance returns the ledger balance of given identity.
func (e *Engine) Balance(id trustvault.Identity) (uint64, error) {
	return e.bank.Balance(e.db, id)
}

// VaultBalance returns the amount held by the vault of given record.
func (e *Engine) VaultBalance(escrowID trustvault.Identity) (uint64, error) {
	return newVault(escrowID, e.bank).Balance(e.db)
}
