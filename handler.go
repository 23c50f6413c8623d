package trustvault

import (
	"context"
	"encoding/json"
)

// Options are the app options.
// Each extension can look up its key and parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers lets you initialize many extensions with one function.
func ChainInitializers(inits ...Initializer) Initializer {
	return chainInitializer(inits)
}

type chainInitializer []Initializer

// FromGenesis calls all initializers in order and stops on the first error.
func (c chainInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, i := range c {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

// Tx is a transaction as seen by a handler. The message it carries is
// decoded on demand, because only the handler knows the concrete message
// type behind MsgPath.
type Tx interface {
	// MsgPath returns the route of the carried message.
	MsgPath() string
	// LoadMsg decodes the carried message into msg and validates it.
	LoadMsg(msg Msg) error
}

// Handler processes a single kind of message.
//
// Check validates a transaction against the current state without
// modifying it. Deliver validates and executes it. Both must be safe to call
// on a cache-wrapped store that is discarded on error.
type Handler interface {
	Check(ctx context.Context, db KVStore, tx Tx) (*CheckResult, error)
	Deliver(ctx context.Context, db KVStore, tx Tx) (*DeliverResult, error)
}

// CheckResult is returned by a successful Check.
type CheckResult struct {
	// Log is a human readable note about the transaction.
	Log string
}

// DeliverResult is returned by a successful Deliver.
type DeliverResult struct {
	// Data is the result of the execution, for example the identity of
	// a created record.
	Data []byte
	// Log is a human readable note about the transaction.
	Log string
}

// Decorator wraps a Handler to provide common functionality, like recovery
// from panics. It must call next to pass the transaction on.
type Decorator interface {
	Check(ctx context.Context, db KVStore, tx Tx, next Handler) (*CheckResult, error)
	Deliver(ctx context.Context, db KVStore, tx Tx, next Handler) (*DeliverResult, error)
}
