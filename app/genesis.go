package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
)

// Genesis file format, the initial state of a data directory.
type Genesis struct {
	ChainID  string             `json:"chain_id"`
	AppState trustvault.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "read genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unmarshal genesis file: %s", err)
	}
	return &gen, nil
}

// InitChain stores the chain id and passes the application state to the
// initializer. It fails if the store was already initialized.
func InitChain(kv trustvault.KVStore, gen *Genesis, init trustvault.Initializer) error {
	if len(gen.AppState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}
	if err := saveChainID(kv, gen.ChainID); err != nil {
		return err
	}
	return init.FromGenesis(gen.AppState, kv)
}

//------- storing chainID ---------

const chainIDKey = "_i.chain_id"

// LoadChainID returns the chain id stored if any
func LoadChainID(kv trustvault.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "read chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv trustvault.KVStore, chainID string) error {
	if !trustvault.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "read chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrInvalidState, "chain id already set")
	}
	return kv.Set(k, []byte(chainID))
}
