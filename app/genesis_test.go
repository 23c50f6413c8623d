package app

import (
	"testing"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
	"github.com/iov-one/trustvault/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dummyKey = "dummy"

type dummyInit struct{}

func (dummyInit) FromGenesis(opts trustvault.Options, kv trustvault.KVStore) error {
	var value string
	if err := opts.ReadOptions(dummyKey, &value); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return kv.Set([]byte(dummyKey), []byte(value))
}

type countInit struct {
	called int
}

func (c *countInit) FromGenesis(opts trustvault.Options, kv trustvault.KVStore) error {
	c.called++
	return nil
}

func TestLoadGenesis(t *testing.T) {
	cases := map[string]struct {
		file         string
		wantParseErr bool
		wantInitErr  *errors.Error
		wantChain    string
		wantCalled   int
		wantValue    []byte
	}{
		"no such file": {
			file:         "bad_file.json",
			wantParseErr: true,
		},
		"proper parse": {
			file:       "testdata/genesis.json",
			wantChain:  "test-chain-67",
			wantCalled: 1,
			wantValue:  []byte("secret"),
		},
		"bad init": {
			file:        "testdata/bad_genesis.json",
			wantInitErr: errors.ErrInvalidInput,
			wantChain:   "super-chain-22",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			gen, err := LoadGenesis(tc.file)
			if tc.wantParseErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantChain, gen.ChainID)

			c := new(countInit)
			init := trustvault.ChainInitializers(dummyInit{}, c)
			db := store.MemStore()

			err = InitChain(db, gen, init)
			if tc.wantInitErr != nil {
				assert.True(t, tc.wantInitErr.Is(err), "got %+v", err)
			} else {
				require.NoError(t, err)
			}

			chainID, err := LoadChainID(db)
			require.NoError(t, err)
			assert.Equal(t, tc.wantChain, chainID)
			assert.Equal(t, tc.wantCalled, c.called)
			val, err := db.Get([]byte(dummyKey))
			require.NoError(t, err)
			assert.Equal(t, tc.wantValue, val)
		})
	}
}

func TestInitChainTwice(t *testing.T) {
	gen := &Genesis{
		ChainID:  "test-chain-67",
		AppState: trustvault.Options{dummyKey: []byte(`"x"`)},
	}
	db := store.MemStore()
	require.NoError(t, InitChain(db, gen, dummyInit{}))
	err := InitChain(db, gen, dummyInit{})
	assert.True(t, errors.ErrInvalidState.Is(err))
}

func TestInitChainRequiresAppState(t *testing.T) {
	gen := &Genesis{ChainID: "test-chain-67"}
	err := InitChain(store.MemStore(), gen, dummyInit{})
	assert.True(t, errors.ErrEmpty.Is(err))
}
