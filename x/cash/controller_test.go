package cash

import (
	"math"
	"testing"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
	"github.com/iov-one/trustvault/store"
	"github.com/iov-one/trustvault/tvtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balance(t *testing.T, kv trustvault.ReadOnlyKVStore, id trustvault.Identity) uint64 {
	t.Helper()
	got, err := NewController(NewBucket()).Balance(kv, id)
	require.NoError(t, err)
	return got
}

func TestCreditDebit(t *testing.T) {
	kv := store.MemStore()
	ctrl := NewController(NewBucket())
	a := tvtest.NewIdentity()
	b := tvtest.NewIdentity()

	assert.Equal(t, uint64(0), balance(t, kv, a))

	require.NoError(t, ctrl.Credit(kv, a, 500))
	assert.Equal(t, uint64(500), balance(t, kv, a))
	assert.Equal(t, uint64(0), balance(t, kv, b))

	require.NoError(t, ctrl.Debit(kv, a, 100))
	assert.Equal(t, uint64(400), balance(t, kv, a))

	err := ctrl.Debit(kv, a, 401)
	assert.True(t, errors.ErrInsufficientFunds.Is(err), "got %+v", err)
	assert.Equal(t, uint64(400), balance(t, kv, a))

	// Debit to zero removes the key.
	require.NoError(t, ctrl.Debit(kv, a, 400))
	has, err := kv.Has(NewBucket().DBKey(a))
	require.NoError(t, err)
	assert.False(t, has)

	// Zero amounts are a no-op.
	require.NoError(t, ctrl.Credit(kv, b, 0))
	require.NoError(t, ctrl.Debit(kv, b, 0))
	assert.Equal(t, uint64(0), balance(t, kv, b))
}

func TestCreditOverflow(t *testing.T) {
	kv := store.MemStore()
	ctrl := NewController(NewBucket())
	a := tvtest.NewIdentity()

	require.NoError(t, ctrl.Credit(kv, a, math.MaxUint64))
	err := ctrl.Credit(kv, a, 1)
	assert.True(t, errors.ErrOverflow.Is(err), "got %+v", err)
	assert.Equal(t, uint64(math.MaxUint64), balance(t, kv, a))
}

func TestMoveFunds(t *testing.T) {
	a := tvtest.NewIdentity()
	b := tvtest.NewIdentity()

	cases := map[string]struct {
		initial  uint64
		src      trustvault.Identity
		dest     trustvault.Identity
		amount   uint64
		wantErr  *errors.Error
		wantSrc  uint64
		wantDest uint64
	}{
		"move part": {
			initial:  500,
			src:      a,
			dest:     b,
			amount:   100,
			wantSrc:  400,
			wantDest: 100,
		},
		"move all": {
			initial:  500,
			src:      a,
			dest:     b,
			amount:   500,
			wantSrc:  0,
			wantDest: 500,
		},
		"insufficient funds": {
			initial:  50,
			src:      a,
			dest:     b,
			amount:   100,
			wantErr:  errors.ErrInsufficientFunds,
			wantSrc:  50,
			wantDest: 0,
		},
		"same identity": {
			initial: 50,
			src:     a,
			dest:    a,
			amount:  10,
			wantErr: errors.ErrInvalidInput,
			wantSrc: 50,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(NewBucket())
			require.NoError(t, ctrl.Credit(db, a, tc.initial))

			cache := db.CacheWrap()
			err := ctrl.MoveFunds(cache, tc.src, tc.dest, tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err != nil {
				cache.Discard()
			} else {
				require.NoError(t, cache.Write())
			}

			assert.Equal(t, tc.wantSrc, balance(t, db, tc.src))
			if !tc.src.Equals(tc.dest) {
				assert.Equal(t, tc.wantDest, balance(t, db, tc.dest))
			}
		})
	}
}
