// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/keys"
	"github.com/ava-labs/countervm/state"
)

var (
	payer   = codec.Address{1}
	program = codec.Address{2}
	target  = codec.Address{3}
)

func newTestState() *state.SimpleMutable {
	return state.NewSimpleMutable(memdb.New())
}

func TestAccountKeys(t *testing.T) {
	require := require.New(t)

	k := AccountKey(target)
	require.Equal(accountPrefix, k[0])
	require.Equal(target[:], k[1:1+codec.AddressLen])
	chunks, ok := keys.MaxChunks(k)
	require.True(ok)
	require.Equal(accountChunks, chunks)

	a := &Account{Lamports: 1, Owner: program, Data: make([]byte, MaxAccountDataSize)}
	v, err := a.Marshal()
	require.NoError(err)
	require.True(keys.VerifyValue(k, v))

	require.NotEqual(TxKey([32]byte{1}), TxKey([32]byte{2}))
}

func TestAccountMarshal(t *testing.T) {
	require := require.New(t)

	a := &Account{Lamports: 42, Owner: program, Data: []byte{1, 2, 3}}
	v, err := a.Marshal()
	require.NoError(err)
	require.Len(v, a.Size())

	parsed, err := UnmarshalAccount(v)
	require.NoError(err)
	require.Equal(a, parsed)

	_, err = UnmarshalAccount(append(v, 0))
	require.ErrorIs(err, ErrInvalidAccount)
	_, err = UnmarshalAccount(v[:10])
	require.ErrorIs(err, ErrInvalidAccount)

	_, err = (&Account{Data: make([]byte, MaxAccountDataSize+1)}).Marshal()
	require.ErrorIs(err, ErrAccountDataTooLarge)
}

func TestBalances(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := newTestState()

	bal, err := GetBalance(ctx, mu, payer)
	require.NoError(err)
	require.Zero(bal)

	_, err = SubBalance(ctx, mu, payer, 1)
	require.ErrorIs(err, ErrInsufficientFunds)

	bal, err = AddBalance(ctx, mu, payer, 100)
	require.NoError(err)
	require.Equal(uint64(100), bal)

	_, err = AddBalance(ctx, mu, payer, math.MaxUint64)
	require.ErrorIs(err, ErrInvalidBalance)

	bal, err = SubBalance(ctx, mu, payer, 40)
	require.NoError(err)
	require.Equal(uint64(60), bal)

	// Emptied wallets are removed.
	_, err = SubBalance(ctx, mu, payer, 60)
	require.NoError(err)
	_, err = mu.GetValue(ctx, AccountKey(payer))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestRent(t *testing.T) {
	require := require.New(t)
	r := DefaultRent()

	deposit, err := r.MinimumBalance(0)
	require.NoError(err)
	require.Equal(uint64(AccountStorageOverhead*3_480*2), deposit)

	// The minimum balance of a counter account.
	deposit, err = r.MinimumBalance(49)
	require.NoError(err)
	require.Equal(uint64(1_231_920), deposit)

	_, err = r.MinimumBalance(math.MaxUint64)
	require.ErrorIs(err, ErrAccountDataTooLarge)
	_, err = Rent{LamportsPerByteYear: math.MaxUint64, ExemptionYears: 2}.MinimumBalance(1)
	require.ErrorIs(err, ErrInvalidBalance)
}

func TestAccountsLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := newTestState()
	rent := DefaultRent()
	accts := NewAccounts(mu, rent)
	deposit, err := rent.MinimumBalance(16)
	require.NoError(err)

	_, err = AddBalance(ctx, mu, payer, deposit+5)
	require.NoError(err)

	_, _, err = accts.Load(ctx, target)
	require.ErrorIs(err, database.ErrNotFound)
	require.ErrorIs(accts.Store(ctx, target, []byte{1}), database.ErrNotFound)

	require.NoError(accts.Allocate(ctx, payer, target, 16, program))
	bal, err := GetBalance(ctx, mu, payer)
	require.NoError(err)
	require.Equal(uint64(5), bal)

	owner, data, err := accts.Load(ctx, target)
	require.NoError(err)
	require.Equal(program, owner)
	require.Equal(make([]byte, 16), data)

	err = accts.Allocate(ctx, payer, target, 16, program)
	require.ErrorIs(err, ErrAccountInUse)

	require.NoError(accts.Store(ctx, target, []byte("0123456789abcdef")))
	require.ErrorIs(accts.Store(ctx, target, make([]byte, 17)), ErrAccountDataTooLarge)
	_, data, err = accts.Load(ctx, target)
	require.NoError(err)
	require.Equal([]byte("0123456789abcdef"), data)

	refund, err := accts.Close(ctx, target, payer)
	require.NoError(err)
	require.Equal(deposit, refund)
	bal, err = GetBalance(ctx, mu, payer)
	require.NoError(err)
	require.Equal(deposit+5, bal)
	_, _, err = accts.Load(ctx, target)
	require.ErrorIs(err, database.ErrNotFound)

	_, err = accts.Close(ctx, target, payer)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestAllocatePrefunded(t *testing.T) {
	rent := DefaultRent()
	deposit, err := rent.MinimumBalance(16)
	require.NoError(t, err)

	tests := map[string]struct {
		prefund      uint64
		payerBalance uint64
		lamports     uint64
	}{
		"BelowDeposit": {
			prefund:      10,
			payerBalance: 15,
			lamports:     deposit,
		},
		"AboveDeposit": {
			prefund:      deposit + 7,
			payerBalance: deposit + 5,
			lamports:     deposit + 7,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			mu := newTestState()
			accts := NewAccounts(mu, rent)

			_, err := AddBalance(ctx, mu, payer, deposit+5)
			require.NoError(err)
			_, err = AddBalance(ctx, mu, target, test.prefund)
			require.NoError(err)

			require.NoError(accts.Allocate(ctx, payer, target, 16, program))
			bal, err := GetBalance(ctx, mu, payer)
			require.NoError(err)
			require.Equal(test.payerBalance, bal)
			acct, exists, err := GetAccount(ctx, mu, target)
			require.NoError(err)
			require.True(exists)
			require.Equal(program, acct.Owner)
			require.Equal(test.lamports, acct.Lamports)
			require.Len(acct.Data, 16)

			// Only an account with data or an owner is in use.
			require.ErrorIs(accts.Allocate(ctx, payer, target, 16, program), ErrAccountInUse)
		})
	}
}

func TestAllocateInsufficientFunds(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := newTestState()
	accts := NewAccounts(mu, DefaultRent())

	_, err := AddBalance(ctx, mu, payer, 1)
	require.NoError(err)

	err = accts.Allocate(ctx, payer, target, 16, program)
	require.ErrorIs(err, ErrInsufficientFunds)
	_, _, err = accts.Load(ctx, target)
	require.ErrorIs(err, database.ErrNotFound)

	err = accts.Allocate(ctx, payer, target, MaxAccountDataSize+1, program)
	require.ErrorIs(err, ErrAccountDataTooLarge)
}

func TestNewDatabase(t *testing.T) {
	require := require.New(t)
	cfg := pebbleTestConfig()

	db, registry, err := New(cfg, t.TempDir(), StateNamespace)
	require.NoError(err)
	require.NotNil(registry)
	require.NoError(db.Put([]byte("k"), []byte("v")))
	require.NoError(db.Close())
}
