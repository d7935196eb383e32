// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
)

func TestTransactionSignParse(t *testing.T) {
	require := require.New(t)
	l := newTestLedger(t)
	alice := newWallet(t)
	counterAddr := codec.Address{7}

	tx := alice.sign(t, l, &actions.Increment{Counter: counterAddr})
	require.NotEmpty(tx.Bytes())
	require.Equal(len(tx.Bytes()), tx.Size())
	require.Equal(alice.address(), tx.Auth.Actor())

	parsed, err := chain.ParseTx(tx.Bytes(), l.Registry())
	require.NoError(err)
	require.Equal(tx.ID(), parsed.ID())
	require.Equal(tx.Nonce, parsed.Nonce)
	require.Equal(tx.Action, parsed.Action)

	_, err = chain.ParseTx(append(tx.Bytes(), 0), l.Registry())
	require.ErrorIs(err, codec.ErrExtraBytes)
	_, err = chain.ParseTx(tx.Bytes()[:len(tx.Bytes())-1], l.Registry())
	require.Error(err)

	// Different nonces yield different IDs.
	other := alice.sign(t, l, &actions.Increment{Counter: counterAddr})
	require.NotEqual(tx.ID(), other.ID())
}

func TestTransactionStateKeys(t *testing.T) {
	require := require.New(t)
	l := newTestLedger(t)
	alice := newWallet(t)
	counterAddr := codec.Address{7}

	tx := alice.sign(t, l, &actions.Close{Counter: counterAddr})
	stateKeys, err := tx.StateKeys(l)
	require.NoError(err)
	require.Len(stateKeys, 3)
	require.Equal(state.Read|state.Write, stateKeys[string(storage.AccountKey(counterAddr))])
	require.Equal(state.All, stateKeys[string(storage.AccountKey(alice.address()))])
	require.Equal(state.All, stateKeys[string(storage.TxKey(tx.ID()))])

	_, err = chain.NewTx(1, &actions.Initialize{}).StateKeys(l)
	require.ErrorIs(err, chain.ErrMissingAuth)
}
