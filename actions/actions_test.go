// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/chain/chaintest"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/pda"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
)

var (
	programID = codec.Address{0xc0}
	alice     = codec.Address{0xa1}
	bob       = codec.Address{0xb0}
)

func TestCounterLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	db := memdb.New()
	rent := storage.DefaultRent()
	rules := chaintest.NewRules(counter.New(pda.NewDeriver(programID)), rent)
	deposit, err := rent.MinimumBalance(counter.RecordSpace)
	require.NoError(err)

	mu := state.NewSimpleMutable(db)
	_, err = storage.AddBalance(ctx, mu, alice, deposit+10)
	require.NoError(err)
	require.NoError(mu.Commit(ctx))

	addr, _, err := rules.Program().Address(alice)
	require.NoError(err)

	suite := chaintest.ActionTestSuite{
		Tests: []ActionTest{
			{
				Name:        "IncrementMissing",
				Action:      &Increment{Counter: addr},
				Rules:       rules,
				State:       db,
				Actor:       alice,
				ExpectedErr: counter.ErrRecordNotFound,
			},
			{
				Name:   "InitializeWithoutFunds",
				Action: &Initialize{},
				Rules:  rules,
				State:  db,
				Actor:  bob,

				ExpectedErr: storage.ErrInsufficientFunds,
			},
			{
				Name:   "Initialize",
				Action: &Initialize{},
				Rules:  rules,
				State:  db,
				Actor:  alice,

				ExpectedOutput: &counter.Created{Owner: alice, Counter: addr, Count: 0},
				Assertion:      balanceIs(alice, 10),
			},
			{
				Name:   "InitializeTwice",
				Action: &Initialize{},
				Rules:  rules,
				State:  db,
				Actor:  alice,

				ExpectedErr: storage.ErrAccountInUse,
			},
			{
				Name:   "Increment",
				Action: &Increment{Counter: addr},
				Rules:  rules,
				State:  db,
				Actor:  alice,

				ExpectedOutput: &counter.Updated{Owner: alice, Counter: addr, Previous: 0, New: 1, Op: counter.OpIncrement},
			},
			{
				Name:   "IncrementUnauthorized",
				Action: &Increment{Counter: addr},
				Rules:  rules,
				State:  db,
				Actor:  bob,

				ExpectedErr: counter.ErrUnauthorized,
			},
			{
				Name:   "Decrement",
				Action: &Decrement{Counter: addr},
				Rules:  rules,
				State:  db,
				Actor:  alice,

				ExpectedOutput: &counter.Updated{Owner: alice, Counter: addr, Previous: 1, New: 0, Op: counter.OpDecrement},
			},
			{
				Name:   "DecrementUnderflow",
				Action: &Decrement{Counter: addr},
				Rules:  rules,
				State:  db,
				Actor:  alice,

				ExpectedErr: counter.ErrUnderflow,
			},
			{
				Name:   "CloseUnauthorized",
				Action: &Close{Counter: addr},
				Rules:  rules,
				State:  db,
				Actor:  bob,

				ExpectedErr: counter.ErrUnauthorized,
			},
			{
				Name:   "Close",
				Action: &Close{Counter: addr},
				Rules:  rules,
				State:  db,
				Actor:  alice,

				ExpectedOutput: &counter.Closed{Owner: alice, Counter: addr, Final: 0, Refund: deposit},
				Assertion:      balanceIs(alice, deposit+10),
			},
			{
				Name:   "Reinitialize",
				Action: &Initialize{},
				Rules:  rules,
				State:  db,
				Actor:  alice,

				ExpectedOutput: &counter.Created{Owner: alice, Counter: addr, Count: 0},
			},
		},
	}
	suite.Run(t)
}

type ActionTest = chaintest.ActionTest

func balanceIs(owner codec.Address, expected uint64) func(context.Context, *testing.T, state.Immutable) {
	return func(ctx context.Context, t *testing.T, im state.Immutable) {
		bal, err := storage.GetBalance(ctx, im, owner)
		require.NoError(t, err)
		require.Equal(t, expected, bal)
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	r := chain.NewRegistry()
	require.NoError(t, Register(r))
	require.ErrorIs(t, Register(r), codec.ErrDuplicateItem)

	addr := codec.Address{1, 2, 3}
	tests := map[string]struct {
		action chain.Action
		typeID uint8
	}{
		"Initialize": {&Initialize{}, consts.InitializeID},
		"Increment":  {&Increment{Counter: addr}, consts.IncrementID},
		"Decrement":  {&Decrement{Counter: addr}, consts.DecrementID},
		"Close":      {&Close{Counter: addr}, consts.CloseID},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			require.Equal(test.typeID, test.action.GetTypeID())

			p := codec.NewWriter(0, consts.NetworkSizeLimit)
			p.PackByte(test.action.GetTypeID())
			test.action.Marshal(p)
			require.NoError(p.Err())

			parsed, err := r.UnmarshalAction(codec.NewReader(p.Bytes(), consts.NetworkSizeLimit))
			require.NoError(err)
			require.Equal(test.action, parsed)
		})
	}

	_, err := r.UnmarshalAction(codec.NewReader([]byte{0xff}, 1))
	require.ErrorIs(t, err, chain.ErrUnknownAction)

	// Counter addresses are required.
	_, err = r.UnmarshalAction(codec.NewReader(append([]byte{consts.IncrementID}, make([]byte, codec.AddressLen)...), consts.NetworkSizeLimit))
	require.ErrorIs(t, err, codec.ErrFieldNotPopulated)
}
