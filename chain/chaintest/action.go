// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/tstate"
)

var _ chain.Rules = (*Rules)(nil)

type Rules struct {
	program *counter.Program
	rent    storage.Rent
}

func NewRules(program *counter.Program, rent storage.Rent) *Rules {
	return &Rules{program: program, rent: rent}
}

func (r *Rules) Program() *counter.Program { return r.program }

func (r *Rules) Rent() storage.Rent { return r.rent }

type ActionTest struct {
	Name string

	Action chain.Action

	Rules chain.Rules
	State state.Database
	Actor codec.Address

	ExpectedOutput counter.Event
	ExpectedErr    error

	// Assertion is run against [State] after the action's changes are
	// written.
	Assertion func(context.Context, *testing.T, state.Immutable)
}

// Run executes the action in a view scoped to its declared state keys, so
// undeclared accesses fail the test.
func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		scope, err := test.Action.StateKeys(test.Rules, test.Actor)
		require.NoError(err)
		values := make(map[string][]byte, len(scope))
		for k := range scope {
			v, err := test.State.Get([]byte(k))
			if errors.Is(err, database.ErrNotFound) {
				continue
			}
			require.NoError(err)
			values[k] = v
		}
		ts := tstate.New(len(scope))
		view := ts.NewView(scope, values)

		output, err := test.Action.Execute(ctx, test.Rules, view, test.Actor)
		require.ErrorIs(err, test.ExpectedErr)
		require.Equal(test.ExpectedOutput, output)
		if err != nil {
			view.Rollback(ctx, 0)
			require.Zero(view.PendingChanges())
		}

		view.Commit()
		batch := test.State.NewBatch()
		require.NoError(ts.WriteChanges(batch))
		require.NoError(batch.Write())

		if test.Assertion != nil {
			test.Assertion(ctx, t, state.NewSimpleMutable(test.State))
		}
	})
}

// ActionTestSuite runs tests in order against shared state.
type ActionTestSuite struct {
	Tests []ActionTest
}

func (suite *ActionTestSuite) Run(t *testing.T) {
	for _, test := range suite.Tests {
		test.Run(context.Background(), t)
	}
}
