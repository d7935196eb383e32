// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec"
)

func TestOpText(t *testing.T) {
	require := require.New(t)

	for _, op := range []Op{OpIncrement, OpDecrement} {
		text, err := op.MarshalText()
		require.NoError(err)
		parsed, err := ParseOp(string(text))
		require.NoError(err)
		require.Equal(op, parsed)
	}

	_, err := ParseOp("reset")
	require.ErrorIs(err, ErrInvalidOp)
	_, err = Op(7).MarshalText()
	require.ErrorIs(err, ErrInvalidOp)
}

func TestUpdatedJSON(t *testing.T) {
	require := require.New(t)
	u := &Updated{
		Owner:    codec.EmptyAddress,
		Counter:  codec.EmptyAddress,
		Previous: 0,
		New:      1,
		Op:       OpIncrement,
	}
	b, err := json.Marshal(u)
	require.NoError(err)
	require.JSONEq(`{
		"owner": "11111111111111111111111111111111",
		"counter": "11111111111111111111111111111111",
		"previous": 0,
		"new": 1,
		"op": "increment"
	}`, string(b))

	var parsed Updated
	require.NoError(json.Unmarshal(b, &parsed))
	require.Equal(u, &parsed)
}
