// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := map[string]struct {
		input       string
		expected    uint64
		expectedErr error
	}{
		"Whole": {
			input:    "2",
			expected: 2_000_000_000,
		},
		"Fraction": {
			input:    " 0.5 ",
			expected: 500_000_000,
		},
		"Empty": {
			input:       "",
			expectedErr: ErrInputEmpty,
		},
		"Zero": {
			input:       "0",
			expectedErr: ErrZeroAmount,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			amount, err := parseAmount(test.input)
			require.ErrorIs(err, test.expectedErr)
			require.Equal(test.expected, amount)
		})
	}

	_, err := parseAmount("abc")
	require.Error(t, err)
}

func TestParseChoice(t *testing.T) {
	require := require.New(t)

	index, err := parseChoice("2", 3)
	require.NoError(err)
	require.Equal(2, index)

	_, err = parseChoice("3", 3)
	require.ErrorIs(err, ErrIndexOutOfRange)
	_, err = parseChoice("-1", 3)
	require.ErrorIs(err, ErrIndexOutOfRange)
	_, err = parseChoice("", 3)
	require.ErrorIs(err, ErrInputEmpty)
	_, err = parseChoice("one", 3)
	require.Error(err)
}

func TestParseContinue(t *testing.T) {
	require := require.New(t)

	cont, err := parseContinue("Y")
	require.NoError(err)
	require.True(cont)
	cont, err = parseContinue("n")
	require.NoError(err)
	require.False(cont)
	_, err = parseContinue("maybe")
	require.ErrorIs(err, ErrInvalidChoice)
	_, err = parseContinue("")
	require.ErrorIs(err, ErrInputEmpty)
}

func TestCheckLength(t *testing.T) {
	require := require.New(t)

	require.NoError(checkLength("alice", 1, 32))
	require.ErrorIs(checkLength("", 1, 32), ErrInputEmpty)
	require.ErrorIs(checkLength("alice", 1, 3), ErrInputTooLarge)
}
