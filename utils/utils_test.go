// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToID(t *testing.T) {
	require := require.New(t)

	require.Equal(ToID([]byte("a")), ToID([]byte("a")))
	require.NotEqual(ToID([]byte("a")), ToID([]byte("b")))
}

func TestInitSubDirectory(t *testing.T) {
	require := require.New(t)
	root := t.TempDir()

	p, err := InitSubDirectory(root, "statedb")
	require.NoError(err)
	require.Equal(filepath.Join(root, "statedb"), p)
	info, err := os.Stat(p)
	require.NoError(err)
	require.True(info.IsDir())

	// Existing directories are reused.
	_, err = InitSubDirectory(root, "statedb")
	require.NoError(err)
}

func TestFormatBalance(t *testing.T) {
	require := require.New(t)

	require.Equal("1.500000000", FormatBalance(1_500_000_000))
	require.Equal("0.000000001", FormatBalance(1))
	require.Equal("18446744073.709551615", FormatBalance(math.MaxUint64))
}

func TestParseBalance(t *testing.T) {
	tests := map[string]struct {
		input       string
		expected    uint64
		expectedErr error
	}{
		"Fraction": {
			input:    "0.00123192",
			expected: 1_231_920,
		},
		"Whole": {
			input:    "12",
			expected: 12_000_000_000,
		},
		"LeadingDot": {
			input:    ".5",
			expected: 500_000_000,
		},
		"Lamport": {
			input:    "0.000000001",
			expected: 1,
		},
		"Max": {
			input:    "18446744073.709551615",
			expected: math.MaxUint64,
		},
		"TooPrecise": {
			input:       "0.0000000001",
			expectedErr: ErrInvalidBalance,
		},
		"Overflow": {
			input:       "18446744073.709551616",
			expectedErr: ErrInvalidBalance,
		},
		"Negative": {
			input:       "-1",
			expectedErr: ErrInvalidBalance,
		},
		"Empty": {
			input:       ".",
			expectedErr: ErrInvalidBalance,
		},
		"NotANumber": {
			input:       "lots",
			expectedErr: ErrInvalidBalance,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			bal, err := ParseBalance(test.input)
			require.ErrorIs(err, test.expectedErr)
			require.Equal(test.expected, bal)
		})
	}
}
