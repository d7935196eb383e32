// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeChunks(t *testing.T) {
	require := require.New(t)

	key := []byte("counter")
	k := EncodeChunks(key, 3)
	require.Equal([]byte("counter"), key, "input must not be modified")
	require.True(Valid(k))

	chunks, ok := MaxChunks(k)
	require.True(ok)
	require.Equal(uint16(3), chunks)
}

func TestEncode(t *testing.T) {
	tests := map[string]struct {
		size   int
		chunks uint16
	}{
		"Empty":     {size: 0, chunks: 0},
		"OneByte":   {size: 1, chunks: 1},
		"OneChunk":  {size: 63, chunks: 1},
		"Boundary":  {size: 64, chunks: 2},
		"TwoChunks": {size: 100, chunks: 2},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			k, ok := Encode([]byte{0}, test.size)
			require.True(ok)
			chunks, ok := MaxChunks(k)
			require.True(ok)
			require.Equal(test.chunks, chunks)
		})
	}
}

func TestVerifyValue(t *testing.T) {
	require := require.New(t)

	k := EncodeChunks([]byte("key"), 1)
	require.True(VerifyValue(k, bytes.Repeat([]byte{1}, 63)))
	require.False(VerifyValue(k, bytes.Repeat([]byte{1}, 64)))
	require.False(VerifyValue([]byte{1}, nil))
}

func TestVerify(t *testing.T) {
	require := require.New(t)

	k := EncodeChunks([]byte("key"), 4)
	require.True(Verify(16, 4, k))
	require.False(Verify(16, 3, k))
	require.False(Verify(2, 4, k))
}
