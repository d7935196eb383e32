// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pda

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/crypto/ed25519"
)

var testProgram = codec.Address{1, 2, 3, 4}

func TestFindAddressDeterministic(t *testing.T) {
	require := require.New(t)
	seeds := [][]byte{[]byte("counter"), bytes.Repeat([]byte{7}, 32)}

	addr, bump, err := FindAddress(seeds, testProgram)
	require.NoError(err)
	require.False(OnCurve(addr[:]))

	addr2, bump2, err := FindAddress(seeds, testProgram)
	require.NoError(err)
	require.Equal(addr, addr2)
	require.Equal(bump, bump2)

	// The bump re-derives the same address.
	derived, err := CreateAddress(append(seeds, []byte{bump}), testProgram)
	require.NoError(err)
	require.Equal(addr, derived)
}

func TestFindAddressDistinct(t *testing.T) {
	require := require.New(t)

	a, _, err := FindAddress([][]byte{[]byte("counter"), {1}}, testProgram)
	require.NoError(err)
	b, _, err := FindAddress([][]byte{[]byte("counter"), {2}}, testProgram)
	require.NoError(err)
	require.NotEqual(a, b)

	c, _, err := FindAddress([][]byte{[]byte("counter"), {1}}, codec.Address{9})
	require.NoError(err)
	require.NotEqual(a, c)
}

func TestFindAddressIsHighestBump(t *testing.T) {
	require := require.New(t)
	seeds := [][]byte{[]byte("counter"), []byte("owner")}

	_, bump, err := FindAddress(seeds, testProgram)
	require.NoError(err)
	for higher := int(bump) + 1; higher <= 255; higher++ {
		_, err := CreateAddress(append(seeds, []byte{byte(higher)}), testProgram)
		require.ErrorIs(err, ErrOnCurve)
	}
}

func TestInvalidSeeds(t *testing.T) {
	tests := map[string][][]byte{
		"SeedTooLong":  {bytes.Repeat([]byte{1}, MaxSeedLen+1)},
		"TooManySeeds": make([][]byte, MaxSeeds+1),
	}
	for name, seeds := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := CreateAddress(seeds, testProgram)
			require.ErrorIs(t, err, ErrInvalidSeeds)
		})
	}

	_, _, err := FindAddress(make([][]byte, MaxSeeds), testProgram)
	require.ErrorIs(t, err, ErrInvalidSeeds)
}

func TestOnCurve(t *testing.T) {
	require := require.New(t)
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	pub := priv.PublicKey()
	require.True(OnCurve(pub[:]))
}

func TestDeriver(t *testing.T) {
	require := require.New(t)
	d := NewDeriver(testProgram)
	require.Equal(testProgram, d.ProgramID())

	seeds := [][]byte{[]byte("counter")}
	addr, bump, err := d.FindAddress(seeds)
	require.NoError(err)
	derived, err := d.CreateAddress([][]byte{[]byte("counter"), {bump}})
	require.NoError(err)
	require.Equal(addr, derived)
}
