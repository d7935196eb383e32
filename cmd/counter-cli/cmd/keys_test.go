// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec"
)

func TestKeyStore(t *testing.T) {
	require := require.New(t)
	ks, err := newKeyStore(t.TempDir())
	require.NoError(err)

	_, err = ks.Default()
	require.ErrorIs(err, ErrNoDefaultKey)

	bob, err := ks.Create("bob")
	require.NoError(err)
	_, err = ks.Create("alice")
	require.NoError(err)
	_, err = ks.Create("bob")
	require.ErrorIs(err, ErrDuplicateKeyName)

	// The first key becomes the default.
	name, err := ks.Default()
	require.NoError(err)
	require.Equal("bob", name)
	require.NoError(ks.SetDefault("alice"))
	name, err = ks.Default()
	require.NoError(err)
	require.Equal("alice", name)
	require.ErrorIs(ks.SetDefault("carol"), ErrNamedKeyNotFound)

	names, err := ks.List()
	require.NoError(err)
	require.Equal([]string{"alice", "bob"}, names)

	loaded, err := ks.Get("bob")
	require.NoError(err)
	require.Equal(bob, loaded)
	_, err = ks.Get("carol")
	require.ErrorIs(err, ErrNamedKeyNotFound)
}

func TestKeyStoreResolve(t *testing.T) {
	require := require.New(t)
	ks, err := newKeyStore(t.TempDir())
	require.NoError(err)

	priv, err := ks.Create("alice")
	require.NoError(err)
	addr := priv.PublicKey().Address()

	resolved, err := ks.Resolve("alice")
	require.NoError(err)
	require.Equal(addr, resolved)

	resolved, err = ks.Resolve(addr.String())
	require.NoError(err)
	require.Equal(addr, resolved)

	_, err = ks.Resolve("carol")
	require.ErrorIs(err, ErrNamedKeyNotFound)
	require.NotEqual(codec.EmptyAddress, addr)
}

func TestKeyNames(t *testing.T) {
	tests := map[string]error{
		"alice":                 nil,
		"key_1-a":               nil,
		"":                      ErrInvalidKeyName,
		"../escape":             ErrInvalidKeyName,
		"with space":            ErrInvalidKeyName,
		strings.Repeat("a", 33): ErrInvalidKeyName,
		strings.Repeat("a", 32): nil,
	}
	for name, expectedErr := range tests {
		require.ErrorIs(t, checkKeyName(name), expectedErr, name)
	}
}
