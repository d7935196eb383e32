// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/keys"
)

// State
// 0x0/ (accounts)
//   -> [address] => lamports|owner|data
// 0x1/ (transactions)
//   -> [txID] => accepted marker
// 0x2/ (genesis)
//   -> genesis hash

const (
	accountPrefix byte = 0x0
	txPrefix      byte = 0x1
	genesisPrefix byte = 0x2

	// MaxAccountDataSize bounds the data any single account may hold.
	MaxAccountDataSize = 10 * 1024

	maxAccountSize = consts.Uint64Len + codec.AddressLen + consts.Uint32Len + MaxAccountDataSize

	TxChunks      uint16 = 1
	GenesisChunks uint16 = 1
)

var accountChunks = func() uint16 {
	chunks, ok := keys.NumChunks(make([]byte, maxAccountSize))
	if !ok {
		panic("account size exceeds chunk limit")
	}
	return chunks
}()

// [accountPrefix] + [address] + [chunks]
func AccountKey(addr codec.Address) []byte {
	k := make([]byte, 0, consts.ByteLen+codec.AddressLen)
	k = append(k, accountPrefix)
	k = append(k, addr[:]...)
	return keys.EncodeChunks(k, accountChunks)
}

// [txPrefix] + [txID] + [chunks]
func TxKey(id ids.ID) []byte {
	k := make([]byte, 0, consts.ByteLen+ids.IDLen)
	k = append(k, txPrefix)
	k = append(k, id[:]...)
	return keys.EncodeChunks(k, TxChunks)
}

// [genesisPrefix] + [chunks]
func GenesisKey() []byte {
	return keys.EncodeChunks([]byte{genesisPrefix}, GenesisChunks)
}
