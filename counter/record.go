// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/near/borsh-go"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

const (
	DiscriminatorLen = 8

	// RecordSpace is the size of the account data holding a [Record].
	RecordSpace = DiscriminatorLen + consts.Uint64Len + consts.ByteLen + codec.AddressLen
)

// Discriminator prefixes every encoded record so foreign account data is
// never mistaken for a counter.
var Discriminator = func() [DiscriminatorLen]byte {
	h := sha256.Sum256([]byte("account:Counter"))
	var d [DiscriminatorLen]byte
	copy(d[:], h[:DiscriminatorLen])
	return d
}()

// Record is the state of a single counter.
type Record struct {
	Count uint64
	// Bump is the seed that derived this record's address. It is required to
	// re-derive the address on every access.
	Bump      uint8
	Authority codec.Address
}

// Marshal returns the account data encoding of [r].
func (r *Record) Marshal() ([]byte, error) {
	body, err := borsh.Serialize(*r)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, RecordSpace)
	data = append(data, Discriminator[:]...)
	return append(data, body...), nil
}

// UnmarshalRecord decodes account data produced by [Record.Marshal].
func UnmarshalRecord(data []byte) (*Record, error) {
	if len(data) < DiscriminatorLen {
		return nil, fmt.Errorf("%w: data has %d bytes", ErrAccountDiscriminatorMismatch, len(data))
	}
	if !bytes.Equal(data[:DiscriminatorLen], Discriminator[:]) {
		return nil, ErrAccountDiscriminatorMismatch
	}
	if len(data) != RecordSpace {
		return nil, fmt.Errorf("%w: expected %d bytes but got %d", ErrAccountDidNotDeserialize, RecordSpace, len(data))
	}
	var r Record
	if err := borsh.Deserialize(&r, data[DiscriminatorLen:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAccountDidNotDeserialize, err)
	}
	return &r, nil
}
