// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/state"
)

// Account is a ledger account. Wallets have no data and are owned by
// [codec.EmptyAddress]. Program accounts hold data and are owned by the
// program that allocated them.
type Account struct {
	Lamports uint64
	Owner    codec.Address
	Data     []byte
}

func (a *Account) Size() int {
	return consts.Uint64Len + codec.AddressLen + consts.Uint32Len + len(a.Data)
}

func (a *Account) Marshal() ([]byte, error) {
	if len(a.Data) > MaxAccountDataSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrAccountDataTooLarge, len(a.Data))
	}
	p := codec.NewWriter(a.Size(), maxAccountSize)
	p.PackUint64(a.Lamports)
	p.PackAddress(a.Owner)
	p.PackBytes(a.Data)
	return p.Bytes(), p.Err()
}

func UnmarshalAccount(b []byte) (*Account, error) {
	var a Account
	p := codec.NewReader(b, maxAccountSize)
	a.Lamports = p.UnpackUint64(false)
	p.UnpackAddress(false, &a.Owner)
	p.UnpackBytes(MaxAccountDataSize, false, &a.Data)
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccount, err)
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccount, codec.ErrExtraBytes)
	}
	return &a, nil
}

// GetAccount returns the account at [addr] and whether it exists.
func GetAccount(ctx context.Context, im state.Immutable, addr codec.Address) (*Account, bool, error) {
	return innerGetAccount(im.GetValue(ctx, AccountKey(addr)))
}

func innerGetAccount(v []byte, err error) (*Account, bool, error) {
	if errors.Is(err, database.ErrNotFound) {
		return &Account{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	a, err := UnmarshalAccount(v)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

// PutAccount stores [a] at [addr]. An empty wallet is removed instead.
func PutAccount(ctx context.Context, mu state.Mutable, addr codec.Address, a *Account) error {
	if a.Lamports == 0 && len(a.Data) == 0 && a.Owner == codec.EmptyAddress {
		return mu.Remove(ctx, AccountKey(addr))
	}
	v, err := a.Marshal()
	if err != nil {
		return err
	}
	return mu.Insert(ctx, AccountKey(addr), v)
}

func DeleteAccount(ctx context.Context, mu state.Mutable, addr codec.Address) error {
	return mu.Remove(ctx, AccountKey(addr))
}
