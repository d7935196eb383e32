// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// GetBalance returns the lamports held by [addr]. Missing accounts hold
// nothing.
func GetBalance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	a, _, err := GetAccount(ctx, im, addr)
	if err != nil {
		return 0, err
	}
	return a.Lamports, nil
}

func AddBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) (uint64, error) {
	a, _, err := GetAccount(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Add64(a.Lamports, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not add balance (bal=%d, addr=%s, amount=%d)",
			ErrInvalidBalance,
			a.Lamports,
			addr,
			amount,
		)
	}
	a.Lamports = nbal
	return nbal, PutAccount(ctx, mu, addr, a)
}

func SubBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) (uint64, error) {
	a, _, err := GetAccount(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Sub(a.Lamports, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not subtract balance (bal=%d, addr=%s, amount=%d)",
			ErrInsufficientFunds,
			a.Lamports,
			addr,
			amount,
		)
	}
	a.Lamports = nbal
	return nbal, PutAccount(ctx, mu, addr, a)
}
