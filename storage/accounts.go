// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/state"
)

var _ counter.Accounts = (*Accounts)(nil)

// Accounts allocates and reclaims program accounts in [state.Mutable].
type Accounts struct {
	mu   state.Mutable
	rent Rent
}

func NewAccounts(mu state.Mutable, rent Rent) *Accounts {
	return &Accounts{mu: mu, rent: rent}
}

func (a *Accounts) Allocate(
	ctx context.Context,
	payer codec.Address,
	addr codec.Address,
	space uint64,
	owner codec.Address,
) error {
	if space > MaxAccountDataSize {
		return fmt.Errorf("%w: %d bytes", ErrAccountDataTooLarge, space)
	}
	existing, _, err := GetAccount(ctx, a.mu, addr)
	if err != nil {
		return err
	}
	// A wallet holding only lamports is taken over. Anything with data or
	// an owner is in use.
	if len(existing.Data) > 0 || existing.Owner != codec.EmptyAddress {
		return fmt.Errorf("%w: %s", ErrAccountInUse, addr)
	}
	deposit, err := a.rent.MinimumBalance(space)
	if err != nil {
		return err
	}
	lamports := existing.Lamports
	if lamports < deposit {
		if _, err := SubBalance(ctx, a.mu, payer, deposit-lamports); err != nil {
			return err
		}
		lamports = deposit
	}
	return PutAccount(ctx, a.mu, addr, &Account{
		Lamports: lamports,
		Owner:    owner,
		Data:     make([]byte, space),
	})
}

func (a *Accounts) Load(ctx context.Context, addr codec.Address) (codec.Address, []byte, error) {
	acct, exists, err := GetAccount(ctx, a.mu, addr)
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	if !exists {
		return codec.EmptyAddress, nil, database.ErrNotFound
	}
	return acct.Owner, acct.Data, nil
}

// Store replaces the data of an allocated account. The data may not grow
// beyond the allocated space.
func (a *Accounts) Store(ctx context.Context, addr codec.Address, data []byte) error {
	acct, exists, err := GetAccount(ctx, a.mu, addr)
	if err != nil {
		return err
	}
	if !exists {
		return database.ErrNotFound
	}
	if len(data) > len(acct.Data) {
		return fmt.Errorf("%w: %d bytes exceeds allocated %d", ErrAccountDataTooLarge, len(data), len(acct.Data))
	}
	acct.Data = data
	return PutAccount(ctx, a.mu, addr, acct)
}

func (a *Accounts) Close(ctx context.Context, addr codec.Address, recipient codec.Address) (uint64, error) {
	acct, exists, err := GetAccount(ctx, a.mu, addr)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, database.ErrNotFound
	}
	if err := DeleteAccount(ctx, a.mu, addr); err != nil {
		return 0, err
	}
	if _, err := AddBalance(ctx, a.mu, recipient, acct.Lamports); err != nil {
		return 0, err
	}
	return acct.Lamports, nil
}
