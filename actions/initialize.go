// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
)

var _ chain.Action = (*Initialize)(nil)

// Initialize creates the actor's counter, paying its deposit from the
// actor's balance.
type Initialize struct{}

func (*Initialize) GetTypeID() uint8 {
	return consts.InitializeID
}

func (*Initialize) StateKeys(r chain.Rules, actor codec.Address) (state.Keys, error) {
	addr, _, err := r.Program().Address(actor)
	if err != nil {
		return nil, err
	}
	return state.Keys{
		string(storage.AccountKey(actor)): state.Read | state.Write,
		string(storage.AccountKey(addr)):  state.All,
	}, nil
}

func (*Initialize) Marshal(*codec.Packer) {}

func UnmarshalInitialize(*codec.Packer) (chain.Action, error) {
	return &Initialize{}, nil
}

func (*Initialize) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	actor codec.Address,
) (counter.Event, error) {
	created, err := r.Program().Create(ctx, storage.NewAccounts(mu, r.Rent()), actor)
	if err != nil {
		return nil, err
	}
	return created, nil
}
