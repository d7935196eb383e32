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

var _ chain.Action = (*Increment)(nil)

type Increment struct {
	// Counter is the address of the record to increment.
	Counter codec.Address `json:"counter"`
}

func (*Increment) GetTypeID() uint8 {
	return consts.IncrementID
}

func (i *Increment) StateKeys(chain.Rules, codec.Address) (state.Keys, error) {
	return state.Keys{
		string(storage.AccountKey(i.Counter)): state.Read | state.Write,
	}, nil
}

func (i *Increment) Marshal(p *codec.Packer) {
	p.PackAddress(i.Counter)
}

func UnmarshalIncrement(p *codec.Packer) (chain.Action, error) {
	var i Increment
	p.UnpackAddress(true, &i.Counter)
	return &i, p.Err()
}

func (i *Increment) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	actor codec.Address,
) (counter.Event, error) {
	updated, err := r.Program().Increment(ctx, storage.NewAccounts(mu, r.Rent()), actor, i.Counter)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
