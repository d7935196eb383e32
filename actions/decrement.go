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

var _ chain.Action = (*Decrement)(nil)

type Decrement struct {
	// Counter is the address of the record to decrement.
	Counter codec.Address `json:"counter"`
}

func (*Decrement) GetTypeID() uint8 {
	return consts.DecrementID
}

func (d *Decrement) StateKeys(chain.Rules, codec.Address) (state.Keys, error) {
	return state.Keys{
		string(storage.AccountKey(d.Counter)): state.Read | state.Write,
	}, nil
}

func (d *Decrement) Marshal(p *codec.Packer) {
	p.PackAddress(d.Counter)
}

func UnmarshalDecrement(p *codec.Packer) (chain.Action, error) {
	var d Decrement
	p.UnpackAddress(true, &d.Counter)
	return &d, p.Err()
}

func (d *Decrement) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	actor codec.Address,
) (counter.Event, error) {
	updated, err := r.Program().Decrement(ctx, storage.NewAccounts(mu, r.Rent()), actor, d.Counter)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
