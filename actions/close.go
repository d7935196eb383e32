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

var _ chain.Action = (*Close)(nil)

// Close destroys a counter and refunds its deposit to the actor.
type Close struct {
	Counter codec.Address `json:"counter"`
}

func (*Close) GetTypeID() uint8 {
	return consts.CloseID
}

func (c *Close) StateKeys(_ chain.Rules, actor codec.Address) (state.Keys, error) {
	return state.Keys{
		string(storage.AccountKey(c.Counter)): state.Read | state.Write,
		// The actor's wallet may not exist yet if it was drained.
		string(storage.AccountKey(actor)): state.All,
	}, nil
}

func (c *Close) Marshal(p *codec.Packer) {
	p.PackAddress(c.Counter)
}

func UnmarshalClose(p *codec.Packer) (chain.Action, error) {
	var c Close
	p.UnpackAddress(true, &c.Counter)
	return &c, p.Err()
}

func (c *Close) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	actor codec.Address,
) (counter.Event, error) {
	closed, err := r.Program().Destroy(ctx, storage.NewAccounts(mu, r.Rent()), actor, c.Counter)
	if err != nil {
		return nil, err
	}
	return closed, nil
}
