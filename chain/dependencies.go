// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
)

// Rules are the parameters every action executes under.
type Rules interface {
	Program() *counter.Program
	Rent() storage.Rent
}

type Action interface {
	codec.Typed

	// StateKeys is a full enumeration of all database keys that could be
	// touched during execution of an [Action]. Execution fails if a key
	// outside of this set is accessed.
	StateKeys(r Rules, actor codec.Address) (state.Keys, error)

	Marshal(p *codec.Packer)

	// Execute runs the action on behalf of [actor]. If it returns an error,
	// every change made to [mu] is discarded.
	Execute(ctx context.Context, r Rules, mu state.Mutable, actor codec.Address) (counter.Event, error)
}

type Auth interface {
	codec.Typed

	// Verify checks that the signature is valid for [msg].
	Verify(ctx context.Context, msg []byte) error

	// Actor is the identity the action is executed as.
	Actor() codec.Address

	Size() int
	Marshal(p *codec.Packer)
}

type AuthFactory interface {
	Sign(msg []byte) (Auth, error)
	Address() codec.Address
}
