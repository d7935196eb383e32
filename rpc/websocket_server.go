// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"encoding/json"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/event"
	"github.com/ava-labs/countervm/pubsub"
)

var _ event.Subscription[*chain.Result] = (*ResultStream)(nil)

// ResultStream publishes every committed result to websocket listeners as
// JSON.
type ResultStream struct {
	s *pubsub.Server
}

func NewResultStream(s *pubsub.Server) *ResultStream {
	return &ResultStream{s: s}
}

func (r *ResultStream) Accept(_ context.Context, result *chain.Result) error {
	msg, err := json.Marshal(result)
	if err != nil {
		return err
	}
	r.s.Publish(msg)
	return nil
}

func (r *ResultStream) Close() error {
	r.s.Close()
	return nil
}
