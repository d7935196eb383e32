// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/counter"
)

// Result is delivered to subscribers after a transaction commits.
type Result struct {
	TxID  ids.ID        `json:"txId"`
	Actor codec.Address `json:"actor"`
	Event counter.Event `json:"event"`
}

type resultJSON struct {
	TxID  ids.ID          `json:"txId"`
	Actor codec.Address   `json:"actor"`
	Kind  string          `json:"kind"`
	Event json.RawMessage `json:"event"`
}

func (r *Result) MarshalJSON() ([]byte, error) {
	event, err := json.Marshal(r.Event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&resultJSON{
		TxID:  r.TxID,
		Actor: r.Actor,
		Kind:  r.Event.Kind(),
		Event: event,
	})
}

func (r *Result) UnmarshalJSON(b []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var event counter.Event
	switch raw.Kind {
	case counter.CreatedKind:
		event = &counter.Created{}
	case counter.UpdatedKind:
		event = &counter.Updated{}
	case counter.ClosedKind:
		event = &counter.Closed{}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, raw.Kind)
	}
	if err := json.Unmarshal(raw.Event, event); err != nil {
		return err
	}
	r.TxID = raw.TxID
	r.Actor = raw.Actor
	r.Event = event
	return nil
}
