// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import "github.com/ava-labs/countervm/codec"

const (
	CreatedKind = "created"
	UpdatedKind = "updated"
	ClosedKind  = "closed"
)

var (
	_ Event = (*Created)(nil)
	_ Event = (*Updated)(nil)
	_ Event = (*Closed)(nil)
)

// Event is the observable result of a successful operation.
type Event interface {
	Kind() string
	// Record returns the address of the counter the event refers to.
	Record() codec.Address
}

type Created struct {
	Owner   codec.Address `json:"owner"`
	Counter codec.Address `json:"counter"`
	Count   uint64        `json:"count"`
}

func (*Created) Kind() string { return CreatedKind }

func (c *Created) Record() codec.Address { return c.Counter }

type Updated struct {
	Owner    codec.Address `json:"owner"`
	Counter  codec.Address `json:"counter"`
	Previous uint64        `json:"previous"`
	New      uint64        `json:"new"`
	Op       Op            `json:"op"`
}

func (*Updated) Kind() string { return UpdatedKind }

func (u *Updated) Record() codec.Address { return u.Counter }

type Closed struct {
	Owner   codec.Address `json:"owner"`
	Counter codec.Address `json:"counter"`
	Final   uint64        `json:"final"`
	// Refund is the deposit returned to the owner.
	Refund uint64 `json:"refund"`
}

func (*Closed) Kind() string { return ClosedKind }

func (c *Closed) Record() codec.Address { return c.Counter }
