// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	// Name is used as the JSON-RPC service name and the default data folder.
	Name = "countervm"

	// Version is reported by ping and attached to exported spans.
	Version = "v0.0.1"

	// CounterSeed is the namespace tag every counter address is derived from.
	CounterSeed = "counter"
)

// Action type IDs. They are part of the transaction wire format and must
// never be reordered.
const (
	InitializeID uint8 = 0
	IncrementID  uint8 = 1
	DecrementID  uint8 = 2
	CloseID      uint8 = 3
)

// Auth type IDs.
const (
	ED25519ID uint8 = 0
)
