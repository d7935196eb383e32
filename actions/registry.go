// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/countervm/chain"
)

// Register adds every counter action to [r].
func Register(r *chain.Registry) error {
	errs := wrappers.Errs{}
	errs.Add(
		r.RegisterAction(&Initialize{}, UnmarshalInitialize),
		r.RegisterAction(&Increment{}, UnmarshalIncrement),
		r.RegisterAction(&Decrement{}, UnmarshalDecrement),
		r.RegisterAction(&Close{}, UnmarshalClose),
	)
	return errs.Err
}
