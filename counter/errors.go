// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrOverflow     = errors.New("counter overflow")
	ErrUnderflow    = errors.New("counter underflow")

	ErrRecordNotFound               = errors.New("counter record not found")
	ErrSeedsMismatch                = errors.New("address does not match seeds")
	ErrInvalidAccountOwner          = errors.New("account not owned by program")
	ErrAccountDiscriminatorMismatch = errors.New("account discriminator mismatch")
	ErrAccountDidNotDeserialize     = errors.New("account did not deserialize")
	ErrInvalidOp                    = errors.New("invalid op")
)
