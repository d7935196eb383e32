// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrInvalidBalance      = errors.New("invalid balance")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrAccountInUse        = errors.New("account already in use")
	ErrAccountDataTooLarge = errors.New("account data too large")
	ErrInvalidAccount      = errors.New("invalid account")
)
