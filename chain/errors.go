// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	ErrDuplicateTx     = errors.New("duplicate transaction")
	ErrUnknownAction   = errors.New("unknown action")
	ErrUnknownAuth     = errors.New("unknown auth")
	ErrMissingAuth     = errors.New("transaction is not signed")
	ErrInvalidKeyValue = errors.New("invalid key or value")
	ErrUnknownEvent    = errors.New("unknown event kind")
	ErrLedgerClosed    = errors.New("ledger closed")
)
