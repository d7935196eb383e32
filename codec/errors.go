// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "errors"

var (
	ErrFieldNotPopulated = errors.New("field is not populated")
	ErrInvalidSize       = errors.New("invalid size")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrExtraBytes        = errors.New("extra bytes")
	ErrDuplicateItem     = errors.New("duplicate item")
)
