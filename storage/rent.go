// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// AccountStorageOverhead is charged on top of the data of every account.
const AccountStorageOverhead = 128

// Rent determines the deposit an account must hold to be exempt from rent.
type Rent struct {
	LamportsPerByteYear uint64 `json:"lamportsPerByteYear"`
	ExemptionYears      uint64 `json:"exemptionYears"`
}

func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3_480,
		ExemptionYears:      2,
	}
}

// MinimumBalance returns the deposit required for an account holding
// [space] bytes of data.
func (r Rent) MinimumBalance(space uint64) (uint64, error) {
	size, err := smath.Add64(space, AccountStorageOverhead)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrAccountDataTooLarge, err)
	}
	perYear, err := smath.Mul64(size, r.LamportsPerByteYear)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidBalance, err)
	}
	deposit, err := smath.Mul64(perYear, r.ExemptionYears)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidBalance, err)
	}
	return deposit, nil
}
