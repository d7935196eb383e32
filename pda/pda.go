// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pda derives program-owned account addresses. A derived address is
// a hash of caller supplied seeds and the owning program, and is guaranteed
// to not be a valid ed25519 public key, so no private key can sign for it.
package pda

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math"

	"filippo.io/edwards25519"

	"github.com/ava-labs/countervm/codec"
)

const (
	MaxSeeds   = 16
	MaxSeedLen = 32

	marker = "ProgramDerivedAddress"
)

var (
	ErrInvalidSeeds = errors.New("invalid seeds")
	ErrOnCurve      = errors.New("derived address is on curve")
	ErrNoViableBump = errors.New("unable to find a viable bump seed")
)

// OnCurve reports whether [b] decodes to a point on the ed25519 curve.
func OnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateAddress hashes [seeds] with [programID]. It fails if the result
// lies on the curve.
func CreateAddress(seeds [][]byte, programID codec.Address) (codec.Address, error) {
	if len(seeds) > MaxSeeds {
		return codec.EmptyAddress, fmt.Errorf("%w: %d seeds exceeds %d", ErrInvalidSeeds, len(seeds), MaxSeeds)
	}
	h := sha256.New()
	for i, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return codec.EmptyAddress, fmt.Errorf("%w: seed %d has length %d", ErrInvalidSeeds, i, len(seed))
		}
		_, _ = h.Write(seed)
	}
	_, _ = h.Write(programID[:])
	_, _ = h.Write([]byte(marker))
	digest := h.Sum(nil)
	if OnCurve(digest) {
		return codec.EmptyAddress, fmt.Errorf("%w: %w", ErrInvalidSeeds, ErrOnCurve)
	}
	return codec.Address(digest), nil
}

// FindAddress searches for the largest bump seed that, appended to [seeds],
// yields an off-curve address.
func FindAddress(seeds [][]byte, programID codec.Address) (codec.Address, uint8, error) {
	// The bump occupies one of the seed slots.
	if len(seeds) >= MaxSeeds {
		return codec.EmptyAddress, 0, fmt.Errorf("%w: %d seeds leaves no room for a bump", ErrInvalidSeeds, len(seeds))
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := math.MaxUint8; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := CreateAddress(withBump, programID)
		switch {
		case err == nil:
			return addr, uint8(bump), nil
		case errors.Is(err, ErrOnCurve):
			continue
		default:
			return codec.EmptyAddress, 0, err
		}
	}
	return codec.EmptyAddress, 0, ErrNoViableBump
}

// Deriver derives addresses owned by a single program.
type Deriver struct {
	programID codec.Address
}

func NewDeriver(programID codec.Address) *Deriver {
	return &Deriver{programID: programID}
}

func (d *Deriver) ProgramID() codec.Address {
	return d.programID
}

func (d *Deriver) CreateAddress(seeds [][]byte) (codec.Address, error) {
	return CreateAddress(seeds, d.programID)
}

func (d *Deriver) FindAddress(seeds [][]byte) (codec.Address, uint8, error) {
	return FindAddress(seeds, d.programID)
}
