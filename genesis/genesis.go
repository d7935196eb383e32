// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

// DefaultProgramID is the identity of the counter program unless the
// genesis overrides it.
var DefaultProgramID = codec.Address(sha256.Sum256([]byte(consts.Name)))

type CustomAllocation struct {
	Address codec.Address `json:"address"`
	Balance uint64        `json:"balance"`
}

type Rules struct {
	ProgramID codec.Address `json:"programID"`
	Rent      storage.Rent  `json:"rent"`
}

func NewDefaultRules() *Rules {
	return &Rules{
		ProgramID: DefaultProgramID,
		Rent:      storage.DefaultRent(),
	}
}

type DefaultGenesis struct {
	CustomAllocation []*CustomAllocation `json:"customAllocation"`
	Rules            *Rules              `json:"initialRules"`
}

func NewDefaultGenesis(customAllocations []*CustomAllocation) *DefaultGenesis {
	return &DefaultGenesis{
		CustomAllocation: customAllocations,
		Rules:            NewDefaultRules(),
	}
}

// Load parses a genesis, filling in default rules when they are omitted.
func Load(genesisBytes []byte) (*DefaultGenesis, error) {
	g := NewDefaultGenesis(nil)
	if len(genesisBytes) == 0 {
		return g, nil
	}
	if err := json.Unmarshal(genesisBytes, g); err != nil {
		return nil, err
	}
	if g.Rules == nil {
		g.Rules = NewDefaultRules()
	}
	return g, nil
}

// InitializeState credits every allocation. It returns the total supply
// allocated.
func (g *DefaultGenesis) InitializeState(ctx context.Context, tracer trace.Tracer, mu state.Mutable) (uint64, error) {
	ctx, span := tracer.Start(ctx, "Genesis.InitializeState")
	defer span.End()

	supply := uint64(0)
	for _, alloc := range g.CustomAllocation {
		var err error
		supply, err = safemath.Add64(supply, alloc.Balance)
		if err != nil {
			return 0, err
		}
		if _, err := storage.AddBalance(ctx, mu, alloc.Address, alloc.Balance); err != nil {
			return 0, fmt.Errorf("%w: addr=%s, bal=%d", err, alloc.Address, alloc.Balance)
		}
	}
	return supply, nil
}
