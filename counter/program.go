// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package counter manages per-owner counter records stored in
// program-derived accounts.
package counter

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

//go:generate mockgen -destination "mock_accounts_test.go" -package $GOPACKAGE -write_package_comment=false github.com/ava-labs/countervm/counter Accounts

// Deriver derives addresses owned by a program.
type Deriver interface {
	ProgramID() codec.Address
	FindAddress(seeds [][]byte) (codec.Address, uint8, error)
	CreateAddress(seeds [][]byte) (codec.Address, error)
}

// Accounts is the ledger storage a [Program] runs against.
type Accounts interface {
	// Allocate creates an account at [addr] with [space] bytes of data owned
	// by [owner], debiting from [payer] whatever the deposit exceeds the
	// lamports already held at [addr].
	Allocate(ctx context.Context, payer codec.Address, addr codec.Address, space uint64, owner codec.Address) error
	// Load returns the owner and data of the account at [addr]. It returns
	// [database.ErrNotFound] if no account exists.
	Load(ctx context.Context, addr codec.Address) (codec.Address, []byte, error)
	Store(ctx context.Context, addr codec.Address, data []byte) error
	// Close removes the account at [addr] and credits its balance to
	// [recipient], returning the amount credited.
	Close(ctx context.Context, addr codec.Address, recipient codec.Address) (uint64, error)
}

type Program struct {
	deriver Deriver
}

func New(deriver Deriver) *Program {
	return &Program{deriver: deriver}
}

func (p *Program) ID() codec.Address {
	return p.deriver.ProgramID()
}

// Address returns the only address a counter owned by [owner] can live at.
func (p *Program) Address(owner codec.Address) (codec.Address, uint8, error) {
	return p.deriver.FindAddress([][]byte{[]byte(consts.CounterSeed), owner[:]})
}

// Create initializes a zeroed counter for [owner]. It fails if one already
// exists.
func (p *Program) Create(ctx context.Context, accts Accounts, owner codec.Address) (*Created, error) {
	addr, bump, err := p.Address(owner)
	if err != nil {
		return nil, err
	}
	if err := accts.Allocate(ctx, owner, addr, RecordSpace, p.ID()); err != nil {
		return nil, err
	}
	record := &Record{Bump: bump, Authority: owner}
	if err := p.store(ctx, accts, addr, record); err != nil {
		return nil, err
	}
	return &Created{
		Owner:   owner,
		Counter: addr,
		Count:   record.Count,
	}, nil
}

func (p *Program) Increment(ctx context.Context, accts Accounts, caller codec.Address, addr codec.Address) (*Updated, error) {
	record, err := p.authorize(ctx, accts, caller, addr)
	if err != nil {
		return nil, err
	}
	next, err := smath.Add64(record.Count, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOverflow, err)
	}
	return p.update(ctx, accts, addr, record, next, OpIncrement)
}

func (p *Program) Decrement(ctx context.Context, accts Accounts, caller codec.Address, addr codec.Address) (*Updated, error) {
	record, err := p.authorize(ctx, accts, caller, addr)
	if err != nil {
		return nil, err
	}
	next, err := smath.Sub(record.Count, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnderflow, err)
	}
	return p.update(ctx, accts, addr, record, next, OpDecrement)
}

// Destroy removes the counter at [addr] and returns its deposit to the
// caller.
func (p *Program) Destroy(ctx context.Context, accts Accounts, caller codec.Address, addr codec.Address) (*Closed, error) {
	record, err := p.authorize(ctx, accts, caller, addr)
	if err != nil {
		return nil, err
	}
	refund, err := accts.Close(ctx, addr, caller)
	if err != nil {
		return nil, err
	}
	return &Closed{
		Owner:   record.Authority,
		Counter: addr,
		Final:   record.Count,
		Refund:  refund,
	}, nil
}

// Get returns the counter owned by [owner] and its address.
func (p *Program) Get(ctx context.Context, accts Accounts, owner codec.Address) (*Record, codec.Address, error) {
	addr, _, err := p.Address(owner)
	if err != nil {
		return nil, codec.EmptyAddress, err
	}
	record, err := p.load(ctx, accts, addr)
	if err != nil {
		return nil, codec.EmptyAddress, err
	}
	return record, addr, nil
}

func (p *Program) update(
	ctx context.Context,
	accts Accounts,
	addr codec.Address,
	record *Record,
	next uint64,
	op Op,
) (*Updated, error) {
	prev := record.Count
	record.Count = next
	if err := p.store(ctx, accts, addr, record); err != nil {
		return nil, err
	}
	return &Updated{
		Owner:    record.Authority,
		Counter:  addr,
		Previous: prev,
		New:      next,
		Op:       op,
	}, nil
}

// authorize loads the record at [addr] and checks that [caller] is its
// authority.
func (p *Program) authorize(ctx context.Context, accts Accounts, caller codec.Address, addr codec.Address) (*Record, error) {
	record, err := p.load(ctx, accts, addr)
	if err != nil {
		return nil, err
	}
	if caller != record.Authority {
		return nil, fmt.Errorf("%w: %s is not the authority of %s", ErrUnauthorized, caller, addr)
	}
	return record, nil
}

func (p *Program) load(ctx context.Context, accts Accounts, addr codec.Address) (*Record, error) {
	owner, data, err := accts.Load(ctx, addr)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, addr)
	}
	if err != nil {
		return nil, err
	}
	if owner != p.ID() {
		return nil, fmt.Errorf("%w: %s is owned by %s", ErrInvalidAccountOwner, addr, owner)
	}
	record, err := UnmarshalRecord(data)
	if err != nil {
		return nil, err
	}
	derived, err := p.deriver.CreateAddress([][]byte{
		[]byte(consts.CounterSeed),
		record.Authority[:],
		{record.Bump},
	})
	if err != nil || derived != addr {
		return nil, fmt.Errorf("%w: %s", ErrSeedsMismatch, addr)
	}
	return record, nil
}

func (*Program) store(ctx context.Context, accts Accounts, addr codec.Address, record *Record) error {
	data, err := record.Marshal()
	if err != nil {
		return err
	}
	return accts.Store(ctx, addr, data)
}
