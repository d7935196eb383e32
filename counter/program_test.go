// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/pda"
)

const testDeposit = 1_000

var (
	programID = codec.Address{0xc0, 0x01}
	alice     = codec.Address{0xa1}
	bob       = codec.Address{0xb0}

	errInUse = errors.New("account in use")
	errTest  = errors.New("test")
)

type account struct {
	owner    codec.Address
	data     []byte
	lamports uint64
}

// memAccounts is an in-memory ledger that charges a flat deposit.
type memAccounts struct {
	accounts map[codec.Address]*account
	balances map[codec.Address]uint64
}

func newMemAccounts() *memAccounts {
	return &memAccounts{
		accounts: map[codec.Address]*account{},
		balances: map[codec.Address]uint64{},
	}
}

func (m *memAccounts) Allocate(_ context.Context, payer codec.Address, addr codec.Address, space uint64, owner codec.Address) error {
	if _, ok := m.accounts[addr]; ok {
		return errInUse
	}
	m.balances[payer] -= testDeposit
	m.accounts[addr] = &account{owner: owner, data: make([]byte, space), lamports: testDeposit}
	return nil
}

func (m *memAccounts) Load(_ context.Context, addr codec.Address) (codec.Address, []byte, error) {
	a, ok := m.accounts[addr]
	if !ok {
		return codec.EmptyAddress, nil, database.ErrNotFound
	}
	return a.owner, append([]byte{}, a.data...), nil
}

func (m *memAccounts) Store(_ context.Context, addr codec.Address, data []byte) error {
	a, ok := m.accounts[addr]
	if !ok {
		return database.ErrNotFound
	}
	a.data = append([]byte{}, data...)
	return nil
}

func (m *memAccounts) Close(_ context.Context, addr codec.Address, recipient codec.Address) (uint64, error) {
	a, ok := m.accounts[addr]
	if !ok {
		return 0, database.ErrNotFound
	}
	delete(m.accounts, addr)
	m.balances[recipient] += a.lamports
	return a.lamports, nil
}

func newTestProgram() *Program {
	return New(pda.NewDeriver(programID))
}

// setCount overwrites the stored count of [owner]'s counter.
func setCount(t *testing.T, p *Program, accts *memAccounts, owner codec.Address, count uint64) codec.Address {
	ctx := context.Background()
	record, addr, err := p.Get(ctx, accts, owner)
	require.NoError(t, err)
	record.Count = count
	data, err := record.Marshal()
	require.NoError(t, err)
	require.NoError(t, accts.Store(ctx, addr, data))
	return addr
}

func getCount(t *testing.T, p *Program, accts *memAccounts, owner codec.Address) uint64 {
	record, _, err := p.Get(context.Background(), accts, owner)
	require.NoError(t, err)
	return record.Count
}

func TestScenario(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	p := newTestProgram()
	accts := newMemAccounts()

	created, err := p.Create(ctx, accts, alice)
	require.NoError(err)
	require.Equal(alice, created.Owner)
	require.Zero(created.Count)
	addr := created.Counter

	expectedAddr, _, err := p.Address(alice)
	require.NoError(err)
	require.Equal(expectedAddr, addr)

	updated, err := p.Increment(ctx, accts, alice, addr)
	require.NoError(err)
	require.Equal(&Updated{Owner: alice, Counter: addr, Previous: 0, New: 1, Op: OpIncrement}, updated)

	_, err = p.Increment(ctx, accts, bob, addr)
	require.ErrorIs(err, ErrUnauthorized)
	require.Equal(uint64(1), getCount(t, p, accts, alice))

	closed, err := p.Destroy(ctx, accts, alice, addr)
	require.NoError(err)
	require.Equal(&Closed{Owner: alice, Counter: addr, Final: 1, Refund: testDeposit}, closed)
	_, _, err = p.Get(ctx, accts, alice)
	require.ErrorIs(err, ErrRecordNotFound)
	require.Zero(accts.balances[alice])

	created, err = p.Create(ctx, accts, alice)
	require.NoError(err)
	require.Equal(addr, created.Counter)
	require.Zero(created.Count)
}

func TestCreateTwice(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	p := newTestProgram()
	accts := newMemAccounts()

	_, err := p.Create(ctx, accts, alice)
	require.NoError(err)
	_, err = p.Create(ctx, accts, alice)
	require.ErrorIs(err, errInUse)

	// Owners never share a record.
	created, err := p.Create(ctx, accts, bob)
	require.NoError(err)
	aliceAddr, _, err := p.Address(alice)
	require.NoError(err)
	require.NotEqual(aliceAddr, created.Counter)
}

func TestRoundTrip(t *testing.T) {
	tests := map[string]struct {
		start  uint64
		first  func(*Program, context.Context, Accounts, codec.Address, codec.Address) (*Updated, error)
		second func(*Program, context.Context, Accounts, codec.Address, codec.Address) (*Updated, error)
	}{
		"IncrementThenDecrement": {
			start:  5,
			first:  (*Program).Increment,
			second: (*Program).Decrement,
		},
		"DecrementThenIncrement": {
			start:  5,
			first:  (*Program).Decrement,
			second: (*Program).Increment,
		},
		"FromZero": {
			start:  0,
			first:  (*Program).Increment,
			second: (*Program).Decrement,
		},
		"FromMax": {
			start:  math.MaxUint64,
			first:  (*Program).Decrement,
			second: (*Program).Increment,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			p := newTestProgram()
			accts := newMemAccounts()
			_, err := p.Create(ctx, accts, alice)
			require.NoError(err)
			addr := setCount(t, p, accts, alice, test.start)

			_, err = test.first(p, ctx, accts, alice, addr)
			require.NoError(err)
			_, err = test.second(p, ctx, accts, alice, addr)
			require.NoError(err)
			require.Equal(test.start, getCount(t, p, accts, alice))
		})
	}
}

func TestBounds(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	p := newTestProgram()
	accts := newMemAccounts()
	_, err := p.Create(ctx, accts, alice)
	require.NoError(err)

	addr := setCount(t, p, accts, alice, math.MaxUint64)
	_, err = p.Increment(ctx, accts, alice, addr)
	require.ErrorIs(err, ErrOverflow)
	require.Equal(uint64(math.MaxUint64), getCount(t, p, accts, alice))

	setCount(t, p, accts, alice, 0)
	_, err = p.Decrement(ctx, accts, alice, addr)
	require.ErrorIs(err, ErrUnderflow)
	require.Zero(getCount(t, p, accts, alice))
}

func TestUnauthorized(t *testing.T) {
	tests := map[string]func(*Program, context.Context, Accounts, codec.Address, codec.Address) error{
		"Increment": func(p *Program, ctx context.Context, accts Accounts, caller, addr codec.Address) error {
			_, err := p.Increment(ctx, accts, caller, addr)
			return err
		},
		"Decrement": func(p *Program, ctx context.Context, accts Accounts, caller, addr codec.Address) error {
			_, err := p.Decrement(ctx, accts, caller, addr)
			return err
		},
		"Destroy": func(p *Program, ctx context.Context, accts Accounts, caller, addr codec.Address) error {
			_, err := p.Destroy(ctx, accts, caller, addr)
			return err
		},
	}
	for name, op := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			p := newTestProgram()
			accts := newMemAccounts()
			_, err := p.Create(ctx, accts, alice)
			require.NoError(err)
			addr := setCount(t, p, accts, alice, 3)

			require.ErrorIs(op(p, ctx, accts, bob, addr), ErrUnauthorized)
			require.Equal(uint64(3), getCount(t, p, accts, alice))
		})
	}
}

func TestLoadValidation(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	p := newTestProgram()
	accts := newMemAccounts()

	_, err := p.Increment(ctx, accts, alice, codec.Address{1})
	require.ErrorIs(err, ErrRecordNotFound)

	created, err := p.Create(ctx, accts, alice)
	require.NoError(err)
	addr := created.Counter

	// A record copied to an address it was not derived for is rejected.
	other := codec.Address{0xee}
	accts.accounts[other] = &account{owner: programID, data: accts.accounts[addr].data}
	_, err = p.Increment(ctx, accts, alice, other)
	require.ErrorIs(err, ErrSeedsMismatch)

	// So is a record whose stored bump was altered.
	record, _, err := p.Get(ctx, accts, alice)
	require.NoError(err)
	record.Bump--
	data, err := record.Marshal()
	require.NoError(err)
	require.NoError(accts.Store(ctx, addr, data))
	_, err = p.Decrement(ctx, accts, alice, addr)
	require.ErrorIs(err, ErrSeedsMismatch)

	accts.accounts[addr].owner = alice
	_, err = p.Destroy(ctx, accts, alice, addr)
	require.ErrorIs(err, ErrInvalidAccountOwner)
}

func TestStorageFailures(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	p := newTestProgram()
	addr, bump, err := p.Address(alice)
	require.NoError(err)
	record := &Record{Count: 4, Bump: bump, Authority: alice}
	data, err := record.Marshal()
	require.NoError(err)

	// Allocation failure stops Create before anything is written.
	accts := NewMockAccounts(ctrl)
	accts.EXPECT().Allocate(gomock.Any(), alice, addr, uint64(RecordSpace), programID).Return(errTest)
	_, err = p.Create(ctx, accts, alice)
	require.ErrorIs(err, errTest)

	accts = NewMockAccounts(ctrl)
	accts.EXPECT().Load(gomock.Any(), addr).Return(codec.EmptyAddress, nil, errTest)
	_, err = p.Increment(ctx, accts, alice, addr)
	require.ErrorIs(err, errTest)
	require.NotErrorIs(err, ErrRecordNotFound)

	accts = NewMockAccounts(ctrl)
	accts.EXPECT().Load(gomock.Any(), addr).Return(programID, data, nil)
	accts.EXPECT().Store(gomock.Any(), addr, gomock.Any()).Return(errTest)
	_, err = p.Decrement(ctx, accts, alice, addr)
	require.ErrorIs(err, errTest)

	accts = NewMockAccounts(ctrl)
	accts.EXPECT().Load(gomock.Any(), addr).Return(programID, data, nil)
	accts.EXPECT().Close(gomock.Any(), addr, alice).Return(uint64(0), errTest)
	_, err = p.Destroy(ctx, accts, alice, addr)
	require.ErrorIs(err, errTest)
}

func TestUnauthorizedDoesNotWrite(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	p := newTestProgram()
	addr, bump, err := p.Address(alice)
	require.NoError(err)
	data, err := (&Record{Count: 1, Bump: bump, Authority: alice}).Marshal()
	require.NoError(err)

	// Only Load is expected: any Store or Close fails the test.
	accts := NewMockAccounts(ctrl)
	accts.EXPECT().Load(gomock.Any(), addr).Return(programID, data, nil).Times(3)
	_, err = p.Increment(ctx, accts, bob, addr)
	require.ErrorIs(err, ErrUnauthorized)
	_, err = p.Decrement(ctx, accts, bob, addr)
	require.ErrorIs(err, ErrUnauthorized)
	_, err = p.Destroy(ctx, accts, bob, addr)
	require.ErrorIs(err, ErrUnauthorized)
}
