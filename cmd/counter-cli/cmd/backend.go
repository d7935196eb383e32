// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"time"

	"go.uber.org/atomic"

	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/vm"
)

// backend is where CLI commands send their actions: a node opened in
// process or a remote node reached over JSON-RPC.
type backend interface {
	Submit(ctx context.Context, action chain.Action, factory chain.AuthFactory) (*chain.Result, error)
	Counter(ctx context.Context, owner codec.Address) (*rpc.CounterReply, error)
	Balance(ctx context.Context, addr codec.Address) (uint64, error)
	Fund(ctx context.Context, addr codec.Address, amount uint64) (uint64, error)
}

var (
	_ backend = (*localBackend)(nil)
	_ backend = (*remoteBackend)(nil)
)

type localBackend struct {
	vm    *vm.VM
	nonce *atomic.Uint64
}

func newLocalBackend(v *vm.VM) *localBackend {
	return &localBackend{
		vm:    v,
		nonce: atomic.NewUint64(uint64(time.Now().UnixNano())),
	}
}

func (l *localBackend) Submit(ctx context.Context, action chain.Action, factory chain.AuthFactory) (*chain.Result, error) {
	ledger := l.vm.Ledger()
	tx, err := chain.NewTx(l.nonce.Inc(), action).Sign(factory, ledger.Registry())
	if err != nil {
		return nil, err
	}
	return ledger.Submit(ctx, tx)
}

func (l *localBackend) Counter(ctx context.Context, owner codec.Address) (*rpc.CounterReply, error) {
	ledger := l.vm.Ledger()
	record, addr, err := ledger.Counter(ctx, owner)
	if errors.Is(err, counter.ErrRecordNotFound) {
		addr, _, err := ledger.Program().Address(owner)
		return &rpc.CounterReply{Address: addr}, err
	}
	if err != nil {
		return nil, err
	}
	return &rpc.CounterReply{
		Address:   addr,
		Exists:    true,
		Count:     record.Count,
		Bump:      record.Bump,
		Authority: record.Authority,
	}, nil
}

func (l *localBackend) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	return l.vm.Ledger().Balance(ctx, addr)
}

func (l *localBackend) Fund(ctx context.Context, addr codec.Address, amount uint64) (uint64, error) {
	return l.vm.Ledger().Fund(ctx, addr, amount)
}

type remoteBackend struct {
	cli      *rpc.JSONRPCClient
	registry *chain.Registry
}

func newRemoteBackend(endpoint string) (*remoteBackend, error) {
	registry := chain.NewRegistry()
	if err := errors.Join(actions.Register(registry), auth.Register(registry)); err != nil {
		return nil, err
	}
	return &remoteBackend{
		cli:      rpc.NewJSONRPCClient(endpoint),
		registry: registry,
	}, nil
}

func (r *remoteBackend) Submit(ctx context.Context, action chain.Action, factory chain.AuthFactory) (*chain.Result, error) {
	return r.cli.SubmitAction(ctx, r.registry, action, factory)
}

func (r *remoteBackend) Counter(ctx context.Context, owner codec.Address) (*rpc.CounterReply, error) {
	return r.cli.Counter(ctx, owner)
}

func (r *remoteBackend) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	return r.cli.Balance(ctx, addr)
}

func (*remoteBackend) Fund(context.Context, codec.Address, uint64) (uint64, error) {
	return 0, ErrRemoteFund
}
