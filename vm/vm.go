// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/config"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/genesis"
	"github.com/ava-labs/countervm/pda"
	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/pubsub"
	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"

	ctrace "github.com/ava-labs/countervm/trace"
)

// VM assembles a single-process counter node: the persistent state, the
// ledger executing transactions against it and the APIs serving it.
type VM struct {
	log     logging.Logger
	config  config.Config
	tracer  trace.Tracer
	genesis *genesis.DefaultGenesis

	db       *pebble.Database
	ledger   *chain.Ledger
	gatherer prometheus.Gatherers
}

func New(ctx context.Context, log logging.Logger, cfg config.Config) (*VM, error) {
	tracer, err := ctrace.New(cfg.TraceConfig)
	if err != nil {
		return nil, err
	}
	g, err := genesis.Load(cfg.Genesis)
	if err != nil {
		return nil, fmt.Errorf("failed to load genesis: %w", err)
	}
	db, dbRegistry, err := storage.New(cfg.DatabaseConfig, cfg.DataDir, storage.StateNamespace)
	if err != nil {
		return nil, err
	}
	vm := &VM{
		log:     log,
		config:  cfg,
		tracer:  tracer,
		genesis: g,
		db:      db,
	}
	if err := vm.initialize(ctx, dbRegistry); err != nil {
		return nil, errors.Join(err, db.Close(), tracer.Close())
	}
	return vm, nil
}

func (vm *VM) initialize(ctx context.Context, dbRegistry *prometheus.Registry) error {
	if err := vm.applyGenesis(ctx); err != nil {
		return err
	}

	registry := chain.NewRegistry()
	errs := wrappers.Errs{}
	errs.Add(
		actions.Register(registry),
		auth.Register(registry),
	)
	if errs.Errored() {
		return errs.Err
	}

	ledgerRegistry := prometheus.NewRegistry()
	ledger, err := chain.New(
		vm.log,
		vm.tracer,
		ledgerRegistry,
		vm.db,
		registry,
		counter.New(pda.NewDeriver(vm.genesis.Rules.ProgramID)),
		vm.genesis.Rules.Rent,
	)
	if err != nil {
		return err
	}
	vm.ledger = ledger
	vm.gatherer = prometheus.Gatherers{dbRegistry, ledgerRegistry}
	vm.log.Info("initialized vm",
		zap.Stringer("programID", vm.genesis.Rules.ProgramID),
		zap.String("dataDir", vm.config.DataDir),
	)
	return nil
}

// applyGenesis credits the genesis allocations the first time the database
// is opened. Later opens only check the database was built from the same
// genesis.
func (vm *VM) applyGenesis(ctx context.Context) error {
	// Hash the decoded genesis so formatting changes in the config do not
	// look like a different genesis.
	genesisBytes, err := json.Marshal(vm.genesis)
	if err != nil {
		return err
	}
	genesisID := ids.ID(hashing.ComputeHash256Array(genesisBytes))

	stored, err := vm.db.Get(storage.GenesisKey())
	switch {
	case err == nil:
		if !bytes.Equal(stored, genesisID[:]) {
			return fmt.Errorf("%w: expected %s", ErrGenesisMismatch, genesisID)
		}
		vm.log.Info("genesis already applied",
			zap.Stringer("genesisID", genesisID),
		)
		return nil
	case !errors.Is(err, database.ErrNotFound):
		return err
	}

	mu := state.NewSimpleMutable(vm.db)
	supply, err := vm.genesis.InitializeState(ctx, vm.tracer, mu)
	if err != nil {
		return err
	}
	if err := mu.Insert(ctx, storage.GenesisKey(), genesisID[:]); err != nil {
		return err
	}
	if err := mu.Commit(ctx); err != nil {
		return err
	}
	vm.log.Info("applied genesis",
		zap.Stringer("genesisID", genesisID),
		zap.Int("allocations", len(vm.genesis.CustomAllocation)),
		zap.Uint64("supply", supply),
	)
	return nil
}

func (vm *VM) Logger() logging.Logger { return vm.log }

func (vm *VM) Tracer() trace.Tracer { return vm.tracer }

func (vm *VM) Ledger() *chain.Ledger { return vm.ledger }

func (vm *VM) Genesis() *genesis.DefaultGenesis { return vm.genesis }

// Gatherer collects the metrics of the database and the ledger.
func (vm *VM) Gatherer() prometheus.Gatherer { return vm.gatherer }

// NewServer builds the HTTP server for [listener] with the JSON-RPC API, the
// result stream and the metrics routes registered.
func (vm *VM) NewServer(listener net.Listener) (*rpc.Server, error) {
	server := rpc.NewServer(
		vm.log,
		listener,
		vm.config.HTTPConfig,
		vm.config.AllowedOrigins,
		vm.config.ShutdownTimeout,
	)
	if err := server.RegisterService(rpc.NewJSONRPCServer(vm.log, vm.tracer, vm.ledger)); err != nil {
		return nil, err
	}
	server.RegisterMetrics(vm.gatherer)

	stream := pubsub.New(vm.log, vm.config.StreamConfig)
	if err := vm.ledger.Subscribe(rpc.NewResultStream(stream)); err != nil {
		return nil, err
	}
	server.AddStreamRoute(stream, rpc.WebSocketEndpoint)
	return server, nil
}

// Serve listens on the configured address until [ctx] is cancelled.
func (vm *VM) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", vm.config.HTTPAddress)
	if err != nil {
		return err
	}
	server, err := vm.NewServer(listener)
	if err != nil {
		return errors.Join(err, listener.Close())
	}
	vm.log.Info("serving",
		zap.Stringer("address", server.Addr()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Dispatch)
	g.Go(func() error {
		<-gctx.Done()
		return server.Shutdown()
	})
	return g.Wait()
}

// Shutdown closes the ledger subscriptions, the tracer and the database.
func (vm *VM) Shutdown() error {
	errs := wrappers.Errs{}
	errs.Add(
		vm.ledger.Close(),
		vm.tracer.Close(),
		vm.db.Close(),
	)
	return errs.Err
}
