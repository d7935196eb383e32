// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/event"
	"github.com/ava-labs/countervm/lockmap"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/tstate"
)

const (
	initialLocks   = 1_024
	acceptedMarker = 0x1
)

var _ Rules = (*Ledger)(nil)

// Ledger executes signed transactions against [state.Database]. Transactions
// touching the same keys are applied one at a time, and each is applied
// entirely or not at all.
type Ledger struct {
	log      logging.Logger
	tracer   trace.Tracer
	db       state.Database
	registry *Registry
	program  *counter.Program
	rent     storage.Rent
	metrics  *metrics

	locks *lockmap.Lockmap

	subsL  sync.RWMutex
	subs   []event.Subscription[*Result]
	closed bool
}

func New(
	log logging.Logger,
	tracer trace.Tracer,
	registerer prometheus.Registerer,
	db state.Database,
	registry *Registry,
	program *counter.Program,
	rent storage.Rent,
) (*Ledger, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Ledger{
		log:      log,
		tracer:   tracer,
		db:       db,
		registry: registry,
		program:  program,
		rent:     rent,
		metrics:  m,
		locks:    lockmap.New(initialLocks),
	}, nil
}

func (l *Ledger) Program() *counter.Program { return l.program }

func (l *Ledger) Rent() storage.Rent { return l.rent }

func (l *Ledger) Registry() *Registry { return l.registry }

// Subscribe registers [sub] to receive the result of every committed
// transaction.
func (l *Ledger) Subscribe(sub event.Subscription[*Result]) error {
	l.subsL.Lock()
	defer l.subsL.Unlock()

	if l.closed {
		return ErrLedgerClosed
	}
	l.subs = append(l.subs, sub)
	return nil
}

func (l *Ledger) subscriptions() []event.Subscription[*Result] {
	l.subsL.RLock()
	defer l.subsL.RUnlock()

	return l.subs
}

// Submit verifies and executes [tx]. Once the transaction commits, its
// result is delivered to every subscription. A non-nil result means the
// transaction committed, even if delivery returned an error.
func (l *Ledger) Submit(ctx context.Context, tx *Transaction) (*Result, error) {
	ctx, span := l.tracer.Start(ctx, "Ledger.Submit",
		oteltrace.WithAttributes(
			attribute.Stringer("txID", tx.ID()),
			attribute.Int("size", tx.Size()),
		),
	)
	defer span.End()

	start := time.Now()
	action := actionName(tx.Action)
	result, err := l.execute(ctx, tx)
	l.metrics.executeLatency.Observe(time.Since(start).Seconds())
	if result == nil {
		l.metrics.txs.WithLabelValues(action, outcomeFailure).Inc()
		l.log.Debug("transaction failed",
			zap.Stringer("txID", tx.ID()),
			zap.String("action", action),
			zap.Error(err),
		)
		return nil, err
	}
	l.metrics.txs.WithLabelValues(action, outcomeSuccess).Inc()
	return result, err
}

func (l *Ledger) execute(ctx context.Context, tx *Transaction) (*Result, error) {
	if tx.Auth == nil {
		return nil, ErrMissingAuth
	}
	msg, err := tx.Digest()
	if err != nil {
		return nil, err
	}
	if err := tx.Auth.Verify(ctx, msg); err != nil {
		return nil, err
	}
	actor := tx.Auth.Actor()

	stateKeys, err := tx.StateKeys(l)
	if err != nil {
		return nil, err
	}
	sorted := stateKeys.Sorted()
	l.locks.LockAll(sorted)
	defer l.locks.UnlockAll(sorted)

	values := make(map[string][]byte, len(sorted))
	for _, k := range sorted {
		v, err := l.db.Get([]byte(k))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		values[k] = v
	}
	txKey := storage.TxKey(tx.ID())
	if _, ok := values[string(txKey)]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTx, tx.ID())
	}

	ts := tstate.New(len(sorted))
	view := ts.NewView(stateKeys, values)
	evt, err := tx.Action.Execute(ctx, l, view, actor)
	if err != nil {
		view.Rollback(ctx, 0)
		return nil, err
	}
	if err := view.Insert(ctx, txKey, []byte{acceptedMarker}); err != nil {
		return nil, err
	}
	view.Commit()

	batch := l.db.NewBatch()
	if err := ts.WriteChanges(batch); err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, err
	}
	result := &Result{
		TxID:  tx.ID(),
		Actor: actor,
		Event: evt,
	}
	l.logResult(result)

	// Deliver before releasing the locks so subscribers observe operations
	// on an address in the order they were applied.
	return result, event.NotifyAll(ctx, result, l.subscriptions()...)
}

func (l *Ledger) logResult(result *Result) {
	switch e := result.Event.(type) {
	case *counter.Created:
		l.metrics.countersCreated.Inc()
		l.log.Info("counter initialized",
			zap.Stringer("txID", result.TxID),
			zap.Stringer("owner", e.Owner),
			zap.Stringer("counter", e.Counter),
			zap.Uint64("count", e.Count),
		)
	case *counter.Updated:
		l.log.Info("counter updated",
			zap.Stringer("txID", result.TxID),
			zap.Stringer("owner", e.Owner),
			zap.Stringer("counter", e.Counter),
			zap.Stringer("op", e.Op),
			zap.Uint64("previous", e.Previous),
			zap.Uint64("new", e.New),
		)
	case *counter.Closed:
		l.metrics.countersClosed.Inc()
		l.log.Info("counter closed",
			zap.Stringer("txID", result.TxID),
			zap.Stringer("owner", e.Owner),
			zap.Stringer("counter", e.Counter),
			zap.Uint64("final", e.Final),
			zap.Uint64("refund", e.Refund),
		)
	}
}

// Fund credits [amount] lamports to [addr].
func (l *Ledger) Fund(ctx context.Context, addr codec.Address, amount uint64) (uint64, error) {
	k := string(storage.AccountKey(addr))
	l.locks.Lock(k)
	defer l.locks.Unlock(k)

	mu := state.NewSimpleMutable(l.db)
	bal, err := storage.AddBalance(ctx, mu, addr, amount)
	if err != nil {
		return 0, err
	}
	if err := mu.Commit(ctx); err != nil {
		return 0, err
	}
	l.log.Info("funded account",
		zap.Stringer("address", addr),
		zap.Uint64("amount", amount),
		zap.Uint64("balance", bal),
	)
	return bal, nil
}

func (l *Ledger) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	k := string(storage.AccountKey(addr))
	l.locks.RLock(k)
	defer l.locks.RUnlock(k)

	return storage.GetBalance(ctx, state.NewSimpleMutable(l.db), addr)
}

// Counter returns the counter owned by [owner] and its address.
func (l *Ledger) Counter(ctx context.Context, owner codec.Address) (*counter.Record, codec.Address, error) {
	addr, _, err := l.program.Address(owner)
	if err != nil {
		return nil, codec.EmptyAddress, err
	}
	k := string(storage.AccountKey(addr))
	l.locks.RLock(k)
	defer l.locks.RUnlock(k)

	accts := storage.NewAccounts(state.NewSimpleMutable(l.db), l.rent)
	return l.program.Get(ctx, accts, owner)
}

// Close stops delivery and closes every subscription.
func (l *Ledger) Close() error {
	l.subsL.Lock()
	defer l.subsL.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return event.CloseAll(l.subs...)
}

func actionName(a Action) string {
	return fmt.Sprintf("%T", a)
}
