// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/storage"
)

// Ledger is the part of [chain.Ledger] served over JSON-RPC.
type Ledger interface {
	Registry() *chain.Registry
	Program() *counter.Program
	Rent() storage.Rent
	Submit(ctx context.Context, tx *chain.Transaction) (*chain.Result, error)
	Balance(ctx context.Context, addr codec.Address) (uint64, error)
	Counter(ctx context.Context, owner codec.Address) (*counter.Record, codec.Address, error)
}

type JSONRPCServer struct {
	log    logging.Logger
	tracer trace.Tracer
	ledger Ledger
}

func NewJSONRPCServer(log logging.Logger, tracer trace.Tracer, ledger Ledger) *JSONRPCServer {
	return &JSONRPCServer{
		log:    log,
		tracer: tracer,
		ledger: ledger,
	}
}

type PingReply struct {
	Success bool   `json:"success"`
	Version string `json:"version"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	j.log.Info("ping")
	reply.Success = true
	reply.Version = consts.Version
	return nil
}

type ProgramReply struct {
	ProgramID codec.Address `json:"programId"`
}

func (j *JSONRPCServer) Program(_ *http.Request, _ *struct{}, reply *ProgramReply) error {
	reply.ProgramID = j.ledger.Program().ID()
	return nil
}

type CounterArgs struct {
	Owner codec.Address `json:"owner"`
}

type CounterReply struct {
	Address   codec.Address `json:"address"`
	Exists    bool          `json:"exists"`
	Count     uint64        `json:"count"`
	Bump      uint8         `json:"bump"`
	Authority codec.Address `json:"authority"`
}

func (j *JSONRPCServer) Counter(req *http.Request, args *CounterArgs, reply *CounterReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Counter")
	defer span.End()

	record, addr, err := j.ledger.Counter(ctx, args.Owner)
	if errors.Is(err, counter.ErrRecordNotFound) {
		addr, _, err = j.ledger.Program().Address(args.Owner)
		reply.Address = addr
		return err
	}
	if err != nil {
		return err
	}
	reply.Address = addr
	reply.Exists = true
	reply.Count = record.Count
	reply.Bump = record.Bump
	reply.Authority = record.Authority
	return nil
}

type BalanceArgs struct {
	Address codec.Address `json:"address"`
}

type BalanceReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Balance")
	defer span.End()

	balance, err := j.ledger.Balance(ctx, args.Address)
	if err != nil {
		return err
	}
	reply.Amount = balance
	return nil
}

type RentArgs struct {
	Space uint64 `json:"space"`
}

type RentReply struct {
	Rent           storage.Rent `json:"rent"`
	MinimumBalance uint64       `json:"minimumBalance"`
}

// Rent returns the deposit required for an account holding [args.Space]
// bytes. A zero space reports the deposit of a counter record.
func (j *JSONRPCServer) Rent(_ *http.Request, args *RentArgs, reply *RentReply) error {
	space := args.Space
	if space == 0 {
		space = counter.RecordSpace
	}
	rent := j.ledger.Rent()
	deposit, err := rent.MinimumBalance(space)
	if err != nil {
		return err
	}
	reply.Rent = rent
	reply.MinimumBalance = deposit
	return nil
}

type SubmitTxArgs struct {
	Tx []byte `json:"tx"`
}

type SubmitTxReply struct {
	TxID   ids.ID        `json:"txId"`
	Result *chain.Result `json:"result"`
}

func (j *JSONRPCServer) SubmitTx(req *http.Request, args *SubmitTxArgs, reply *SubmitTxReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.SubmitTx")
	defer span.End()

	tx, err := chain.ParseTx(args.Tx, j.ledger.Registry())
	if err != nil {
		return fmt.Errorf("%w: unable to unmarshal on public service", err)
	}
	result, err := j.ledger.Submit(ctx, tx)
	if result == nil {
		return err
	}
	if err != nil {
		// The transaction committed but a subscriber failed.
		j.log.Warn("failed to deliver result",
			zap.Stringer("txID", tx.ID()),
			zap.Error(err),
		)
	}
	reply.TxID = tx.ID()
	reply.Result = result
	return nil
}
