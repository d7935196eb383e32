// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
)

type JSONRPCClient struct {
	requester *EndpointRequester

	programID codec.Address
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: NewEndpointRequester(uri, Name)}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) Program(ctx context.Context) (codec.Address, error) {
	if cli.programID != codec.EmptyAddress {
		return cli.programID, nil
	}
	resp := new(ProgramReply)
	if err := cli.requester.SendRequest(ctx, "program", nil, resp); err != nil {
		return codec.EmptyAddress, err
	}
	cli.programID = resp.ProgramID
	return resp.ProgramID, nil
}

func (cli *JSONRPCClient) Counter(ctx context.Context, owner codec.Address) (*CounterReply, error) {
	resp := new(CounterReply)
	err := cli.requester.SendRequest(
		ctx,
		"counter",
		&CounterArgs{Owner: owner},
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.requester.SendRequest(
		ctx,
		"balance",
		&BalanceArgs{Address: addr},
		resp,
	)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Rent(ctx context.Context, space uint64) (*RentReply, error) {
	resp := new(RentReply)
	err := cli.requester.SendRequest(
		ctx,
		"rent",
		&RentArgs{Space: space},
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) SubmitTx(ctx context.Context, tx []byte) (ids.ID, *chain.Result, error) {
	resp := new(SubmitTxReply)
	err := cli.requester.SendRequest(
		ctx,
		"submitTx",
		&SubmitTxArgs{Tx: tx},
		resp,
	)
	return resp.TxID, resp.Result, err
}

// GenerateTransaction signs [action] with [factory]. The nonce is taken from
// the clock so repeated actions produce distinct transactions.
func (*JSONRPCClient) GenerateTransaction(
	registry *chain.Registry,
	action chain.Action,
	factory chain.AuthFactory,
) (*chain.Transaction, error) {
	return chain.NewTx(uint64(time.Now().UnixNano()), action).Sign(factory, registry)
}

// SubmitAction signs and submits [action], returning its committed result.
func (cli *JSONRPCClient) SubmitAction(
	ctx context.Context,
	registry *chain.Registry,
	action chain.Action,
	factory chain.AuthFactory,
) (*chain.Result, error) {
	tx, err := cli.GenerateTransaction(registry, action, factory)
	if err != nil {
		return nil, err
	}
	_, result, err := cli.SubmitTx(ctx, tx.Bytes())
	return result, err
}
