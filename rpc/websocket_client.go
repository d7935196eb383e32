// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/ava-labs/countervm/chain"
)

type WebSocketClient struct {
	conn   *websocket.Conn
	rl     sync.Mutex
	cl     sync.Once
	closed atomic.Bool
}

// NewWebSocketClient dials the result stream of the node at [uri].
func NewWebSocketClient(uri string) (*WebSocketClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri = strings.Replace(uri, "http", "ws", 1)
	uri += WebSocketEndpoint
	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	// not using resp for now
	resp.Body.Close()
	return &WebSocketClient{conn: conn}, nil
}

// ListenResult blocks until the next committed result arrives. It returns
// [ErrClosed] once the client is closed.
func (c *WebSocketClient) ListenResult() (*chain.Result, error) {
	c.rl.Lock()
	defer c.rl.Unlock()

	if c.closed.Load() {
		return nil, ErrClosed
	}
	_, msg, err := c.conn.ReadMessage()
	if err != nil {
		if c.closed.Load() {
			return nil, ErrClosed
		}
		return nil, err
	}
	result := new(chain.Result)
	if err := json.Unmarshal(msg, result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedEvent, err)
	}
	return result, nil
}

func (c *WebSocketClient) Close() error {
	var err error
	c.cl.Do(func() {
		c.closed.Store(true)
		err = c.conn.Close()
	})
	return err
}
