// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"

	"github.com/ava-labs/avalanchego/utils/set"
)

// Connections tracks the clients a [Server] broadcasts to. Once drained it
// rejects new clients.
type Connections struct {
	lock    sync.RWMutex
	conns   set.Set[*Connection]
	drained bool
}

func NewConnections() *Connections {
	return &Connections{}
}

// Add registers [conn]. It returns false if the set was drained.
func (c *Connections) Add(conn *Connection) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.drained {
		return false
	}
	c.conns.Add(conn)
	return true
}

func (c *Connections) Remove(conn *Connection) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.conns.Remove(conn)
}

// Broadcast queues [msg] on every connection and returns how many
// connections had no room for it.
func (c *Connections) Broadcast(msg []byte) int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	dropped := 0
	for conn := range c.conns {
		if !conn.Send(msg) {
			dropped++
		}
	}
	return dropped
}

// Drain removes and returns every connection.
func (c *Connections) Drain() []*Connection {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.drained = true
	conns := c.conns.List()
	c.conns.Clear()
	return conns
}

func (c *Connections) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Len()
}
