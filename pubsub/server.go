// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var _ http.Handler = (*Server)(nil)

type ServerConfig struct {
	// Size of the ws read buffer
	ReadBufferSize int `json:"readBufferSize"`
	// Size of the ws write buffer
	WriteBufferSize int `json:"writeBufferSize"`
	// Maximum number of pending messages to send to a peer.
	MaxPendingMessages int `json:"maxPendingMessages"`
	// Maximum message size in bytes allowed from peer.
	MaxReadMessageSize int64 `json:"maxReadMessageSize"`
	// Time allowed to write a message to the peer.
	WriteWait time.Duration `json:"writeWait"`
	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration `json:"pongWait"`
	// Send pings to peer with this period. Must be less than PongWait.
	PingPeriod time.Duration `json:"pingPeriod"`
}

func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadBufferSize:     readBufferSize,
		WriteBufferSize:    writeBufferSize,
		MaxPendingMessages: maxPendingMessages,
		MaxReadMessageSize: maxReadMessageSize,
		WriteWait:          writeWait,
		PongWait:           pongWait,
		PingPeriod:         (pongWait * 9) / 10,
	}
}

// Server maintains the set of active websocket clients and broadcasts
// messages to them.
//
// Connect to the server using websocket.DefaultDialer.Dial().
type Server struct {
	log      logging.Logger
	config   ServerConfig
	upgrader websocket.Upgrader

	conns *Connections
}

func New(log logging.Logger, config ServerConfig) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns: NewConnections(),
	}
}

// ServeHTTP adds a connection to the server, and starts go routines for
// reading and writing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	conn := &Connection{
		s:    s,
		conn: wsConn,
		send: make(chan []byte, s.config.MaxPendingMessages),
		done: make(chan struct{}),
	}
	conn.active.Store(true)
	if !s.conns.Add(conn) {
		s.log.Debug("rejecting connection to closed server")
		_ = wsConn.Close()
		return
	}

	go conn.writePump()
	go conn.readPump()
}

// Publish sends [msg] to every connection. Connections with too many
// pending messages miss it.
func (s *Server) Publish(msg []byte) {
	if dropped := s.conns.Broadcast(msg); dropped > 0 {
		s.log.Verbo("dropping message to connections with too many pending messages",
			zap.Int("dropped", dropped),
		)
	}
}

// Connections returns the number of active connections.
func (s *Server) Connections() int {
	return s.conns.Len()
}

// Close disconnects every client and rejects new ones.
func (s *Server) Close() {
	for _, conn := range s.conns.Drain() {
		conn.deactivate()
	}
}

func (s *Server) removeConnection(conn *Connection) {
	s.conns.Remove(conn)
	conn.deactivate()
}
