// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/pubsub"
	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/trace"
)

const (
	DefaultHTTPAddress     = "127.0.0.1:9650"
	DefaultDataDir         = ".countervm"
	DefaultShutdownTimeout = 5 * time.Second
)

var (
	ErrMissingDataDir     = errors.New("missing data directory")
	ErrMissingHTTPAddress = errors.New("missing http address")
)

type Config struct {
	LogLevel        logging.Level       `json:"logLevel"`
	LogDisplayLevel logging.Level       `json:"logDisplayLevel"`
	DataDir         string              `json:"dataDir"`
	HTTPAddress     string              `json:"httpAddress"`
	AllowedOrigins  []string            `json:"allowedOrigins"`
	ShutdownTimeout time.Duration       `json:"shutdownTimeout"`
	HTTPConfig      rpc.HTTPConfig      `json:"httpConfig"`
	StreamConfig    pubsub.ServerConfig `json:"streamConfig"`
	DatabaseConfig  pebble.Config       `json:"databaseConfig"`
	TraceConfig     trace.Config        `json:"traceConfig"`

	// Genesis is applied the first time the node opens its database.
	Genesis json.RawMessage `json:"genesis"`
}

func NewConfig() Config {
	return Config{
		LogLevel:        logging.Info,
		LogDisplayLevel: logging.Info,
		DataDir:         DefaultDataDir,
		HTTPAddress:     DefaultHTTPAddress,
		AllowedOrigins:  []string{"*"},
		ShutdownTimeout: DefaultShutdownTimeout,
		HTTPConfig:      rpc.NewDefaultHTTPConfig(),
		StreamConfig:    pubsub.NewDefaultServerConfig(),
		DatabaseConfig:  pebble.NewDefaultConfig(),
		TraceConfig:     trace.NewDefaultConfig(),
	}
}

// New decodes [b] over the defaults. Fields missing from [b] keep their
// default values.
func New(b []byte) (Config, error) {
	c := NewConfig()
	if len(b) > 0 {
		if err := json.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if err := c.Verify(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads the config at [path]. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return New(nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return New(b)
}

func (c Config) Verify() error {
	switch {
	case c.DataDir == "":
		return ErrMissingDataDir
	case c.HTTPAddress == "":
		return ErrMissingHTTPAddress
	default:
		return nil
	}
}
