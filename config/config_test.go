// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	require := require.New(t)

	c, err := New(nil)
	require.NoError(err)
	require.Equal(NewConfig(), c)

	c, err = New([]byte(`{}`))
	require.NoError(err)
	require.Equal(NewConfig(), c)
}

func TestNewOverrides(t *testing.T) {
	require := require.New(t)

	c, err := New([]byte(`{
		"logLevel": "debug",
		"dataDir": "/tmp/counter",
		"shutdownTimeout": 1000000000,
		"databaseConfig": {"sync": false},
		"traceConfig": {"enabled": true, "sampleRate": 1},
		"genesis": {"customAllocation": []}
	}`))
	require.NoError(err)
	require.Equal(logging.Debug, c.LogLevel)
	require.Equal("/tmp/counter", c.DataDir)
	require.Equal(time.Second, c.ShutdownTimeout)
	require.False(c.DatabaseConfig.Sync)
	require.True(c.TraceConfig.Enabled)
	require.Equal("countervm", c.TraceConfig.ServiceName)
	require.JSONEq(`{"customAllocation": []}`, string(c.Genesis))

	// Untouched sections keep their defaults.
	require.Equal(DefaultHTTPAddress, c.HTTPAddress)
	require.Equal(NewConfig().DatabaseConfig.CacheSize, c.DatabaseConfig.CacheSize)
}

func TestNewInvalid(t *testing.T) {
	tests := map[string]struct {
		input       string
		expectedErr error
	}{
		"EmptyDataDir": {
			input:       `{"dataDir": ""}`,
			expectedErr: ErrMissingDataDir,
		},
		"EmptyHTTPAddress": {
			input:       `{"httpAddress": ""}`,
			expectedErr: ErrMissingHTTPAddress,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New([]byte(test.input))
			require.ErrorIs(t, err, test.expectedErr)
		})
	}

	_, err := New([]byte(`{"logLevel": 7`))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	require := require.New(t)

	c, err := Load("")
	require.NoError(err)
	require.Equal(NewConfig(), c)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(os.WriteFile(path, []byte(`{"httpAddress": "0.0.0.0:1234"}`), 0o600))
	c, err = Load(path)
	require.NoError(err)
	require.Equal("0.0.0.0:1234", c.HTTPAddress)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(err, os.ErrNotExist)
}
