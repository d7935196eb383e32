// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "github.com/ava-labs/countervm/pebble"

func pebbleTestConfig() pebble.Config {
	cfg := pebble.NewDefaultConfig()
	cfg.Sync = false
	return cfg
}
