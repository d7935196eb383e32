// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrDuplicateKeyName    = errors.New("duplicate key name")
	ErrNamedKeyNotFound    = errors.New("named key not found")
	ErrInvalidKeyName      = errors.New("invalid key name")
	ErrNoKeys              = errors.New("no available keys")
	ErrNoDefaultKey        = errors.New("no default key")
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrInvalidStep         = errors.New("invalid step")
	ErrInvalidConfigFormat = errors.New("invalid config format")
	ErrAssertionFailed     = errors.New("assertion failed")
	ErrRemoteFund          = errors.New("funding requires a local node")
	ErrEndpointRequired    = errors.New("endpoint required")
)
