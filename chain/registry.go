// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/countervm/codec"
)

type Registry struct {
	actions *codec.TypeParser[Action]
	auths   *codec.TypeParser[Auth]
}

func NewRegistry() *Registry {
	return &Registry{
		actions: codec.NewTypeParser[Action](),
		auths:   codec.NewTypeParser[Auth](),
	}
}

func (r *Registry) RegisterAction(a Action, f func(*codec.Packer) (Action, error)) error {
	return r.actions.Register(a, f)
}

func (r *Registry) RegisterAuth(a Auth, f func(*codec.Packer) (Auth, error)) error {
	return r.auths.Register(a, f)
}

func (r *Registry) UnmarshalAction(p *codec.Packer) (Action, error) {
	typeID := p.UnpackByte()
	if err := p.Err(); err != nil {
		return nil, err
	}
	unmarshal, ok := r.actions.LookupIndex(typeID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, typeID)
	}
	return unmarshal(p)
}

func (r *Registry) UnmarshalAuth(p *codec.Packer) (Auth, error) {
	typeID := p.UnpackByte()
	if err := p.Err(); err != nil {
		return nil, err
	}
	unmarshal, ok := r.auths.LookupIndex(typeID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAuth, typeID)
	}
	return unmarshal(p)
}
