// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/keys"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/utils"
)

const digestInitialSize = 128

type Transaction struct {
	// Nonce distinguishes otherwise identical transactions from the same
	// actor.
	Nonce uint64 `json:"nonce"`

	Action Action `json:"action"`
	Auth   Auth   `json:"auth"`

	digest []byte
	bytes  []byte
	id     ids.ID
}

func NewTx(nonce uint64, action Action) *Transaction {
	return &Transaction{
		Nonce:  nonce,
		Action: action,
	}
}

// Digest is the message signed by [Auth].
func (t *Transaction) Digest() ([]byte, error) {
	if len(t.digest) > 0 {
		return t.digest, nil
	}
	p := codec.NewWriter(digestInitialSize, consts.NetworkSizeLimit)
	p.PackUint64(t.Nonce)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
	return p.Bytes(), p.Err()
}

func (t *Transaction) Sign(factory AuthFactory, registry *Registry) (*Transaction, error) {
	msg, err := t.Digest()
	if err != nil {
		return nil, err
	}
	auth, err := factory.Sign(msg)
	if err != nil {
		return nil, err
	}
	t.Auth = auth

	// Ensure transaction is fully initialized and correct by reloading it from
	// bytes
	size := len(msg) + consts.ByteLen + t.Auth.Size()
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	if err := t.Marshal(p); err != nil {
		return nil, err
	}
	return ParseTx(p.Bytes(), registry)
}

func (t *Transaction) Marshal(p *codec.Packer) error {
	if t.Auth == nil {
		return ErrMissingAuth
	}
	if len(t.bytes) > 0 {
		p.PackFixedBytes(t.bytes)
		return p.Err()
	}
	digest, err := t.Digest()
	if err != nil {
		return err
	}
	p.PackFixedBytes(digest)
	p.PackByte(t.Auth.GetTypeID())
	t.Auth.Marshal(p)
	return p.Err()
}

func (t *Transaction) Bytes() []byte { return t.bytes }

func (t *Transaction) Size() int { return len(t.bytes) }

func (t *Transaction) ID() ids.ID { return t.id }

// StateKeys returns every key the transaction may touch, including the key
// recording that it was accepted.
func (t *Transaction) StateKeys(r Rules) (state.Keys, error) {
	if t.Auth == nil {
		return nil, ErrMissingAuth
	}
	actionKeys, err := t.Action.StateKeys(r, t.Auth.Actor())
	if err != nil {
		return nil, err
	}
	stateKeys := make(state.Keys, len(actionKeys)+1)
	for k, v := range actionKeys {
		if !keys.Valid([]byte(k)) {
			return nil, ErrInvalidKeyValue
		}
		// [Add] will take the union of key permissions
		stateKeys.Add(k, v)
	}
	stateKeys.Add(string(storage.TxKey(t.id)), state.All)
	return stateKeys, nil
}

func UnmarshalTx(p *codec.Packer, registry *Registry) (*Transaction, error) {
	start := p.Offset()
	var tx Transaction
	tx.Nonce = p.UnpackUint64(false)
	action, err := registry.UnmarshalAction(p)
	if err != nil {
		return nil, err
	}
	tx.Action = action
	digestEnd := p.Offset()
	auth, err := registry.UnmarshalAuth(p)
	if err != nil {
		return nil, err
	}
	tx.Auth = auth
	if err := p.Err(); err != nil {
		return nil, err
	}
	codecBytes := p.Bytes()
	tx.digest = codecBytes[start:digestEnd]
	tx.bytes = codecBytes[start:p.Offset()]
	tx.id = utils.ToID(tx.bytes)
	return &tx, nil
}

// ParseTx decodes a signed transaction occupying all of [b].
func ParseTx(b []byte, registry *Registry) (*Transaction, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	tx, err := UnmarshalTx(p, registry)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	return tx, nil
}
