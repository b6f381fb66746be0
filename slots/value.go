// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import "github.com/ethereum/go-ethereum/rlp"

// Value is a single RLP encoded storage slot.
type Value[V any] struct {
	context *Context
	pos     []byte
}

func NewValue[V any](context *Context, name string) *Value[V] {
	return &Value[V]{context: context, pos: context.position(name, nil)}
}

func (v *Value[V]) Get() (value V, err error) {
	err = v.context.state.DecodeStorage(v.pos, func(raw []byte) error {
		value, err = decode[V](raw)
		return err
	})
	return
}

func (v *Value[V]) Exists() (bool, error) {
	return v.context.state.Has(v.pos)
}

func (v *Value[V]) Set(value V) error {
	return v.context.state.EncodeStorage(v.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
