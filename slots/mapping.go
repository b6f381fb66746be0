// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Mapping is a key/value storage abstraction, similar to the mapping in Solidity.
// Values are RLP encoded. An absent key decodes to the zero value of V, or a
// freshly allocated value when V is a pointer type.
type Mapping[K Key, V any] struct {
	context *Context
	name    string
}

func NewMapping[K Key, V any](context *Context, name string) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, name: name}
}

func (m *Mapping[K, V]) position(key K) []byte {
	return m.context.position(m.name, key.Bytes())
}

func (m *Mapping[K, V]) prefix() []byte {
	return m.context.position(m.name, nil)
}

func newValue[V any]() (value V) {
	if t := reflect.TypeOf(value); t != nil && t.Kind() == reflect.Ptr {
		value = reflect.New(t.Elem()).Interface().(V)
	}
	return
}

func decode[V any](raw []byte) (V, error) {
	value := newValue[V]()
	if len(raw) == 0 {
		return value, nil
	}
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return value, errors.Wrap(err, "decode slot")
	}
	return value, nil
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.position(key), func(raw []byte) error {
		value, err = decode[V](raw)
		return err
	})
	return
}

// Exists returns whether a value is stored for key.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	return m.context.state.Has(m.position(key))
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.Delete(m.position(key))
}

// Iterate visits stored entries in ascending key order. The key passed to fn is the
// raw key bytes as produced by K.Bytes.
func (m *Mapping[K, V]) Iterate(fn func(key []byte, value V) (bool, error)) error {
	prefix := m.prefix()
	return m.context.state.Iterate(prefix, func(k, raw []byte) (bool, error) {
		value, err := decode[V](raw)
		if err != nil {
			return false, err
		}
		return fn(k[len(prefix):], value)
	})
}
