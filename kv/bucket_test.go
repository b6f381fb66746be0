// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"bytes"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("not found")

type mem map[string]string

func (m mem) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return []byte(v), nil
	}
	return nil, errNotFound
}

func (m mem) Has(k []byte) (bool, error) {
	_, ok := m[string(k)]
	return ok, nil
}

func (m mem) Put(k, v []byte) error {
	m[string(k)] = string(v)
	return nil
}

func (m mem) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}

func (m mem) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

func (m mem) NewBatch() Batch {
	return &memBatch{m: m}
}

func (m mem) Iterate(r Range) Iterator {
	var keys []string
	for k := range m {
		kb := []byte(k)
		if bytes.Compare(kb, r.Start) >= 0 && (len(r.Limit) == 0 || bytes.Compare(kb, r.Limit) < 0) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return &memIter{m: m, keys: keys, pos: -1}
}

type memBatch struct {
	m   mem
	ops []func()
}

func (b *memBatch) Put(k, v []byte) error {
	b.ops = append(b.ops, func() { b.m[string(k)] = string(v) })
	return nil
}

func (b *memBatch) Delete(k []byte) error {
	b.ops = append(b.ops, func() { delete(b.m, string(k)) })
	return nil
}

func (b *memBatch) Len() int { return len(b.ops) }

func (b *memBatch) Write() error {
	for _, op := range b.ops {
		op()
	}
	return nil
}

type memIter struct {
	m    mem
	keys []string
	pos  int
}

func (i *memIter) Next() bool {
	i.pos++
	return i.pos < len(i.keys)
}

func (i *memIter) Release()      {}
func (i *memIter) Error() error  { return nil }
func (i *memIter) Key() []byte   { return []byte(i.keys[i.pos]) }
func (i *memIter) Value() []byte { return []byte(i.m[i.keys[i.pos]]) }

func TestBucket_Get(t *testing.T) {
	m := mem{"k1": "v1", "k2": "v2"}

	tests := []struct {
		b    Bucket
		key  string
		want string
	}{
		{Bucket(""), "k1", "v1"},
		{Bucket("k"), "1", "v1"},
		{Bucket("k"), "2", "v2"},
		{Bucket("k1"), "", "v1"},
	}
	for _, tt := range tests {
		got, err := tt.b.NewStore(m).Get([]byte(tt.key))
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(got))
	}

	_, err := Bucket("x").NewStore(m).Get([]byte("1"))
	assert.True(t, Bucket("x").NewStore(m).IsNotFound(err))
}

func TestBucket_PutDelete(t *testing.T) {
	m := mem{}
	store := Bucket("state.").NewStore(m)

	require.NoError(t, store.Put([]byte("a"), []byte("1")))
	assert.Equal(t, "1", m["state.a"])

	has, err := store.Has([]byte("a"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, store.Delete([]byte("a")))
	assert.Empty(t, m)
}

func TestBucket_Batch(t *testing.T) {
	m := mem{}
	batch := Bucket("b.").NewStore(m).NewBatch()

	require.NoError(t, batch.Put([]byte("x"), []byte("1")))
	require.NoError(t, batch.Put([]byte("y"), []byte("2")))
	assert.Equal(t, 2, batch.Len())
	assert.Empty(t, m, "nothing written before Write")

	require.NoError(t, batch.Write())
	assert.Equal(t, mem{"b.x": "1", "b.y": "2"}, m)
}

func TestBucket_Iterate(t *testing.T) {
	m := mem{"a.1": "x", "a.2": "y", "b.1": "z"}
	store := Bucket("a.").NewStore(m)

	iter := store.Iterate(Range{})
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"1", "2"}, keys)
}

func TestPrefixRange(t *testing.T) {
	r := PrefixRange([]byte("ab"))
	assert.Equal(t, []byte("ab"), r.Start)
	assert.Equal(t, []byte("ac"), r.Limit)
}
