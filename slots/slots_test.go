// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/creator-staking/lvldb"
	"github.com/vechain/creator-staking/staking/reverts"
	"github.com/vechain/creator-staking/state"
	"github.com/vechain/creator-staking/thor"
)

type record struct {
	Name  string
	Value *uint256.Int
}

func newContext(t *testing.T, namespace string) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(namespace, state.New(db))
}

func TestIndex(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 1, 2}, Index(258).Bytes())

	idx, ok := ParseIndex(Index(258).Bytes())
	assert.True(t, ok)
	assert.Equal(t, Index(258), idx)

	_, ok = ParseIndex([]byte{1, 2})
	assert.False(t, ok)
}

func TestMapping(t *testing.T) {
	ctx := newContext(t, "test")
	m := NewMapping[thor.Address, *record](ctx, "records")
	key := thor.BytesToAddress([]byte("key"))

	// absent keys decode to a fresh zero value
	r, err := m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "", r.Name)

	exists, err := m.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, m.Set(key, &record{Name: "a", Value: uint256.NewInt(7)}))
	r, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "a", r.Name)
	assert.Equal(t, uint64(7), r.Value.Uint64())

	m.Delete(key)
	exists, err = m.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMapping_Iterate(t *testing.T) {
	ctx := newContext(t, "test")
	m := NewMapping[Index, *uint256.Int](ctx, "values")
	other := NewMapping[Index, *uint256.Int](ctx, "values2")

	for _, i := range []Index{3, 1, 2} {
		require.NoError(t, m.Set(i, uint256.NewInt(uint64(i)*10)))
	}
	require.NoError(t, other.Set(1, uint256.NewInt(99)))
	m.Delete(2)

	var keys []Index
	var values []uint64
	err := m.Iterate(func(key []byte, v *uint256.Int) (bool, error) {
		idx, ok := ParseIndex(key)
		require.True(t, ok)
		keys = append(keys, idx)
		values = append(values, v.Uint64())
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []Index{1, 3}, keys)
	assert.Equal(t, []uint64{10, 30}, values)

	// stops when the callback returns false
	count := 0
	err = m.Iterate(func([]byte, *uint256.Int) (bool, error) {
		count++
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestValue(t *testing.T) {
	ctx := newContext(t, "test")
	v := NewValue[*record](ctx, "record")

	exists, err := v.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, v.Set(&record{Name: "b", Value: uint256.NewInt(1)}))
	r, err := v.Get()
	require.NoError(t, err)
	assert.Equal(t, "b", r.Name)

	// namespaces do not overlap
	other := NewValue[*record](NewContext("other", ctx.State()), "record")
	exists, err = other.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUint256(t *testing.T) {
	ctx := newContext(t, "test")
	v := NewUint256(ctx, "total")

	got, err := v.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	require.NoError(t, v.Add(uint256.NewInt(100)))
	require.NoError(t, v.Sub(uint256.NewInt(40)))
	got, err = v.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(60), got.Uint64())

	assert.ErrorIs(t, v.Sub(uint256.NewInt(61)), reverts.ErrUnderflow)
	assert.ErrorIs(t, v.Add(new(uint256.Int).SetAllOne()), reverts.ErrOverflow)

	got, err = v.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(60), got.Uint64(), "failed updates leave the value untouched")

	v.Set(new(uint256.Int))
	has, err := ctx.State().Has(ctx.position("total", nil))
	require.NoError(t, err)
	assert.False(t, has, "zero is stored as absent")
}
