// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/creator-staking/lvldb"
	"github.com/vechain/creator-staking/slots"
	"github.com/vechain/creator-staking/staking/reverts"
	"github.com/vechain/creator-staking/state"
	"github.com/vechain/creator-staking/thor"
)

func newTestService(t *testing.T, capacity uint32, policy CompactionPolicy) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(slots.NewContext("staking", state.New(db)), capacity, policy)
}

func TestService_GetSet(t *testing.T) {
	svc := newTestService(t, 2, RejectWhenFull)
	pair := Pair{Staker: thor.Address{1}, Creator: thor.Address{2}}

	st, err := svc.Get(pair)
	require.NoError(t, err)
	assert.Nil(t, st)

	st, created, err := svc.GetOrNew(pair)
	require.NoError(t, err)
	assert.True(t, created)
	require.NoError(t, st.Stake(1, u(10)))
	require.NoError(t, svc.Set(pair, st))

	st, created, err = svc.GetOrNew(pair)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint64(10), latest(t, st))

	// limits are rebound after decoding
	require.NoError(t, st.Stake(2, u(1)))
	assert.ErrorIs(t, st.Stake(3, u(1)), reverts.ErrTooManyChunks)
}

func TestService_Iterate(t *testing.T) {
	svc := newTestService(t, 4, nil)
	pairs := []Pair{
		{Staker: thor.Address{2}, Creator: thor.Address{1}},
		{Staker: thor.Address{1}, Creator: thor.Address{9}},
		{Staker: thor.Address{1}, Creator: thor.Address{3}},
	}
	for i, pair := range pairs {
		st := New(4, nil)
		require.NoError(t, st.Stake(1, u(uint64(i+1))))
		require.NoError(t, svc.Set(pair, st))
	}

	var visited []Pair
	require.NoError(t, svc.Iterate(func(pair Pair, st *StakeState) (bool, error) {
		visited = append(visited, pair)
		return true, nil
	}))
	assert.Equal(t, []Pair{pairs[2], pairs[1], pairs[0]}, visited)
}

func TestParsePair(t *testing.T) {
	pair := Pair{Staker: thor.Address{1, 2}, Creator: thor.Address{3, 4}}
	parsed, ok := ParsePair(pair.Bytes())
	assert.True(t, ok)
	assert.Equal(t, pair, parsed)

	_, ok = ParsePair([]byte{1})
	assert.False(t, ok)
}
