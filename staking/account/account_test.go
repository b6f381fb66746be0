// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/creator-staking/lvldb"
	"github.com/vechain/creator-staking/slots"
	"github.com/vechain/creator-staking/state"
	"github.com/vechain/creator-staking/thor"
)

func newTestService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(slots.NewContext("staking", state.New(db)))
}

func TestStaker_Creators(t *testing.T) {
	st := NewStaker(thor.Address{1})
	st.AddCreator(thor.Address{5})
	st.AddCreator(thor.Address{2})
	st.AddCreator(thor.Address{5})
	st.AddCreator(thor.Address{9})

	assert.Equal(t, []thor.Address{{2}, {5}, {9}}, st.Creators)
	assert.True(t, st.HasCreator(thor.Address{5}))
	assert.False(t, st.HasCreator(thor.Address{3}))
}

func TestService_Creators(t *testing.T) {
	svc := newTestService(t)
	id := thor.Address{7}

	c, err := svc.GetCreator(id)
	require.NoError(t, err)
	assert.Nil(t, c)

	require.NoError(t, svc.SetCreator(NewCreator(id, uint256.NewInt(1000))))
	require.NoError(t, svc.SetCreator(NewCreator(thor.Address{3}, uint256.NewInt(1000))))

	c, err = svc.GetCreator(id)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, uint64(1000), c.Deposit.Uint64())
	assert.True(t, c.StakedAmount.IsZero())

	var ids []thor.Address
	require.NoError(t, svc.IterateCreators(func(c *Creator) (bool, error) {
		ids = append(ids, c.ID)
		return true, nil
	}))
	assert.Equal(t, []thor.Address{{3}, {7}}, ids)

	svc.DeleteCreator(id)
	c, err = svc.GetCreator(id)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestService_Stakers(t *testing.T) {
	svc := newTestService(t)
	id := thor.Address{1}

	st, err := svc.GetOrNewStaker(id)
	require.NoError(t, err)
	assert.True(t, st.Total.IsZero())

	existing, err := svc.GetStaker(id)
	require.NoError(t, err)
	assert.Nil(t, existing, "get-or-new must not persist")

	st.Total.SetUint64(100)
	st.Active.SetUint64(100)
	st.AddCreator(thor.Address{9})
	require.NoError(t, svc.SetStaker(st))

	// zero totals still exist
	st.Total.Clear()
	st.Active.Clear()
	require.NoError(t, svc.SetStaker(st))

	loaded, err := svc.GetStaker(id)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, loaded.Total.IsZero())
	assert.Equal(t, []thor.Address{{9}}, loaded.Creators)

	count := 0
	require.NoError(t, svc.IterateStakers(func(*Staker) (bool, error) {
		count++
		return true, nil
	}))
	assert.Equal(t, 1, count)
}
