// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

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

func newLedger(t *testing.T) *Ledger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(state.New(db))
}

func balance(t *testing.T, l *Ledger, acc thor.Address) (uint64, uint64) {
	b, err := l.Balance(acc)
	require.NoError(t, err)
	return b.Free.Uint64(), b.Reserved.Uint64()
}

func TestLedger_ReserveUnreserve(t *testing.T) {
	l := newLedger(t)
	acc := thor.Address{1}

	ok, err := l.CanReserve(acc, uint256.NewInt(1))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, l.Reserve(acc, uint256.NewInt(1)), reverts.ErrInsufficientBalance)

	require.NoError(t, l.Deposit(acc, uint256.NewInt(100)))
	ok, err = l.CanReserve(acc, uint256.NewInt(100))
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, l.Reserve(acc, uint256.NewInt(70)))
	free, reserved := balance(t, l, acc)
	assert.Equal(t, uint64(30), free)
	assert.Equal(t, uint64(70), reserved)

	ok, err = l.CanReserve(acc, uint256.NewInt(31))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Unreserve(acc, uint256.NewInt(20)))
	free, reserved = balance(t, l, acc)
	assert.Equal(t, uint64(50), free)
	assert.Equal(t, uint64(50), reserved)

	// over-unreserve only releases what is reserved
	require.NoError(t, l.Unreserve(acc, uint256.NewInt(500)))
	free, reserved = balance(t, l, acc)
	assert.Equal(t, uint64(100), free)
	assert.Equal(t, uint64(0), reserved)
}

func TestLedger_DepositOverflow(t *testing.T) {
	l := newLedger(t)
	acc := thor.Address{2}
	require.NoError(t, l.Deposit(acc, new(uint256.Int).SetAllOne()))
	assert.ErrorIs(t, l.Deposit(acc, uint256.NewInt(1)), reverts.ErrOverflow)
}
