// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delta

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestStake(t *testing.T) {
	amount := uint256.NewInt(100)
	inc := NewIncrease(amount)
	amount.SetUint64(1)

	assert.Equal(t, uint64(100), inc.Increase.Uint64(), "delta must not alias the input")
	assert.True(t, inc.Decrease.IsZero())
	assert.False(t, inc.IsZero())

	inc.Add(NewDecrease(uint256.NewInt(40))).Add(nil)
	assert.Equal(t, uint64(100), inc.Increase.Uint64())
	assert.Equal(t, uint64(40), inc.Decrease.Uint64())

	var empty *Stake
	assert.True(t, empty.IsZero())
	assert.True(t, NewIncrease(new(uint256.Int)).IsZero())
}
