// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealth_NewBlock(t *testing.T) {
	h := New(time.Second)
	h.NewBlock(7)

	status := h.Status()
	assert.True(t, status.Healthy)
	assert.True(t, status.ClockEnabled)
	assert.Equal(t, uint32(7), status.BlockIngestion.Block)
	assert.WithinDuration(t, time.Now(), *status.BlockIngestion.BlockTimestamp, time.Second)
}

func TestHealth_Stalled(t *testing.T) {
	h := New(time.Millisecond)
	h.newBlock = time.Now().Add(-time.Second)

	assert.False(t, h.Status().Healthy)

	h.NewBlock(1)
	h.blockInterval = time.Hour
	assert.True(t, h.Status().Healthy)
}

func TestHealth_ClockDisabled(t *testing.T) {
	h := New(0)
	h.newBlock = time.Now().Add(-time.Hour)

	status := h.Status()
	assert.True(t, status.Healthy)
	assert.False(t, status.ClockEnabled)
}
