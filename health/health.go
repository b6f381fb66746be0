// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

type BlockIngestion struct {
	Block          uint32     `json:"block"`
	BlockTimestamp *time.Time `json:"blockTimestamp"`
}

type Status struct {
	Healthy        bool            `json:"healthy"`
	BlockIngestion *BlockIngestion `json:"blockIngestion"`
	ClockEnabled   bool            `json:"clockEnabled"`
}

// Health tracks whether the block clock keeps feeding housekeeping.
type Health struct {
	lock          sync.RWMutex
	blockInterval time.Duration
	newBlock      time.Time
	block         uint32
}

// New creates a tracker for a clock ticking every blockInterval. A zero interval
// means blocks are fed externally and the node is always considered healthy.
func New(blockInterval time.Duration) *Health {
	return &Health{
		blockInterval: blockInterval,
		newBlock:      time.Now(),
	}
}

func (h *Health) NewBlock(num uint32) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.newBlock = time.Now()
	h.block = num
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	ts := h.newBlock
	clockEnabled := h.blockInterval > 0
	// one missed tick is tolerated
	healthy := !clockEnabled || time.Since(h.newBlock) <= 2*h.blockInterval

	return &Status{
		Healthy: healthy,
		BlockIngestion: &BlockIngestion{
			Block:          h.block,
			BlockTimestamp: &ts,
		},
		ClockEnabled: clockEnabled,
	}
}
