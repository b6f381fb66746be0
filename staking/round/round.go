// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package round

// Round is the current staking epoch.
type Round struct {
	Index      uint32
	FirstBlock uint32
	Length     uint32
}

// Genesis returns the round that is live before the first rollover.
func Genesis(length uint32) *Round {
	return &Round{Index: 1, FirstBlock: 0, Length: length}
}

// EndBlock returns the first block that belongs to the next round.
func (r *Round) EndBlock() uint64 {
	return uint64(r.FirstBlock) + uint64(r.Length)
}

// ShouldAdvance returns whether block is past the end of the round.
func (r *Round) ShouldAdvance(block uint32) bool {
	return uint64(block) >= r.EndBlock()
}

// Advance moves to the next round starting at block.
// Callers must check ShouldAdvance first.
func (r *Round) Advance(block uint32) {
	r.Index++
	r.FirstBlock = block
}
