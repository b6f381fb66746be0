// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/creator-staking/thor"
)

type EventKind string

const (
	EventCreatorRegistered   EventKind = "CreatorRegistered"
	EventCreatorUnregistered EventKind = "CreatorUnregistered"
	EventNewRound            EventKind = "NewRound"
	EventStaked              EventKind = "Staked"
	EventUnstaked            EventKind = "Unstaked"
)

// Event notifies observers of a committed change. Fields not relevant to the
// kind are left zero.
type Event struct {
	Kind    EventKind     `json:"kind"`
	Round   uint32        `json:"round"`
	Block   uint32        `json:"block,omitempty"` // starting block of a new round
	Creator *thor.Address `json:"creator,omitempty"`
	Staker  *thor.Address `json:"staker,omitempty"`
	Amount  *uint256.Int  `json:"amount,omitempty"`
}

func addr(a thor.Address) *thor.Address {
	return &a
}
