// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"slices"

	"github.com/holiman/uint256"

	"github.com/vechain/creator-staking/thor"
)

// Creator is a registered account that receives stake.
type Creator struct {
	ID           thor.Address
	Deposit      *uint256.Int // registration deposit reserved by custody
	StakedAmount *uint256.Int // sum of the latest stake of every staker
	StakersCount uint32       // stakers with a non-zero position
}

// NewCreator returns a freshly registered creator with no stake.
func NewCreator(id thor.Address, deposit *uint256.Int) *Creator {
	return &Creator{
		ID:           id,
		Deposit:      deposit.Clone(),
		StakedAmount: new(uint256.Int),
	}
}

// Staker is the aggregate record of an account that stakes. It is never deleted.
type Staker struct {
	ID       thor.Address
	Total    *uint256.Int
	Active   *uint256.Int
	Creators []thor.Address // creators the staker holds a stake state for, sorted
}

// NewStaker returns an empty staker record.
func NewStaker(id thor.Address) *Staker {
	return &Staker{
		ID:     id,
		Total:  new(uint256.Int),
		Active: new(uint256.Int),
	}
}

// HasCreator returns whether the staker holds a stake state for the creator.
func (s *Staker) HasCreator(creator thor.Address) bool {
	_, found := slices.BinarySearchFunc(s.Creators, creator, thor.Address.Compare)
	return found
}

// AddCreator records the creator, keeping the list sorted and unique.
func (s *Staker) AddCreator(creator thor.Address) {
	i, found := slices.BinarySearchFunc(s.Creators, creator, thor.Address.Compare)
	if found {
		return
	}
	s.Creators = slices.Insert(s.Creators, i, creator)
}
