// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

import (
	"github.com/holiman/uint256"

	"github.com/vechain/creator-staking/staking/account"
	"github.com/vechain/creator-staking/staking/stakestate"
	"github.com/vechain/creator-staking/thor"
)

type Staker struct {
	ID       thor.Address   `json:"id"`
	Total    *uint256.Int   `json:"total"`
	Active   *uint256.Int   `json:"active"`
	Creators []thor.Address `json:"creators"`
}

func convertStaker(st *account.Staker) *Staker {
	creators := st.Creators
	if creators == nil {
		creators = []thor.Address{}
	}
	return &Staker{
		ID:       st.ID,
		Total:    st.Total,
		Active:   st.Active,
		Creators: creators,
	}
}

type Checkpoint struct {
	Round uint32       `json:"round"`
	Value *uint256.Int `json:"value"`
}

// Stake is the position of a staker towards a creator. Amount is the stake as of
// the requested round, or the latest one.
type Stake struct {
	Staker      thor.Address  `json:"staker"`
	Creator     thor.Address  `json:"creator"`
	Round       *uint32       `json:"round,omitempty"`
	Amount      *uint256.Int  `json:"amount"`
	Checkpoints []*Checkpoint `json:"checkpoints"`
	Pruned      bool          `json:"pruned"`
}

func convertCheckpoints(ss *stakestate.StakeState) []*Checkpoint {
	checkpoints := make([]*Checkpoint, 0)
	if ss == nil {
		return checkpoints
	}
	for _, cp := range ss.Checkpoints {
		checkpoints = append(checkpoints, &Checkpoint{Round: cp.Round, Value: cp.Value})
	}
	return checkpoints
}
