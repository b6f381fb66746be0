// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package creators

import (
	"github.com/holiman/uint256"

	"github.com/vechain/creator-staking/staking/account"
	"github.com/vechain/creator-staking/thor"
)

type Creator struct {
	ID           thor.Address `json:"id"`
	Deposit      *uint256.Int `json:"deposit"`
	StakedAmount *uint256.Int `json:"stakedAmount"`
	StakersCount uint32       `json:"stakersCount"`
}

func convertCreator(c *account.Creator) *Creator {
	return &Creator{
		ID:           c.ID,
		Deposit:      c.Deposit,
		StakedAmount: c.StakedAmount,
		StakersCount: c.StakersCount,
	}
}

// Request is the body of registration calls.
type Request struct {
	Creator *thor.Address `json:"creator"`
}
