// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/holiman/uint256"

	"github.com/vechain/creator-staking/thor"
)

// Request is the body of stake calls. Amount accepts a decimal or 0x-prefixed hex string.
type Request struct {
	Staker  *thor.Address `json:"staker"`
	Creator *thor.Address `json:"creator"`
	Amount  *uint256.Int  `json:"amount"`
}

// Delta is the change of the total staked amount made by a call.
type Delta struct {
	Increase *uint256.Int `json:"increase"`
	Decrease *uint256.Int `json:"decrease"`
}

type Withdrawal struct {
	Amount *uint256.Int `json:"amount"`
}
