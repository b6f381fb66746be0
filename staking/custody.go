// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/creator-staking/thor"
)

// Custody holds the spendable funds of accounts. Stake and registration deposits
// are reserved while locked and unreserved on withdrawal.
type Custody interface {
	CanReserve(account thor.Address, amount *uint256.Int) (bool, error)
	Reserve(account thor.Address, amount *uint256.Int) error
	Unreserve(account thor.Address, amount *uint256.Int) error
}
