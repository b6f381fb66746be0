// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delta

import "github.com/holiman/uint256"

// Stake is the signed change a ledger operation makes to the total staked amount.
// Exactly one side is non-zero for a single operation.
type Stake struct {
	Increase *uint256.Int
	Decrease *uint256.Int
}

// NewIncrease returns a positive delta of amount.
func NewIncrease(amount *uint256.Int) *Stake {
	return &Stake{Increase: amount.Clone(), Decrease: new(uint256.Int)}
}

// NewDecrease returns a negative delta of amount.
func NewDecrease(amount *uint256.Int) *Stake {
	return &Stake{Increase: new(uint256.Int), Decrease: amount.Clone()}
}

// Add sets s to the sum of itself and other. Sides are accumulated independently.
func (s *Stake) Add(other *Stake) *Stake {
	if other == nil {
		return s
	}
	s.Increase = new(uint256.Int).Add(s.Increase, other.Increase)
	s.Decrease = new(uint256.Int).Add(s.Decrease, other.Decrease)
	return s
}

// IsZero reports whether the delta changes nothing.
func (s *Stake) IsZero() bool {
	return s == nil || (s.Increase.IsZero() && s.Decrease.IsZero())
}
