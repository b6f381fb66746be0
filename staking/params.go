// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/staking/stakestate"
)

// RewardSplit is the share of round inflation paid to each side, in percent.
// The split is configuration only; reward computation lives outside this module.
type RewardSplit struct {
	StakersPercent  uint8 `json:"stakersPercent" yaml:"stakers-percent"`
	CreatorsPercent uint8 `json:"creatorsPercent" yaml:"creators-percent"`
}

// Params are the staking constants.
type Params struct {
	MinStake            *uint256.Int
	RegistrationDeposit *uint256.Int
	MaxUnlockingChunks  uint32
	RoundLength         uint32
	Compaction          stakestate.CompactionPolicy
	RewardSplit         RewardSplit
}

// DefaultParams returns the params used when no configuration is given.
func DefaultParams() *Params {
	return &Params{
		MinStake:            uint256.NewInt(50),
		RegistrationDeposit: uint256.NewInt(1000),
		MaxUnlockingChunks:  32,
		RoundLength:         100,
		Compaction:          stakestate.CollapseOldest,
		RewardSplit:         RewardSplit{StakersPercent: 50, CreatorsPercent: 50},
	}
}

// Validate rejects inconsistent params.
func (p *Params) Validate() error {
	if p.MinStake == nil || p.RegistrationDeposit == nil {
		return errors.New("min stake and registration deposit must be set")
	}
	// positions only reach zero through UnstakeAll
	if p.MinStake.IsZero() {
		return errors.New("min stake must be positive")
	}
	if p.MaxUnlockingChunks == 0 {
		return errors.New("max unlocking chunks must be positive")
	}
	if p.RoundLength == 0 {
		return errors.New("round length must be positive")
	}
	if uint32(p.RewardSplit.StakersPercent)+uint32(p.RewardSplit.CreatorsPercent) != 100 {
		return errors.Errorf("reward split must sum to 100, got %d+%d",
			p.RewardSplit.StakersPercent, p.RewardSplit.CreatorsPercent)
	}
	return nil
}
