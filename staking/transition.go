// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/creator-staking/staking/account"
	"github.com/vechain/creator-staking/staking/delta"
	"github.com/vechain/creator-staking/staking/stakestate"
)

//
// State transition types
//

// ledgerTransition holds every record a ledger operation writes. It is fully
// computed and validated before anything is applied.
type ledgerTransition struct {
	pair       stakestate.Pair
	staker     *account.Staker
	creator    *account.Creator
	stakeState *stakestate.StakeState
	delta      *delta.Stake
	reserve    *uint256.Int
	unreserve  *uint256.Int
	event      *Event
}

func (s *Staking) applyLedgerTransition(t *ledgerTransition) error {
	if t.reserve != nil {
		if err := s.custody.Reserve(t.pair.Staker, t.reserve); err != nil {
			return err
		}
	}
	if t.unreserve != nil {
		if err := s.custody.Unreserve(t.pair.Staker, t.unreserve); err != nil {
			return err
		}
	}
	if err := s.stakeStateService.Set(t.pair, t.stakeState); err != nil {
		return err
	}
	if err := s.accountService.SetStaker(t.staker); err != nil {
		return err
	}
	if err := s.accountService.SetCreator(t.creator); err != nil {
		return err
	}
	if err := s.globalStatsService.ApplyDelta(t.delta); err != nil {
		return err
	}
	s.emit(t.event)
	return nil
}

func checkedAdd(a, b *uint256.Int) (*uint256.Int, bool) {
	return new(uint256.Int).AddOverflow(a, b)
}

func checkedSub(a, b *uint256.Int) (*uint256.Int, bool) {
	return new(uint256.Int).SubOverflow(a, b)
}
