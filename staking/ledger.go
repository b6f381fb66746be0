// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/vechain/creator-staking/staking/delta"
	"github.com/vechain/creator-staking/staking/reverts"
	"github.com/vechain/creator-staking/staking/stakestate"
	"github.com/vechain/creator-staking/thor"
)

// Stake locks amount of the staker towards a registered creator in the current round.
// It returns the increase of the total staked amount.
func (s *Staking) Stake(staker, creator thor.Address, amount *uint256.Int) (*delta.Stake, error) {
	if amount == nil {
		amount = new(uint256.Int)
	}
	logger.Debug("staking", "staker", staker, "creator", creator, "amount", amount)

	var d *delta.Stake
	err := s.atomic(func() error {
		t, err := s.computeStake(staker, creator, amount)
		if err != nil {
			return err
		}
		if err := s.applyLedgerTransition(t); err != nil {
			return err
		}
		d = t.delta
		return nil
	})
	if err != nil {
		logger.Info("stake failed", "staker", staker, "creator", creator, "error", err)
		metricLedgerOps().AddWithLabel(1, map[string]string{"op": "stake", "result": result(err)})
		return nil, err
	}

	metricLedgerOps().AddWithLabel(1, map[string]string{"op": "stake", "result": "ok"})
	logger.Info("staked", "staker", staker, "creator", creator, "amount", amount)
	return d, nil
}

func (s *Staking) computeStake(staker, creator thor.Address, amount *uint256.Int) (*ledgerTransition, error) {
	if amount.IsZero() || amount.Lt(s.params.MinStake) {
		return nil, reverts.ErrStakeTooLow
	}
	ok, err := s.custody.CanReserve(staker, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.ErrInsufficientBalance
	}
	creatorInfo, err := s.accountService.GetCreator(creator)
	if err != nil {
		return nil, err
	}
	if creatorInfo == nil {
		return nil, reverts.ErrCreatorDNE
	}
	current, err := s.roundService.Current()
	if err != nil {
		return nil, err
	}

	stakerInfo, err := s.accountService.GetOrNewStaker(staker)
	if err != nil {
		return nil, err
	}
	total, overflow := checkedAdd(stakerInfo.Total, amount)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	active, overflow := checkedAdd(stakerInfo.Active, amount)
	if overflow {
		return nil, reverts.ErrOverflow
	}

	pair := stakestate.Pair{Staker: staker, Creator: creator}
	ss, _, err := s.stakeStateService.GetOrNew(pair)
	if err != nil {
		return nil, err
	}
	// a position opens when it goes from zero to non-zero
	prev, _ := ss.Latest()
	opening := prev.IsZero()
	next := ss.Clone()
	if err := next.Stake(current.Index, amount); err != nil {
		return nil, err
	}

	stakersCount := creatorInfo.StakersCount
	if opening {
		if stakersCount == math.MaxUint32 {
			return nil, reverts.ErrOverflow
		}
		stakersCount++
	}
	staked, overflow := checkedAdd(creatorInfo.StakedAmount, amount)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	totalStaked, err := s.globalStatsService.TotalStaked()
	if err != nil {
		return nil, err
	}
	if _, overflow := checkedAdd(totalStaked, amount); overflow {
		return nil, reverts.ErrOverflow
	}

	stakerInfo.Total, stakerInfo.Active = total, active
	stakerInfo.AddCreator(creator)
	creatorInfo.StakedAmount, creatorInfo.StakersCount = staked, stakersCount

	return &ledgerTransition{
		pair:       pair,
		staker:     stakerInfo,
		creator:    creatorInfo,
		stakeState: next,
		delta:      delta.NewIncrease(amount),
		reserve:    amount.Clone(),
		event: &Event{
			Kind:    EventStaked,
			Round:   current.Index,
			Staker:  addr(staker),
			Creator: addr(creator),
			Amount:  amount.Clone(),
		},
	}, nil
}

// Unstake withdraws part of the staker position towards a creator. The remaining
// position must stay at or above the minimum stake; full exits use UnstakeAll.
// It returns the decrease of the total staked amount.
func (s *Staking) Unstake(staker, creator thor.Address, amount *uint256.Int) (*delta.Stake, error) {
	if amount == nil {
		amount = new(uint256.Int)
	}
	logger.Debug("unstaking", "staker", staker, "creator", creator, "amount", amount)

	var d *delta.Stake
	err := s.atomic(func() error {
		t, err := s.computeUnstake(staker, creator, amount, false)
		if err != nil {
			return err
		}
		if err := s.applyLedgerTransition(t); err != nil {
			return err
		}
		d = t.delta
		return nil
	})
	if err != nil {
		logger.Info("unstake failed", "staker", staker, "creator", creator, "error", err)
		metricLedgerOps().AddWithLabel(1, map[string]string{"op": "unstake", "result": result(err)})
		return nil, err
	}

	metricLedgerOps().AddWithLabel(1, map[string]string{"op": "unstake", "result": "ok"})
	logger.Info("unstaked", "staker", staker, "creator", creator, "amount", amount)
	return d, nil
}

// UnstakeAll withdraws the whole staker position towards a creator, regardless of
// the minimum stake. It returns the withdrawn amount.
func (s *Staking) UnstakeAll(staker, creator thor.Address) (*uint256.Int, error) {
	logger.Debug("unstaking all", "staker", staker, "creator", creator)

	var withdrawn *uint256.Int
	err := s.atomic(func() error {
		t, err := s.computeUnstake(staker, creator, nil, true)
		if err != nil {
			return err
		}
		if err := s.applyLedgerTransition(t); err != nil {
			return err
		}
		withdrawn = t.delta.Decrease.Clone()
		return nil
	})
	if err != nil {
		logger.Info("unstake all failed", "staker", staker, "creator", creator, "error", err)
		metricLedgerOps().AddWithLabel(1, map[string]string{"op": "unstake_all", "result": result(err)})
		return nil, err
	}

	metricLedgerOps().AddWithLabel(1, map[string]string{"op": "unstake_all", "result": "ok"})
	logger.Info("unstaked all", "staker", staker, "creator", creator, "amount", withdrawn)
	return withdrawn, nil
}

// computeUnstake validates a withdrawal. A nil amount with all set withdraws the whole position.
func (s *Staking) computeUnstake(staker, creator thor.Address, amount *uint256.Int, all bool) (*ledgerTransition, error) {
	if !all && amount.IsZero() {
		return nil, reverts.ErrUnstakingWithNoValue
	}
	stakerInfo, err := s.accountService.GetStaker(staker)
	if err != nil {
		return nil, err
	}
	if stakerInfo == nil {
		return nil, reverts.ErrStakerDNE
	}
	creatorInfo, err := s.accountService.GetCreator(creator)
	if err != nil {
		return nil, err
	}
	if creatorInfo == nil {
		return nil, reverts.ErrCreatorDNE
	}

	pair := stakestate.Pair{Staker: staker, Creator: creator}
	ss, err := s.stakeStateService.Get(pair)
	if err != nil {
		return nil, err
	}
	if ss == nil {
		return nil, reverts.ErrNotStakedForCreator
	}
	latest, ok := ss.Latest()
	if !ok {
		return nil, reverts.ErrNotStakedForCreator
	}

	stakersCount := creatorInfo.StakersCount
	next := ss.Clone()
	if all {
		if latest.IsZero() {
			return nil, reverts.ErrUnstakingWithNoValue
		}
		amount = latest
		if stakersCount == 0 {
			return nil, reverts.ErrUnderflow
		}
		stakersCount--
		// a full exit is never blocked by a full checkpoint queue
		next.WithLimits(s.params.MaxUnlockingChunks, stakestate.CollapseOldest)
	} else {
		if amount.Gt(latest) {
			return nil, reverts.ErrUnderflow
		}
		remaining := new(uint256.Int).Sub(latest, amount)
		if remaining.IsZero() || remaining.Lt(s.params.MinStake) {
			return nil, reverts.ErrRemainingStakeTooLow
		}
	}

	current, err := s.roundService.Current()
	if err != nil {
		return nil, err
	}
	if err := next.Unstake(current.Index, amount); err != nil {
		return nil, err
	}
	next.WithLimits(s.params.MaxUnlockingChunks, s.params.Compaction)

	total, underflow := checkedSub(stakerInfo.Total, amount)
	if underflow {
		return nil, reverts.ErrUnderflow
	}
	active, underflow := checkedSub(stakerInfo.Active, amount)
	if underflow {
		return nil, reverts.ErrUnderflow
	}
	staked, underflow := checkedSub(creatorInfo.StakedAmount, amount)
	if underflow {
		return nil, reverts.ErrUnderflow
	}
	totalStaked, err := s.globalStatsService.TotalStaked()
	if err != nil {
		return nil, err
	}
	if amount.Gt(totalStaked) {
		return nil, reverts.ErrUnderflow
	}

	stakerInfo.Total, stakerInfo.Active = total, active
	creatorInfo.StakedAmount, creatorInfo.StakersCount = staked, stakersCount

	return &ledgerTransition{
		pair:       pair,
		staker:     stakerInfo,
		creator:    creatorInfo,
		stakeState: next,
		delta:      delta.NewDecrease(amount),
		unreserve:  amount.Clone(),
		event: &Event{
			Kind:    EventUnstaked,
			Round:   current.Index,
			Staker:  addr(staker),
			Creator: addr(creator),
			Amount:  amount.Clone(),
		},
	}, nil
}

func result(err error) string {
	if reverts.IsRevertErr(err) {
		return "revert"
	}
	return "error"
}
