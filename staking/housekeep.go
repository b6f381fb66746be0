// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/staking/round"
)

// RoundTransition is a computed rollover.
type RoundTransition struct {
	Block    uint32
	Previous round.Round
	Next     round.Round
}

// Housekeep performs the round rollover once block reaches the end of the current round.
// The snapshot of the finished round and the advanced round are written together or not at all.
func (s *Staking) Housekeep(block uint32) (bool, error) {
	transition, err := s.computeRoundTransition(block)
	if err != nil {
		return false, err
	}
	if transition == nil {
		return false, nil
	}

	logger.Info("🏠performing housekeeping", "block", block, "round", transition.Previous.Index)

	var snapshot *uint256.Int
	err = s.atomic(func() error {
		snapshot, err = s.applyRoundTransition(transition)
		return err
	})
	if err != nil {
		logger.Error("housekeeping failed", "block", block, "error", err)
		metricHousekeeps().AddWithLabel(1, map[string]string{"result": "error"})
		return false, err
	}

	metricHousekeeps().AddWithLabel(1, map[string]string{"result": "advanced"})
	metricRound().Set(int64(transition.Next.Index))
	logger.Info("performed housekeeping", "block", block, "round", transition.Next.Index, "snapshot", snapshot)
	return true, nil
}

// computeRoundTransition returns nil when block is still inside the current round.
func (s *Staking) computeRoundTransition(block uint32) (*RoundTransition, error) {
	current, err := s.roundService.Current()
	if err != nil {
		return nil, err
	}
	if !current.ShouldAdvance(block) {
		return nil, nil
	}
	next := *current
	next.Advance(block)
	return &RoundTransition{Block: block, Previous: *current, Next: next}, nil
}

func (s *Staking) applyRoundTransition(t *RoundTransition) (*uint256.Int, error) {
	snapshot, err := s.globalStatsService.Snapshot(t.Previous.Index)
	if err != nil {
		return nil, errors.WithMessage(err, "snapshot total staked")
	}
	next := t.Next
	if err := s.roundService.Set(&next); err != nil {
		return nil, err
	}
	s.emit(&Event{Kind: EventNewRound, Round: next.Index, Block: next.FirstBlock})
	return snapshot, nil
}
