// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakestate

import (
	"github.com/holiman/uint256"

	"github.com/vechain/creator-staking/staking/reverts"
)

// Checkpoint is the stake value of a pair as of a round.
type Checkpoint struct {
	Round uint32
	Value *uint256.Int
}

// StakeState is the bounded series of checkpoints of one (staker, creator) pair,
// ordered by strictly increasing round.
type StakeState struct {
	Checkpoints []Checkpoint
	Pruned      bool // older checkpoints were dropped by compaction

	capacity uint32
	policy   CompactionPolicy
}

// New creates an empty stake state holding at most capacity checkpoints.
// A zero capacity means unbounded. A nil policy falls back to CollapseOldest.
func New(capacity uint32, policy CompactionPolicy) *StakeState {
	return (&StakeState{}).WithLimits(capacity, policy)
}

// WithLimits binds the capacity and compaction policy, which are not persisted.
func (s *StakeState) WithLimits(capacity uint32, policy CompactionPolicy) *StakeState {
	if policy == nil {
		policy = CollapseOldest
	}
	s.capacity = capacity
	s.policy = policy
	return s
}

// Clone returns a deep copy.
func (s *StakeState) Clone() *StakeState {
	cpy := *s
	cpy.Checkpoints = make([]Checkpoint, len(s.Checkpoints))
	for i, cp := range s.Checkpoints {
		cpy.Checkpoints[i] = Checkpoint{Round: cp.Round, Value: cp.Value.Clone()}
	}
	return &cpy
}

// Len returns the number of checkpoints.
func (s *StakeState) Len() int {
	return len(s.Checkpoints)
}

// Latest returns the value of the most recent checkpoint.
// The second return value is false when no checkpoint exists.
func (s *StakeState) Latest() (*uint256.Int, bool) {
	if len(s.Checkpoints) == 0 {
		return new(uint256.Int), false
	}
	return s.Checkpoints[len(s.Checkpoints)-1].Value.Clone(), true
}

// ValueAt returns the value as of the given round.
func (s *StakeState) ValueAt(round uint32) (*uint256.Int, error) {
	for i := len(s.Checkpoints) - 1; i >= 0; i-- {
		if s.Checkpoints[i].Round <= round {
			return s.Checkpoints[i].Value.Clone(), nil
		}
	}
	if s.Pruned {
		return nil, reverts.ErrRoundNumberOutOfBounds
	}
	return new(uint256.Int), nil
}

// Stake adds amount at round.
func (s *StakeState) Stake(round uint32, amount *uint256.Int) error {
	return s.update(round, func(latest *uint256.Int) (*uint256.Int, error) {
		sum, overflow := new(uint256.Int).AddOverflow(latest, amount)
		if overflow {
			return nil, reverts.ErrOverflow
		}
		return sum, nil
	})
}

// Unstake subtracts amount at round.
func (s *StakeState) Unstake(round uint32, amount *uint256.Int) error {
	return s.update(round, func(latest *uint256.Int) (*uint256.Int, error) {
		if amount.Gt(latest) {
			return nil, reverts.ErrUnderflow
		}
		return new(uint256.Int).Sub(latest, amount), nil
	})
}

// update merges into the checkpoint of round if it is the latest, or appends a new one.
// The state is left untouched on error.
func (s *StakeState) update(round uint32, next func(latest *uint256.Int) (*uint256.Int, error)) error {
	n := len(s.Checkpoints)
	if n > 0 && round < s.Checkpoints[n-1].Round {
		return reverts.ErrRoundNumberOutOfBounds
	}

	latest, _ := s.Latest()
	value, err := next(latest)
	if err != nil {
		return err
	}

	if n > 0 && s.Checkpoints[n-1].Round == round {
		s.Checkpoints[n-1].Value = value
		return nil
	}

	if s.capacity > 0 && uint32(n) >= s.capacity {
		if err := s.policy(s); err != nil {
			return err
		}
	}
	s.Checkpoints = append(s.Checkpoints, Checkpoint{Round: round, Value: value})
	return nil
}
