// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/slots"
	"github.com/vechain/creator-staking/staking/delta"
	"github.com/vechain/creator-staking/staking/reverts"
)

const (
	slotTotalStaked    = "total-staked"
	slotStakedPerRound = "staked-per-round"
)

// Service manages the staking-wide totals.
// TotalStaked is only changed through deltas returned by the ledger.
type Service struct {
	totalStaked    *slots.Uint256
	stakedPerRound *slots.Mapping[slots.Index, *uint256.Int]
}

func New(sctx *slots.Context) *Service {
	return &Service{
		totalStaked:    slots.NewUint256(sctx, slotTotalStaked),
		stakedPerRound: slots.NewMapping[slots.Index, *uint256.Int](sctx, slotStakedPerRound),
	}
}

// TotalStaked returns the amount currently staked across all creators.
func (s *Service) TotalStaked() (*uint256.Int, error) {
	return s.totalStaked.Get()
}

// ApplyDelta adjusts the total by a ledger delta.
func (s *Service) ApplyDelta(d *delta.Stake) error {
	if d.IsZero() {
		return nil
	}
	total, err := s.totalStaked.Get()
	if err != nil {
		return err
	}
	next, overflow := new(uint256.Int).AddOverflow(total, d.Increase)
	if overflow {
		return reverts.ErrOverflow
	}
	if d.Decrease.Gt(next) {
		return reverts.ErrUnderflow
	}
	s.totalStaked.Set(next.Sub(next, d.Decrease))
	return nil
}

// StakedAt returns the snapshot of round. The second return value is false if none was taken.
func (s *Service) StakedAt(round uint32) (*uint256.Int, bool, error) {
	exists, err := s.stakedPerRound.Exists(slots.Index(round))
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return new(uint256.Int), false, nil
	}
	v, err := s.stakedPerRound.Get(slots.Index(round))
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Snapshot records the current total as the staked amount of round.
// A round snapshot is written once.
func (s *Service) Snapshot(round uint32) (*uint256.Int, error) {
	exists, err := s.stakedPerRound.Exists(slots.Index(round))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.WithMessagef(reverts.ErrSnapshotExists, "round %d", round)
	}
	total, err := s.totalStaked.Get()
	if err != nil {
		return nil, err
	}
	if err := s.stakedPerRound.Set(slots.Index(round), total); err != nil {
		return nil, err
	}
	return total, nil
}

// IterateSnapshots visits round snapshots in round order.
func (s *Service) IterateSnapshots(fn func(round uint32, staked *uint256.Int) (bool, error)) error {
	return s.stakedPerRound.Iterate(func(key []byte, staked *uint256.Int) (bool, error) {
		round, ok := slots.ParseIndex(key)
		if !ok {
			return false, errors.Errorf("malformed round key %x", key)
		}
		return fn(uint32(round), staked)
	})
}
