// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakestate

import (
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/slots"
	"github.com/vechain/creator-staking/thor"
)

const slotStakeStates = "stake-states"

// Pair identifies the stake state of a staker towards a creator.
// Keys are staker first so that all positions of a staker are contiguous.
type Pair struct {
	Staker  thor.Address
	Creator thor.Address
}

func (p Pair) Bytes() []byte {
	b := make([]byte, 0, thor.AddressLength*2)
	b = append(b, p.Staker.Bytes()...)
	return append(b, p.Creator.Bytes()...)
}

// ParsePair decodes a key produced by Pair.Bytes.
func ParsePair(b []byte) (Pair, bool) {
	if len(b) != thor.AddressLength*2 {
		return Pair{}, false
	}
	return Pair{
		Staker:  thor.BytesToAddress(b[:thor.AddressLength]),
		Creator: thor.BytesToAddress(b[thor.AddressLength:]),
	}, true
}

// Service persists stake states keyed by pair.
type Service struct {
	states   *slots.Mapping[Pair, *StakeState]
	capacity uint32
	policy   CompactionPolicy
}

func NewService(sctx *slots.Context, capacity uint32, policy CompactionPolicy) *Service {
	return &Service{
		states:   slots.NewMapping[Pair, *StakeState](sctx, slotStakeStates),
		capacity: capacity,
		policy:   policy,
	}
}

// Get returns the stake state of the pair, or nil if it was never created.
func (s *Service) Get(pair Pair) (*StakeState, error) {
	exists, err := s.states.Exists(pair)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check stake state")
	}
	if !exists {
		return nil, nil
	}
	state, err := s.states.Get(pair)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake state")
	}
	return state.WithLimits(s.capacity, s.policy), nil
}

// GetOrNew returns the stake state of the pair, or a new empty one.
// The second return value reports whether the state was newly created.
func (s *Service) GetOrNew(pair Pair) (*StakeState, bool, error) {
	state, err := s.Get(pair)
	if err != nil {
		return nil, false, err
	}
	if state == nil {
		return New(s.capacity, s.policy), true, nil
	}
	return state, false, nil
}

func (s *Service) Set(pair Pair, state *StakeState) error {
	if err := s.states.Set(pair, state); err != nil {
		return errors.Wrap(err, "failed to set stake state")
	}
	return nil
}

// Iterate visits every stored stake state in key order.
func (s *Service) Iterate(fn func(pair Pair, state *StakeState) (bool, error)) error {
	return s.states.Iterate(func(key []byte, state *StakeState) (bool, error) {
		pair, ok := ParsePair(key)
		if !ok {
			return false, errors.Errorf("malformed stake state key %x", key)
		}
		return fn(pair, state.WithLimits(s.capacity, s.policy))
	})
}
