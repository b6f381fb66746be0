// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/slots"
	"github.com/vechain/creator-staking/thor"
)

const (
	slotCreators = "creators"
	slotStakers  = "stakers"
)

// Service persists creator and staker records.
type Service struct {
	creators *slots.Mapping[thor.Address, *Creator]
	stakers  *slots.Mapping[thor.Address, *Staker]
}

func New(sctx *slots.Context) *Service {
	return &Service{
		creators: slots.NewMapping[thor.Address, *Creator](sctx, slotCreators),
		stakers:  slots.NewMapping[thor.Address, *Staker](sctx, slotStakers),
	}
}

// GetCreator returns the creator record, or nil if not registered.
func (s *Service) GetCreator(id thor.Address) (*Creator, error) {
	exists, err := s.creators.Exists(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check creator")
	}
	if !exists {
		return nil, nil
	}
	c, err := s.creators.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get creator")
	}
	return c, nil
}

func (s *Service) SetCreator(c *Creator) error {
	if err := s.creators.Set(c.ID, c); err != nil {
		return errors.Wrap(err, "failed to set creator")
	}
	return nil
}

func (s *Service) DeleteCreator(id thor.Address) {
	s.creators.Delete(id)
}

// GetStaker returns the staker record, or nil if the account never staked.
func (s *Service) GetStaker(id thor.Address) (*Staker, error) {
	exists, err := s.stakers.Exists(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check staker")
	}
	if !exists {
		return nil, nil
	}
	st, err := s.stakers.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staker")
	}
	return st, nil
}

// GetOrNewStaker returns the staker record, or an empty one for a new staker.
func (s *Service) GetOrNewStaker(id thor.Address) (*Staker, error) {
	st, err := s.GetStaker(id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return NewStaker(id), nil
	}
	return st, nil
}

func (s *Service) SetStaker(st *Staker) error {
	if err := s.stakers.Set(st.ID, st); err != nil {
		return errors.Wrap(err, "failed to set staker")
	}
	return nil
}

// IterateCreators visits registered creators in id order.
func (s *Service) IterateCreators(fn func(c *Creator) (bool, error)) error {
	return s.creators.Iterate(func(_ []byte, c *Creator) (bool, error) {
		return fn(c)
	})
}

// IterateStakers visits stakers in id order.
func (s *Service) IterateStakers(fn func(st *Staker) (bool, error)) error {
	return s.stakers.Iterate(func(_ []byte, st *Staker) (bool, error) {
		return fn(st)
	})
}
