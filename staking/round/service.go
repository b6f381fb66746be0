// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package round

import (
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/slots"
)

const slotRound = "round"

var errNoRound = errors.New("round not initialized")

// Service persists the single live round.
type Service struct {
	round *slots.Value[*Round]
}

func New(sctx *slots.Context) *Service {
	return &Service{round: slots.NewValue[*Round](sctx, slotRound)}
}

// Initialized returns whether a round has been stored.
func (s *Service) Initialized() (bool, error) {
	return s.round.Exists()
}

// Current returns the live round.
func (s *Service) Current() (*Round, error) {
	exists, err := s.round.Exists()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check round")
	}
	if !exists {
		return nil, errNoRound
	}
	r, err := s.round.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get round")
	}
	return r, nil
}

func (s *Service) Set(r *Round) error {
	if err := s.round.Set(r); err != nil {
		return errors.Wrap(err, "failed to set round")
	}
	return nil
}
