// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/log"
	"github.com/vechain/creator-staking/slots"
	"github.com/vechain/creator-staking/staking/account"
	"github.com/vechain/creator-staking/staking/globalstats"
	"github.com/vechain/creator-staking/staking/reverts"
	"github.com/vechain/creator-staking/staking/round"
	"github.com/vechain/creator-staking/staking/stakestate"
	"github.com/vechain/creator-staking/state"
	"github.com/vechain/creator-staking/thor"
)

const namespace = "staking"

var logger = log.WithContext("pkg", "staking")

func SetLogger(l log.Logger) {
	logger = l
}

// Staking is the creator staking engine over a state.
// It is not safe for concurrent use; callers serialize all operations.
type Staking struct {
	state   *state.State
	params  *Params
	custody Custody

	accountService     *account.Service
	stakeStateService  *stakestate.Service
	roundService       *round.Service
	globalStatsService *globalstats.Service

	events []*Event
}

// New create a new instance.
func New(st *state.State, params *Params, custody Custody) *Staking {
	sctx := slots.NewContext(namespace, st)

	return &Staking{
		state:   st,
		params:  params,
		custody: custody,

		accountService:     account.New(sctx),
		stakeStateService:  stakestate.NewService(sctx, params.MaxUnlockingChunks, params.Compaction),
		roundService:       round.New(sctx),
		globalStatsService: globalstats.New(sctx),
	}
}

// Params returns the staking params.
func (s *Staking) Params() *Params {
	return s.params
}

// Initialize stores the genesis round if none exists yet.
func (s *Staking) Initialize() error {
	ok, err := s.roundService.Initialized()
	if err != nil {
		return err
	}
	if ok {
		current, err := s.roundService.Current()
		if err != nil {
			return err
		}
		if current.Length != s.params.RoundLength {
			logger.Warn("configured round length ignored, keeping stored round", "stored", current.Length, "configured", s.params.RoundLength)
		}
		return nil
	}
	genesis := round.Genesis(s.params.RoundLength)
	if err := s.roundService.Set(genesis); err != nil {
		return err
	}
	logger.Info("initialized staking", "round", genesis.Index, "length", genesis.Length)
	return nil
}

// Events returns the events emitted by the successful operations so far.
func (s *Staking) Events() []*Event {
	return append([]*Event(nil), s.events...)
}

// atomic runs fn inside a state checkpoint. On error every write and event of fn is discarded.
func (s *Staking) atomic(fn func() error) error {
	checkpoint := s.state.NewCheckpoint()
	emitted := len(s.events)
	if err := fn(); err != nil {
		s.state.RevertTo(checkpoint)
		s.events = s.events[:emitted]
		return err
	}
	return nil
}

func (s *Staking) emit(ev *Event) {
	s.events = append(s.events, ev)
}

//
// Getters - no state change
//

// CurrentRound returns the live round.
func (s *Staking) CurrentRound() (*round.Round, error) {
	return s.roundService.Current()
}

// TotalStaked returns the amount staked across all creators.
func (s *Staking) TotalStaked() (*uint256.Int, error) {
	return s.globalStatsService.TotalStaked()
}

// Creator returns a registered creator, or nil.
func (s *Staking) Creator(id thor.Address) (*account.Creator, error) {
	return s.accountService.GetCreator(id)
}

// IsCreator returns whether id is a registered creator.
func (s *Staking) IsCreator(id thor.Address) (bool, error) {
	c, err := s.accountService.GetCreator(id)
	return c != nil, err
}

// Creators lists registered creators in id order.
func (s *Staking) Creators() ([]*account.Creator, error) {
	var creators []*account.Creator
	err := s.accountService.IterateCreators(func(c *account.Creator) (bool, error) {
		creators = append(creators, c)
		return true, nil
	})
	return creators, err
}

// Staker returns a staker record, or nil if the account never staked.
func (s *Staking) Staker(id thor.Address) (*account.Staker, error) {
	return s.accountService.GetStaker(id)
}

// StakerExists returns whether the account ever staked. It stays true after a full withdrawal.
func (s *Staking) StakerExists(id thor.Address) (bool, error) {
	st, err := s.accountService.GetStaker(id)
	return st != nil, err
}

// StakeState returns the stake state of a pair, or nil.
func (s *Staking) StakeState(staker, creator thor.Address) (*stakestate.StakeState, error) {
	return s.stakeStateService.Get(stakestate.Pair{Staker: staker, Creator: creator})
}

// StakeAt returns the stake of a pair as of round, which must not be after the current round.
func (s *Staking) StakeAt(staker, creator thor.Address, roundIndex uint32) (*uint256.Int, error) {
	current, err := s.roundService.Current()
	if err != nil {
		return nil, err
	}
	if roundIndex > current.Index {
		return nil, reverts.ErrRoundNumberOutOfBounds
	}
	ss, err := s.StakeState(staker, creator)
	if err != nil {
		return nil, err
	}
	if ss == nil {
		return new(uint256.Int), nil
	}
	return ss.ValueAt(roundIndex)
}

// StakedAt returns the total staked snapshot of a finished round.
func (s *Staking) StakedAt(roundIndex uint32) (*uint256.Int, error) {
	v, ok, err := s.globalStatsService.StakedAt(roundIndex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get round snapshot")
	}
	if !ok {
		return nil, reverts.ErrRoundNumberOutOfBounds
	}
	return v, nil
}
