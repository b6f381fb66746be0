// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/api/utils"
	"github.com/vechain/creator-staking/custody"
	"github.com/vechain/creator-staking/node"
	"github.com/vechain/creator-staking/staking"
)

type Stakers struct {
	node *node.Node
}

func New(n *node.Node) *Stakers {
	return &Stakers{n}
}

func (s *Stakers) handleGetStaker(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.AddressVar(req, "id")
	if err != nil {
		return err
	}
	var result *Staker
	err = s.node.View(func(st *staking.Staking, _ *custody.Ledger) error {
		staker, err := st.Staker(id)
		if err != nil {
			return err
		}
		if staker != nil {
			result = convertStaker(staker)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if result == nil {
		return utils.NotFound(errors.New("staker does not exist"))
	}
	return utils.WriteJSON(w, result)
}

func (s *Stakers) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.AddressVar(req, "id")
	if err != nil {
		return err
	}
	creator, err := utils.AddressVar(req, "creator")
	if err != nil {
		return err
	}
	round, hasRound, err := utils.RoundQuery(req, "round")
	if err != nil {
		return err
	}

	result := &Stake{Staker: id, Creator: creator}
	err = s.node.View(func(st *staking.Staking, _ *custody.Ledger) error {
		ss, err := st.StakeState(id, creator)
		if err != nil {
			return err
		}
		result.Checkpoints = convertCheckpoints(ss)
		if ss != nil {
			result.Pruned = ss.Pruned
		}
		if hasRound {
			result.Round = &round
			result.Amount, err = st.StakeAt(id, creator, round)
			return err
		}
		result.Amount = new(uint256.Int)
		if ss != nil {
			result.Amount, _ = ss.Latest()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (s *Stakers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /stakers/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStaker))
	sub.Path("/{id}/stakes/{creator}").
		Methods(http.MethodGet).
		Name("GET /stakers/{id}/stakes/{creator}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
}
