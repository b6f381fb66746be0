// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rounds

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"

	"github.com/vechain/creator-staking/api/utils"
	"github.com/vechain/creator-staking/custody"
	"github.com/vechain/creator-staking/node"
	"github.com/vechain/creator-staking/staking"
)

// Current is the live round as seen by the node clock.
type Current struct {
	Index       uint32       `json:"index"`
	FirstBlock  uint32       `json:"firstBlock"`
	Length      uint32       `json:"length"`
	EndBlock    uint64       `json:"endBlock"`
	Block       uint32       `json:"block"`
	TotalStaked *uint256.Int `json:"totalStaked"`
}

// Snapshot is the total staked amount of a finished round.
type Snapshot struct {
	Index  uint32       `json:"index"`
	Staked *uint256.Int `json:"staked"`
}

type Rounds struct {
	node *node.Node
}

func New(n *node.Node) *Rounds {
	return &Rounds{n}
}

func (r *Rounds) handleGetCurrent(w http.ResponseWriter, _ *http.Request) error {
	result := &Current{Block: r.node.Block()}
	err := r.node.View(func(s *staking.Staking, _ *custody.Ledger) error {
		current, err := s.CurrentRound()
		if err != nil {
			return err
		}
		result.Index = current.Index
		result.FirstBlock = current.FirstBlock
		result.Length = current.Length
		result.EndBlock = current.EndBlock()
		result.TotalStaked, err = s.TotalStaked()
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (r *Rounds) handleGetSnapshot(w http.ResponseWriter, req *http.Request) error {
	index, err := utils.RoundVar(req, "index")
	if err != nil {
		return err
	}
	staked, err := r.node.StakedAt(index)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Snapshot{Index: index, Staked: staked})
}

func (r *Rounds) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/current").
		Methods(http.MethodGet).
		Name("GET /rounds/current").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetCurrent))
	sub.Path("/{index}").
		Methods(http.MethodGet).
		Name("GET /rounds/{index}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetSnapshot))
}
