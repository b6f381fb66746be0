// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/api/utils"
	"github.com/vechain/creator-staking/custody"
	"github.com/vechain/creator-staking/node"
	"github.com/vechain/creator-staking/staking"
	"github.com/vechain/creator-staking/staking/delta"
	"github.com/vechain/creator-staking/thor"
)

// Stakes exposes the ledger mutations. Callers are trusted to act for the staker.
type Stakes struct {
	node *node.Node
}

func New(n *node.Node) *Stakes {
	return &Stakes{n}
}

func parseRequest(req *http.Request, needAmount bool) (*Request, error) {
	var body Request
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Staker == nil || body.Creator == nil {
		return nil, utils.BadRequest(errors.New("body: staker and creator are required"))
	}
	if needAmount && body.Amount == nil {
		return nil, utils.BadRequest(errors.New("body: amount is required"))
	}
	return &body, nil
}

type ledgerOp func(s *staking.Staking, staker, creator thor.Address, amount *uint256.Int) (*delta.Stake, error)

func (s *Stakes) handleLedgerOp(op ledgerOp) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		body, err := parseRequest(req, true)
		if err != nil {
			return err
		}
		var d *delta.Stake
		err = s.node.Execute(func(st *staking.Staking, _ *custody.Ledger) (err error) {
			d, err = op(st, *body.Staker, *body.Creator, body.Amount)
			return
		})
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, &Delta{Increase: d.Increase, Decrease: d.Decrease})
	}
}

func (s *Stakes) handleUnstakeAll(w http.ResponseWriter, req *http.Request) error {
	body, err := parseRequest(req, false)
	if err != nil {
		return err
	}
	var withdrawn *uint256.Int
	err = s.node.Execute(func(st *staking.Staking, _ *custody.Ledger) (err error) {
		withdrawn, err = st.UnstakeAll(*body.Staker, *body.Creator)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Withdrawal{Amount: withdrawn})
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /stakes").
		HandlerFunc(utils.WrapHandlerFunc(s.handleLedgerOp((*staking.Staking).Stake)))
	sub.Path("/unstake").
		Methods(http.MethodPost).
		Name("POST /stakes/unstake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleLedgerOp((*staking.Staking).Unstake)))
	sub.Path("/unstake-all").
		Methods(http.MethodPost).
		Name("POST /stakes/unstake-all").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUnstakeAll))
}
