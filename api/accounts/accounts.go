// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/api/utils"
	"github.com/vechain/creator-staking/custody"
	"github.com/vechain/creator-staking/node"
	"github.com/vechain/creator-staking/staking"
	"github.com/vechain/creator-staking/thor"
)

type Balance struct {
	Free     *uint256.Int `json:"free"`
	Reserved *uint256.Int `json:"reserved"`
}

type DepositRequest struct {
	Account *thor.Address `json:"account"`
	Amount  *uint256.Int  `json:"amount"`
}

type Accounts struct {
	node   *node.Node
	faucet bool
}

// New creates the accounts module. The deposit endpoint is only mounted when faucet is set.
func New(n *node.Node, faucet bool) *Accounts {
	return &Accounts{
		node:   n,
		faucet: faucet,
	}
}

func (a *Accounts) balance(acc thor.Address) (*Balance, error) {
	var result *Balance
	err := a.node.View(func(_ *staking.Staking, ledger *custody.Ledger) error {
		b, err := ledger.Balance(acc)
		if err != nil {
			return err
		}
		result = &Balance{Free: b.Free, Reserved: b.Reserved}
		return nil
	})
	return result, err
}

func (a *Accounts) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	acc, err := utils.AddressVar(req, "id")
	if err != nil {
		return err
	}
	b, err := a.balance(acc)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, b)
}

func (a *Accounts) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	var body DepositRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Account == nil || body.Amount == nil {
		return utils.BadRequest(errors.New("body: account and amount are required"))
	}
	err := a.node.Execute(func(_ *staking.Staking, ledger *custody.Ledger) error {
		return ledger.Deposit(*body.Account, body.Amount)
	})
	if err != nil {
		return err
	}
	b, err := a.balance(*body.Account)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, b)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	if a.faucet {
		sub.Path("/deposit").
			Methods(http.MethodPost).
			Name("POST /accounts/deposit").
			HandlerFunc(utils.WrapHandlerFunc(a.handleDeposit))
	}
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /accounts/{id}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
}
