// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package creators

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/api/utils"
	"github.com/vechain/creator-staking/custody"
	"github.com/vechain/creator-staking/node"
	"github.com/vechain/creator-staking/staking"
)

type Creators struct {
	node      *node.Node
	mutations bool
}

// New creates the creators module. Registration endpoints are only mounted when mutations is set.
func New(n *node.Node, mutations bool) *Creators {
	return &Creators{
		node:      n,
		mutations: mutations,
	}
}

func (c *Creators) handleGetCreators(w http.ResponseWriter, _ *http.Request) error {
	result := make([]*Creator, 0)
	err := c.node.View(func(s *staking.Staking, _ *custody.Ledger) error {
		creators, err := s.Creators()
		if err != nil {
			return err
		}
		for _, creator := range creators {
			result = append(result, convertCreator(creator))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (c *Creators) handleGetCreator(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.AddressVar(req, "id")
	if err != nil {
		return err
	}
	var result *Creator
	err = c.node.View(func(s *staking.Staking, _ *custody.Ledger) error {
		creator, err := s.Creator(id)
		if err != nil {
			return err
		}
		if creator != nil {
			result = convertCreator(creator)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if result == nil {
		return utils.NotFound(errors.New("creator not registered"))
	}
	return utils.WriteJSON(w, result)
}

func (c *Creators) parseRequest(req *http.Request) (*Request, error) {
	var body Request
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Creator == nil {
		return nil, utils.BadRequest(errors.New("body: creator is required"))
	}
	return &body, nil
}

func (c *Creators) handleRegister(w http.ResponseWriter, req *http.Request) error {
	body, err := c.parseRequest(req)
	if err != nil {
		return err
	}
	err = c.node.Execute(func(s *staking.Staking, _ *custody.Ledger) error {
		return s.RegisterCreator(*body.Creator)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, body)
}

func (c *Creators) handleUnregister(w http.ResponseWriter, req *http.Request) error {
	body, err := c.parseRequest(req)
	if err != nil {
		return err
	}
	err = c.node.Execute(func(s *staking.Staking, _ *custody.Ledger) error {
		return s.UnregisterCreator(*body.Creator)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, body)
}

func (c *Creators) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /creators").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetCreators))
	if c.mutations {
		sub.Path("/register").
			Methods(http.MethodPost).
			Name("POST /creators/register").
			HandlerFunc(utils.WrapHandlerFunc(c.handleRegister))
		sub.Path("/unregister").
			Methods(http.MethodPost).
			Name("POST /creators/unregister").
			HandlerFunc(utils.WrapHandlerFunc(c.handleUnregister))
	}
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /creators/{id}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetCreator))
}
