// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/api/utils"
	"github.com/vechain/creator-staking/custody"
	"github.com/vechain/creator-staking/log"
	"github.com/vechain/creator-staking/node"
	"github.com/vechain/creator-staking/staking"
)

type LogLevelRequest struct {
	Level string `json:"level"`
}

type LogLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

// Params is the staking configuration of the node.
type Params struct {
	MinStake            string              `json:"minStake"`
	RegistrationDeposit string              `json:"registrationDeposit"`
	MaxUnlockingChunks  uint32              `json:"maxUnlockingChunks"`
	RoundLength         uint32              `json:"roundLength"`
	RewardSplit         staking.RewardSplit `json:"rewardSplit"`
}

type Admin struct {
	node     *node.Node
	logLevel *slog.LevelVar
}

// New creates the admin module. The log level endpoints are only mounted when logLevel is set.
func New(n *node.Node, logLevel *slog.LevelVar) *Admin {
	return &Admin{
		node:     n,
		logLevel: logLevel,
	}
}

func (a *Admin) handleGetLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &LogLevelResponse{CurrentLevel: a.logLevel.Level().String()})
}

func (a *Admin) handlePostLogLevel(w http.ResponseWriter, req *http.Request) error {
	var body LogLevelRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "Invalid request body"))
	}

	switch body.Level {
	case "trace":
		a.logLevel.Set(log.LevelTrace)
	case "debug":
		a.logLevel.Set(log.LevelDebug)
	case "info":
		a.logLevel.Set(log.LevelInfo)
	case "warn":
		a.logLevel.Set(log.LevelWarn)
	case "error":
		a.logLevel.Set(log.LevelError)
	case "crit":
		a.logLevel.Set(log.LevelCrit)
	default:
		return utils.BadRequest(errors.New("Invalid verbosity level"))
	}
	return utils.WriteJSON(w, &LogLevelResponse{CurrentLevel: a.logLevel.Level().String()})
}

func (a *Admin) handleReconcile(w http.ResponseWriter, _ *http.Request) error {
	var report *staking.ReconcileReport
	err := a.node.View(func(s *staking.Staking, _ *custody.Ledger) (err error) {
		report, err = s.Reconcile()
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, report)
}

func (a *Admin) handleHealth(w http.ResponseWriter, _ *http.Request) error {
	status := a.node.Health()
	if !status.Healthy {
		w.Header().Set("Content-Type", utils.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, status)
}

func (a *Admin) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	p := a.node.Params()
	return utils.WriteJSON(w, &Params{
		MinStake:            p.MinStake.Dec(),
		RegistrationDeposit: p.RegistrationDeposit.Dec(),
		MaxUnlockingChunks:  p.MaxUnlockingChunks,
		RoundLength:         p.RoundLength,
		RewardSplit:         p.RewardSplit,
	})
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	if a.logLevel != nil {
		sub.Path("/loglevel").
			Methods(http.MethodGet).
			Name("GET /admin/loglevel").
			HandlerFunc(utils.WrapHandlerFunc(a.handleGetLogLevel))
		sub.Path("/loglevel").
			Methods(http.MethodPost).
			Name("POST /admin/loglevel").
			HandlerFunc(utils.WrapHandlerFunc(a.handlePostLogLevel))
	}
	sub.Path("/reconcile").
		Methods(http.MethodGet).
		Name("GET /admin/reconcile").
		HandlerFunc(utils.WrapHandlerFunc(a.handleReconcile))
	sub.Path("/health").
		Methods(http.MethodGet).
		Name("GET /admin/health").
		HandlerFunc(utils.WrapHandlerFunc(a.handleHealth))
	sub.Path("/params").
		Methods(http.MethodGet).
		Name("GET /admin/params").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetParams))
}
