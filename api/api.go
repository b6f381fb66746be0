// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/creator-staking/api/accounts"
	"github.com/vechain/creator-staking/api/admin"
	"github.com/vechain/creator-staking/api/creators"
	"github.com/vechain/creator-staking/api/events"
	"github.com/vechain/creator-staking/api/rounds"
	"github.com/vechain/creator-staking/api/stakers"
	"github.com/vechain/creator-staking/api/stakes"
	"github.com/vechain/creator-staking/api/subscriptions"
	"github.com/vechain/creator-staking/eventdb"
	"github.com/vechain/creator-staking/log"
	"github.com/vechain/creator-staking/metrics"
	"github.com/vechain/creator-staking/node"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableMutations bool
	EnableReqLogger bool
	EnableMetrics   bool
	EventsLimit     uint64
	LogLevel        *slog.LevelVar
}

// New return api router, and a func to close the open streams.
// The events endpoint is skipped when eventDB is nil.
func New(n *node.Node, eventDB *eventdb.EventDB, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if opts.EventsLimit == 0 {
		opts.EventsLimit = 1000
	}

	router := mux.NewRouter()

	creators.New(n, opts.EnableMutations).
		Mount(router, "/creators")
	stakers.New(n).
		Mount(router, "/stakers")
	rounds.New(n).
		Mount(router, "/rounds")
	accounts.New(n, opts.EnableMutations).
		Mount(router, "/accounts")
	admin.New(n, opts.LogLevel).
		Mount(router, "/admin")
	if opts.EnableMutations {
		stakes.New(n).
			Mount(router, "/stakes")
	}
	if eventDB != nil {
		events.New(eventDB, opts.EventsLimit).
			Mount(router, "/events")
	}
	subs := subscriptions.New(n, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics && metrics.Enabled() {
		router.Path("/metrics").
			Methods(http.MethodGet).
			Name("GET /metrics").
			Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	logger.Debug("api routes mounted", "mutations", opts.EnableMutations, "events", eventDB != nil)
	return handler.ServeHTTP, subs.Close
}
