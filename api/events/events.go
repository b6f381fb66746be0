// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/api/utils"
	"github.com/vechain/creator-staking/eventdb"
	"github.com/vechain/creator-staking/staking"
	"github.com/vechain/creator-staking/thor"
)

var kinds = map[string]staking.EventKind{
	string(staking.EventCreatorRegistered):   staking.EventCreatorRegistered,
	string(staking.EventCreatorUnregistered): staking.EventCreatorUnregistered,
	string(staking.EventNewRound):            staking.EventNewRound,
	string(staking.EventStaked):              staking.EventStaked,
	string(staking.EventUnstaked):            staking.EventUnstaked,
}

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func parseUint(query url.Values, name string, bits int) (uint64, bool, error) {
	s := query.Get(name)
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, false, utils.BadRequest(errors.WithMessage(err, name))
	}
	return n, true, nil
}

func parseAddress(query url.Values, name string) (*thor.Address, error) {
	s := query.Get(name)
	if s == "" {
		return nil, nil
	}
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func (e *Events) parseFilter(query url.Values) (*eventdb.Filter, error) {
	filter := &eventdb.Filter{Order: eventdb.ASC}

	if s := query.Get("kind"); s != "" {
		kind, ok := kinds[s]
		if !ok {
			return nil, utils.BadRequest(fmt.Errorf("kind: unknown event kind %q", s))
		}
		filter.Kind = &kind
	}
	var err error
	if filter.Creator, err = parseAddress(query, "creator"); err != nil {
		return nil, err
	}
	if filter.Staker, err = parseAddress(query, "staker"); err != nil {
		return nil, err
	}

	from, hasFrom, err := parseUint(query, "from", 32)
	if err != nil {
		return nil, err
	}
	to, hasTo, err := parseUint(query, "to", 32)
	if err != nil {
		return nil, err
	}
	if hasFrom || hasTo {
		if hasFrom && hasTo && from > to {
			return nil, utils.BadRequest(errors.New("to must be greater than or equal to from"))
		}
		filter.Range = &eventdb.Range{From: uint32(from), To: uint32(to)}
	}

	switch order := eventdb.Order(query.Get("order")); order {
	case "", eventdb.ASC:
	case eventdb.DESC:
		filter.Order = eventdb.DESC
	default:
		return nil, utils.BadRequest(fmt.Errorf("order: unknown order %q", order))
	}

	offset, _, err := parseUint(query, "offset", 63)
	if err != nil {
		return nil, err
	}
	limit, hasLimit, err := parseUint(query, "limit", 64)
	if err != nil {
		return nil, err
	}
	if !hasLimit {
		limit = e.limit
	}
	if limit > e.limit {
		return nil, utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
	}
	filter.Options = &eventdb.Options{Offset: offset, Limit: limit}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req.URL.Query())
	if err != nil {
		return err
	}
	events, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	if events == nil {
		events = []*eventdb.Event{}
	}
	return utils.WriteJSON(w, events)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
