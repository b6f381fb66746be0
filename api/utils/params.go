// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/thor"
)

// AddressVar parses the named path variable as an address.
func AddressVar(req *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// RoundVar parses the named path variable as a round index.
func RoundVar(req *http.Request, name string) (uint32, error) {
	return parseRound(mux.Vars(req)[name], name)
}

// RoundQuery parses an optional round query parameter. The second return value
// is false when the parameter is absent.
func RoundQuery(req *http.Request, name string) (uint32, bool, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return 0, false, nil
	}
	round, err := parseRound(s, name)
	return round, err == nil, err
}

func parseRound(s, name string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	if n > math.MaxUint32 {
		return 0, BadRequest(errors.Errorf("%s: out of range", name))
	}
	return uint32(n), nil
}
