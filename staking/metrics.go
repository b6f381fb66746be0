// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/vechain/creator-staking/metrics"

var (
	metricLedgerOps  = metrics.LazyLoadCounterVec("staking_ops_count", []string{"op", "result"})
	metricHousekeeps = metrics.LazyLoadCounterVec("staking_housekeep_count", []string{"result"})
	metricRound      = metrics.LazyLoadGauge("staking_round")
)
