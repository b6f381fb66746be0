// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import "github.com/vechain/creator-staking/metrics"

var (
	metricCommits    = metrics.LazyLoadCounterVec("node_commit_count", []string{"result"})
	metricCommitSize = metrics.LazyLoadHistogram("node_commit_size", metrics.BucketCommitSize)
	metricBlock      = metrics.LazyLoadGauge("node_block")
)
