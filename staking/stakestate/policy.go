// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakestate

import (
	"fmt"

	"github.com/vechain/creator-staking/staking/reverts"
)

// CompactionPolicy makes room for one more checkpoint in a full stake state.
// It either frees at least one slot or returns an error, in which case the
// stake state must not have been modified.
type CompactionPolicy func(s *StakeState) error

// CollapseOldest drops the oldest checkpoint. Rounds before the new oldest
// checkpoint can no longer be queried.
func CollapseOldest(s *StakeState) error {
	if len(s.Checkpoints) == 0 {
		return nil
	}
	s.Checkpoints = append(s.Checkpoints[:0:0], s.Checkpoints[1:]...)
	s.Pruned = true
	return nil
}

// RejectWhenFull refuses to open a new round once the capacity is reached.
func RejectWhenFull(*StakeState) error {
	return reverts.ErrTooManyChunks
}

// Policy names as used in configuration.
const (
	PolicyCollapse = "collapse"
	PolicyReject   = "reject"
)

// ParsePolicy returns the policy registered under name. An empty name selects CollapseOldest.
func ParsePolicy(name string) (CompactionPolicy, error) {
	switch name {
	case "", PolicyCollapse:
		return CollapseOldest, nil
	case PolicyReject:
		return RejectWhenFull, nil
	}
	return nil, fmt.Errorf("unknown compaction policy %q", name)
}
