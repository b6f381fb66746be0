// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vechain/creator-staking/staking/account"
	"github.com/vechain/creator-staking/staking/stakestate"
	"github.com/vechain/creator-staking/thor"
)

// Drift is a mismatch between a recorded aggregate and its recomputed value.
type Drift struct {
	Check    string        `json:"check"`
	ID       *thor.Address `json:"id,omitempty"`
	Recorded string        `json:"recorded"`
	Computed string        `json:"computed"`
}

func (d Drift) String() string {
	if d.ID != nil {
		return fmt.Sprintf("%s %v: recorded %s, computed %s", d.Check, d.ID, d.Recorded, d.Computed)
	}
	return fmt.Sprintf("%s: recorded %s, computed %s", d.Check, d.Recorded, d.Computed)
}

// ReconcileReport summarizes a full recomputation of the aggregates.
type ReconcileReport struct {
	TotalStaked *uint256.Int `json:"totalStaked"`
	Creators    int          `json:"creators"`
	Stakers     int          `json:"stakers"`
	Positions   int          `json:"positions"`
	Drifts      []Drift      `json:"drifts"`
}

// OK returns whether no drift was found.
func (r *ReconcileReport) OK() bool {
	return len(r.Drifts) == 0
}

type creatorSums struct {
	staked  *uint256.Int
	stakers uint32
}

// Reconcile recomputes every aggregate by iterating the stored records and reports
// each one that differs from its recorded value. It never writes.
func (s *Staking) Reconcile() (*ReconcileReport, error) {
	report := &ReconcileReport{}
	drift := func(check string, id *thor.Address, recorded, computed fmt.Stringer) {
		report.Drifts = append(report.Drifts, Drift{
			Check:    check,
			ID:       id,
			Recorded: recorded.String(),
			Computed: computed.String(),
		})
	}

	perStaker := make(map[thor.Address]*uint256.Int)
	perStakerCreators := make(map[thor.Address][]thor.Address)
	perCreator := make(map[thor.Address]*creatorSums)
	positions := new(uint256.Int)

	err := s.stakeStateService.Iterate(func(pair stakestate.Pair, ss *stakestate.StakeState) (bool, error) {
		report.Positions++
		if ss.Len() > int(s.params.MaxUnlockingChunks) {
			drift("checkpoint capacity", addr(pair.Staker), uint256.NewInt(uint64(ss.Len())), uint256.NewInt(uint64(s.params.MaxUnlockingChunks)))
		}
		latest, _ := ss.Latest()
		positions.Add(positions, latest)

		if perStaker[pair.Staker] == nil {
			perStaker[pair.Staker] = new(uint256.Int)
		}
		perStaker[pair.Staker].Add(perStaker[pair.Staker], latest)
		perStakerCreators[pair.Staker] = append(perStakerCreators[pair.Staker], pair.Creator)

		sums := perCreator[pair.Creator]
		if sums == nil {
			sums = &creatorSums{staked: new(uint256.Int)}
			perCreator[pair.Creator] = sums
		}
		sums.staked.Add(sums.staked, latest)
		if !latest.IsZero() {
			sums.stakers++
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	err = s.accountService.IterateStakers(func(st *account.Staker) (bool, error) {
		report.Stakers++
		computed := perStaker[st.ID]
		if computed == nil {
			computed = new(uint256.Int)
		}
		if st.Active.Gt(st.Total) {
			drift("staker active <= total", addr(st.ID), st.Active, st.Total)
		}
		if !st.Total.Eq(computed) {
			drift("staker total", addr(st.ID), st.Total, computed)
		}
		if !st.Active.Eq(computed) {
			drift("staker active", addr(st.ID), st.Active, computed)
		}
		if len(st.Creators) != len(perStakerCreators[st.ID]) {
			drift("staker creators", addr(st.ID), uint256.NewInt(uint64(len(st.Creators))), uint256.NewInt(uint64(len(perStakerCreators[st.ID]))))
		}
		delete(perStaker, st.ID)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	for id, orphan := range perStaker {
		drift("positions without staker", addr(id), new(uint256.Int), orphan)
	}

	creatorsSum := new(uint256.Int)
	err = s.accountService.IterateCreators(func(c *account.Creator) (bool, error) {
		report.Creators++
		creatorsSum.Add(creatorsSum, c.StakedAmount)
		sums := perCreator[c.ID]
		if sums == nil {
			sums = &creatorSums{staked: new(uint256.Int)}
		}
		if !c.StakedAmount.Eq(sums.staked) {
			drift("creator staked amount", addr(c.ID), c.StakedAmount, sums.staked)
		}
		if c.StakersCount != sums.stakers {
			drift("creator stakers count", addr(c.ID), uint256.NewInt(uint64(c.StakersCount)), uint256.NewInt(uint64(sums.stakers)))
		}
		delete(perCreator, c.ID)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	// positions of unregistered creators must all be withdrawn
	for id, sums := range perCreator {
		if !sums.staked.IsZero() {
			drift("stake on unregistered creator", addr(id), new(uint256.Int), sums.staked)
		}
	}

	total, err := s.globalStatsService.TotalStaked()
	if err != nil {
		return nil, err
	}
	report.TotalStaked = total
	if !total.Eq(creatorsSum) {
		drift("total staked vs creators", nil, total, creatorsSum)
	}
	if !total.Eq(positions) {
		drift("total staked vs positions", nil, total, positions)
	}

	if report.OK() {
		logger.Debug("reconciled", "creators", report.Creators, "stakers", report.Stakers, "positions", report.Positions)
	} else {
		logger.Warn("reconcile found drift", "count", len(report.Drifts))
	}
	return report, nil
}
