// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/creator-staking/custody"
	"github.com/vechain/creator-staking/lvldb"
	"github.com/vechain/creator-staking/staking/stakestate"
	"github.com/vechain/creator-staking/state"
	"github.com/vechain/creator-staking/thor"
)

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func testParams() *Params {
	return &Params{
		MinStake:            u(50),
		RegistrationDeposit: u(1000),
		MaxUnlockingChunks:  4,
		RoundLength:         10,
		Compaction:          stakestate.CollapseOldest,
		RewardSplit:         RewardSplit{StakersPercent: 60, CreatorsPercent: 40},
	}
}

type StakingTest struct {
	*Staking
	t       *testing.T
	db      *lvldb.LevelDB
	state   *state.State
	custody *custody.Ledger
}

func newTest(t *testing.T) *StakingTest {
	return newTestWithParams(t, testParams())
}

func newTestWithParams(t *testing.T, params *Params) *StakingTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	ledger := custody.New(st)
	staking := New(st, params, ledger)
	require.NoError(t, staking.Initialize())

	return &StakingTest{
		Staking: staking,
		t:       t,
		db:      db,
		state:   st,
		custody: ledger,
	}
}

// Fund credits free balance to accounts.
func (ts *StakingTest) Fund(amount uint64, accounts ...thor.Address) *StakingTest {
	for _, acc := range accounts {
		require.NoError(ts.t, ts.custody.Deposit(acc, u(amount)))
	}
	return ts
}

// Register funds and registers creators.
func (ts *StakingTest) Register(creators ...thor.Address) *StakingTest {
	for _, c := range creators {
		ts.Fund(ts.params.RegistrationDeposit.Uint64(), c)
		require.NoError(ts.t, ts.RegisterCreator(c), "failed to register creator %s", c)
	}
	return ts
}

// ToRound runs housekeeping until the given round is live.
func (ts *StakingTest) ToRound(index uint32) *StakingTest {
	for {
		current, err := ts.CurrentRound()
		require.NoError(ts.t, err)
		if current.Index >= index {
			return ts
		}
		block := uint32(current.EndBlock())
		advanced, err := ts.Housekeep(block)
		require.NoError(ts.t, err)
		require.True(ts.t, advanced)
	}
}

func (ts *StakingTest) AssertRound(index uint32) *StakingTest {
	current, err := ts.CurrentRound()
	assert.NoError(ts.t, err, "failed to get round")
	assert.Equal(ts.t, index, current.Index, "round mismatch")
	return ts
}

func (ts *StakingTest) AssertTotalStaked(expected uint64) *StakingTest {
	total, err := ts.TotalStaked()
	assert.NoError(ts.t, err, "failed to get total staked")
	assert.Equal(ts.t, expected, total.Uint64(), "total staked mismatch, got %s, expected %d", total, expected)
	return ts
}

func (ts *StakingTest) AssertCreator(creator thor.Address, staked uint64, stakers uint32) *StakingTest {
	info, err := ts.Creator(creator)
	assert.NoError(ts.t, err, "failed to get creator")
	if !assert.NotNil(ts.t, info, "creator %s not registered", creator) {
		return ts
	}
	assert.Equal(ts.t, staked, info.StakedAmount.Uint64(), "creator staked amount mismatch")
	assert.Equal(ts.t, stakers, info.StakersCount, "creator stakers count mismatch")
	return ts
}

func (ts *StakingTest) AssertStaker(staker thor.Address, total uint64) *StakingTest {
	info, err := ts.Staker(staker)
	assert.NoError(ts.t, err, "failed to get staker")
	if !assert.NotNil(ts.t, info, "staker %s does not exist", staker) {
		return ts
	}
	assert.Equal(ts.t, total, info.Total.Uint64(), "staker total mismatch")
	assert.Equal(ts.t, total, info.Active.Uint64(), "staker active mismatch")
	return ts
}

func (ts *StakingTest) AssertStakeState(staker, creator thor.Address, latest uint64, checkpoints int) *StakingTest {
	ss, err := ts.StakeState(staker, creator)
	assert.NoError(ts.t, err, "failed to get stake state")
	if !assert.NotNil(ts.t, ss, "no stake state") {
		return ts
	}
	value, ok := ss.Latest()
	assert.True(ts.t, ok)
	assert.Equal(ts.t, latest, value.Uint64(), "latest stake mismatch")
	assert.Equal(ts.t, checkpoints, ss.Len(), "checkpoint count mismatch: %s", spew.Sdump(ss.Checkpoints))
	return ts
}

func (ts *StakingTest) AssertBalance(acc thor.Address, free, reserved uint64) *StakingTest {
	b, err := ts.custody.Balance(acc)
	assert.NoError(ts.t, err, "failed to get balance")
	assert.Equal(ts.t, free, b.Free.Uint64(), "free balance mismatch")
	assert.Equal(ts.t, reserved, b.Reserved.Uint64(), "reserved balance mismatch")
	return ts
}

// AssertReconciled checks every aggregate against a full recomputation.
func (ts *StakingTest) AssertReconciled() *StakingTest {
	report, err := ts.Reconcile()
	require.NoError(ts.t, err, "failed to reconcile")
	assert.True(ts.t, report.OK(), "drift found: %v", report.Drifts)
	return ts
}

// Commit writes the pending state and reopens it, as the node does between calls.
func (ts *StakingTest) Commit() *StakingTest {
	require.NoError(ts.t, ts.state.Stage().Commit())
	ts.state = state.New(ts.db)
	ts.custody = custody.New(ts.state)
	ts.Staking = New(ts.state, ts.params, ts.custody)
	return ts
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	test *StakingTest

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(test *StakingTest) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), test: test}
}

func (seq *TestSequence) AddFunc(f TestFunc) *TestSequence {
	seq.mu.Lock()
	defer seq.mu.Unlock()

	seq.funcs = append(seq.funcs, f)
	return seq
}

func (seq *TestSequence) Stake(staker, creator thor.Address, amount uint64) *TestSequence {
	return seq.AddFunc(func(t *testing.T) {
		if _, err := seq.test.Stake(staker, creator, u(amount)); err != nil {
			t.Fatalf("failed to stake %d from %s to %s: %v", amount, staker, creator, err)
		}
		t.Logf("staked %d from %s to %s", amount, staker, creator)
	})
}

func (seq *TestSequence) Unstake(staker, creator thor.Address, amount uint64) *TestSequence {
	return seq.AddFunc(func(t *testing.T) {
		if _, err := seq.test.Unstake(staker, creator, u(amount)); err != nil {
			t.Fatalf("failed to unstake %d from %s to %s: %v", amount, staker, creator, err)
		}
		t.Logf("unstaked %d from %s to %s", amount, staker, creator)
	})
}

func (seq *TestSequence) UnstakeAll(staker, creator thor.Address) *TestSequence {
	return seq.AddFunc(func(t *testing.T) {
		amount, err := seq.test.UnstakeAll(staker, creator)
		if err != nil {
			t.Fatalf("failed to unstake all from %s to %s: %v", staker, creator, err)
		}
		t.Logf("unstaked all (%s) from %s to %s", amount, staker, creator)
	})
}

func (seq *TestSequence) ExpectError(expected error, f func(*StakingTest) error) *TestSequence {
	return seq.AddFunc(func(t *testing.T) {
		assert.ErrorIs(t, f(seq.test), expected)
	})
}

func (seq *TestSequence) ToRound(index uint32) *TestSequence {
	return seq.AddFunc(func(t *testing.T) {
		seq.test.ToRound(index)
		t.Logf("moved to round %d", index)
	})
}

func (seq *TestSequence) Commit() *TestSequence {
	return seq.AddFunc(func(*testing.T) {
		seq.test.Commit()
	})
}

func (seq *TestSequence) Assert(f func(*StakingTest)) *TestSequence {
	return seq.AddFunc(func(*testing.T) {
		f(seq.test)
	})
}

func (seq *TestSequence) Run(t *testing.T) {
	seq.mu.Lock()
	defer seq.mu.Unlock()

	for _, f := range seq.funcs {
		f(t)
	}
}
