// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/creator-staking/custody"
	"github.com/vechain/creator-staking/lvldb"
	"github.com/vechain/creator-staking/node"
	"github.com/vechain/creator-staking/staking"
	"github.com/vechain/creator-staking/thor"
)

const sampleConfig = `
staking:
  min-stake: "100"
  round-length: 20
  compaction: reject
  reward-split:
    stakers-percent: 70
    creators-percent: 30
node:
  snapshot-cache-size: 16
genesis:
  "0x0000000000000000000000000000000000000001": "5000"
`

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	params, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), params.MinStake.Uint64())
	// unset keys keep their defaults
	assert.Equal(t, staking.DefaultParams().RegistrationDeposit, params.RegistrationDeposit)
	assert.Equal(t, staking.DefaultParams().MaxUnlockingChunks, params.MaxUnlockingChunks)
	assert.Equal(t, uint32(20), params.RoundLength)
	assert.Equal(t, staking.RewardSplit{StakersPercent: 70, CreatorsPercent: 30}, params.RewardSplit)

	options, err := cfg.NodeOptions()
	require.NoError(t, err)
	assert.Equal(t, 16, options.SnapshotCacheSize)
	assert.Equal(t, map[thor.Address]*uint256.Int{
		thor.BytesToAddress([]byte{1}): uint256.NewInt(5000),
	}, options.Genesis)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	params, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, staking.DefaultParams().MinStake, params.MinStake)
	assert.Equal(t, staking.DefaultParams().RoundLength, params.RoundLength)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"unknown key", "staking:\n  min-stakes: \"1\"\n", "min-stakes"},
		{"bad amount", "staking:\n  min-stake: \"1e3\"\n", "min-stake"},
		{"bad policy", "staking:\n  compaction: drop\n", "compaction policy"},
		{"bad split", "staking:\n  reward-split:\n    stakers-percent: 90\n", "reward split"},
		{"zero round length", "staking:\n  round-length: 0\n", "round length"},
		{"bad genesis account", "genesis:\n  \"0x01\": \"1\"\n", "genesis account"},
		{"bad genesis balance", "genesis:\n  \"0x0000000000000000000000000000000000000001\": \"-1\"\n", "genesis balance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(writeConfig(t, tt.content))
			if err == nil {
				_, err = cfg.Params()
			}
			if err == nil {
				_, err = cfg.NodeOptions()
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.errPart), err.Error())
		})
	}
}

func TestDumpState(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	params, err := cfg.Params()
	require.NoError(t, err)
	options, err := cfg.NodeOptions()
	require.NoError(t, err)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	n, err := node.New(db, params, options)
	require.NoError(t, err)
	defer n.Close()

	account := thor.BytesToAddress([]byte{1})
	creator := thor.BytesToAddress([]byte{2})
	require.NoError(t, n.Execute(func(s *staking.Staking, ledger *custody.Ledger) error {
		if err := ledger.Deposit(creator, uint256.NewInt(1000)); err != nil {
			return err
		}
		if err := s.RegisterCreator(creator); err != nil {
			return err
		}
		_, err := s.Stake(account, creator, uint256.NewInt(300))
		return err
	}))

	var out strings.Builder
	require.NoError(t, n.View(func(s *staking.Staking, ledger *custody.Ledger) error {
		return dumpState(&out, s, ledger, []thor.Address{account, creator})
	}))
	assert.Contains(t, out.String(), "round 1 (first block 0, length 20), total staked 300")
	assert.Contains(t, out.String(), "1 creators")
	assert.Contains(t, out.String(), "free 4700, reserved 300")
	assert.Contains(t, out.String(), "not found")
}
