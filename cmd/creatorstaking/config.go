// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/creator-staking/node"
	"github.com/vechain/creator-staking/staking"
	"github.com/vechain/creator-staking/staking/stakestate"
	"github.com/vechain/creator-staking/thor"
)

// Config is the YAML file layout. Amounts are decimal strings.
type Config struct {
	Staking StakingConfig     `yaml:"staking"`
	Node    NodeConfig        `yaml:"node"`
	Genesis map[string]string `yaml:"genesis"`
}

type StakingConfig struct {
	MinStake            string              `yaml:"min-stake"`
	RegistrationDeposit string              `yaml:"registration-deposit"`
	MaxUnlockingChunks  uint32              `yaml:"max-unlocking-chunks"`
	RoundLength         uint32              `yaml:"round-length"`
	Compaction          string              `yaml:"compaction"`
	RewardSplit         staking.RewardSplit `yaml:"reward-split"`
}

type NodeConfig struct {
	SnapshotCacheSize int `yaml:"snapshot-cache-size"`
}

// defaultConfig mirrors staking.DefaultParams.
func defaultConfig() *Config {
	p := staking.DefaultParams()
	return &Config{
		Staking: StakingConfig{
			MinStake:            p.MinStake.Dec(),
			RegistrationDeposit: p.RegistrationDeposit.Dec(),
			MaxUnlockingChunks:  p.MaxUnlockingChunks,
			RoundLength:         p.RoundLength,
			Compaction:          stakestate.PolicyCollapse,
			RewardSplit:         p.RewardSplit,
		},
		Node: NodeConfig{SnapshotCacheSize: 256},
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := parseConfig(data, cfg); err != nil {
		return nil, errors.WithMessagef(err, "parse config %s", path)
	}
	return cfg, nil
}

func parseConfig(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

// Params converts the staking section and validates it.
func (c *Config) Params() (*staking.Params, error) {
	minStake, err := uint256.FromDecimal(c.Staking.MinStake)
	if err != nil {
		return nil, errors.Wrap(err, "min-stake")
	}
	deposit, err := uint256.FromDecimal(c.Staking.RegistrationDeposit)
	if err != nil {
		return nil, errors.Wrap(err, "registration-deposit")
	}
	policy, err := stakestate.ParsePolicy(c.Staking.Compaction)
	if err != nil {
		return nil, err
	}
	p := &staking.Params{
		MinStake:            minStake,
		RegistrationDeposit: deposit,
		MaxUnlockingChunks:  c.Staking.MaxUnlockingChunks,
		RoundLength:         c.Staking.RoundLength,
		Compaction:          policy,
		RewardSplit:         c.Staking.RewardSplit,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NodeOptions converts the node section and the genesis balances.
func (c *Config) NodeOptions() (node.Options, error) {
	genesis := make(map[thor.Address]*uint256.Int, len(c.Genesis))
	for k, v := range c.Genesis {
		addr, err := thor.ParseAddress(k)
		if err != nil {
			return node.Options{}, errors.WithMessagef(err, "genesis account %q", k)
		}
		amount, err := uint256.FromDecimal(v)
		if err != nil {
			return node.Options{}, errors.Wrapf(err, "genesis balance of %v", addr)
		}
		genesis[*addr] = amount
	}
	return node.Options{
		SnapshotCacheSize: c.Node.SnapshotCacheSize,
		Genesis:           genesis,
	}, nil
}
