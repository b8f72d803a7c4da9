// Copyright 2026 The papergov Authors
// This file is part of the papergov library.
//
// The papergov library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The papergov library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the papergov library. If not, see <http://www.gnu.org/licenses/>.

// Package config loads and validates the engine configuration from TOML.
// Addresses and token amounts travel as strings in the file and are parsed
// into their typed forms when the variant configs are materialized.
package config

import (
	"fmt"
	"math/big"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paperdao/papergov/governance"
	"github.com/paperdao/papergov/publishing"
)

// Config is the on-disk configuration of both governance variants.
type Config struct {
	// DataDir is where persisted records live. Empty means in-memory only.
	DataDir string `toml:"data_dir"`

	Governance GovernanceConfig `toml:"governance"`
	Publishing PublishingConfig `toml:"publishing"`
}

// GovernanceConfig configures the permissioned variant.
type GovernanceConfig struct {
	Reviewers []string `toml:"reviewers"`
	Quorum    uint64   `toml:"quorum"`
}

// PublishingConfig configures the stake-based variant. Amounts are decimal
// strings in base token units.
type PublishingConfig struct {
	Custody      string `toml:"custody"`
	StakeAmount  string `toml:"stake_amount"`
	RewardAmount string `toml:"reward_amount"`
	DecayEvery   uint64 `toml:"decay_every"`
	DecayRate    uint64 `toml:"decay_rate"`
	MinReward    string `toml:"min_reward"`
}

// Default returns a configuration with the library defaults and no
// reviewers.
func Default() *Config {
	pub := publishing.DefaultConfig()
	return &Config{
		Governance: GovernanceConfig{
			Quorum: governance.DefaultRegistryConfig().Quorum,
		},
		Publishing: PublishingConfig{
			Custody:      pub.Custody.Hex(),
			StakeAmount:  pub.StakeAmount.String(),
			RewardAmount: pub.RewardAmount.String(),
			DecayEvery:   pub.DecayEvery,
			DecayRate:    pub.DecayRate,
			MinReward:    pub.MinReward.String(),
		},
	}
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Governance.Quorum == 0 {
		return fmt.Errorf("governance quorum must be at least 1")
	}
	for _, reviewer := range c.Governance.Reviewers {
		if !common.IsHexAddress(reviewer) {
			return fmt.Errorf("invalid reviewer address %q", reviewer)
		}
	}
	if !common.IsHexAddress(c.Publishing.Custody) {
		return fmt.Errorf("invalid custody address %q", c.Publishing.Custody)
	}
	if c.Publishing.DecayRate > 100 {
		return fmt.Errorf("decay rate %d exceeds 100 percent", c.Publishing.DecayRate)
	}
	for name, amount := range map[string]string{
		"stake_amount":  c.Publishing.StakeAmount,
		"reward_amount": c.Publishing.RewardAmount,
		"min_reward":    c.Publishing.MinReward,
	} {
		val, err := parseAmount(amount)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if name != "min_reward" && val.Sign() <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, amount)
		}
	}
	return nil
}

// RegistryConfig materializes the permissioned-variant configuration.
func (c *Config) RegistryConfig() *governance.RegistryConfig {
	reviewers := make([]common.Address, 0, len(c.Governance.Reviewers))
	for _, reviewer := range c.Governance.Reviewers {
		reviewers = append(reviewers, common.HexToAddress(reviewer))
	}
	return &governance.RegistryConfig{
		Reviewers: reviewers,
		Quorum:    c.Governance.Quorum,
	}
}

// LedgerConfig materializes the stake-variant configuration. Validate must
// have succeeded first.
func (c *Config) LedgerConfig() (*publishing.Config, error) {
	stake, err := parseAmount(c.Publishing.StakeAmount)
	if err != nil {
		return nil, fmt.Errorf("stake_amount: %w", err)
	}
	reward, err := parseAmount(c.Publishing.RewardAmount)
	if err != nil {
		return nil, fmt.Errorf("reward_amount: %w", err)
	}
	minReward, err := parseAmount(c.Publishing.MinReward)
	if err != nil {
		return nil, fmt.Errorf("min_reward: %w", err)
	}
	return &publishing.Config{
		Custody:      common.HexToAddress(c.Publishing.Custody),
		StakeAmount:  stake,
		RewardAmount: reward,
		DecayEvery:   c.Publishing.DecayEvery,
		DecayRate:    c.Publishing.DecayRate,
		MinReward:    minReward,
	}, nil
}

func parseAmount(s string) (*big.Int, error) {
	val, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not a decimal amount: %q", s)
	}
	if val.Sign() < 0 {
		return nil, fmt.Errorf("negative amount: %q", s)
	}
	return val, nil
}
