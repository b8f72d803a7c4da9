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

package publishing

import (
	"math/big"
)

// RewardCalculator derives the payout for the next published paper.
//
// Decay formula:
// reward = baseReward × (1 - decayRate/100)^(published / decayEvery)
//
// With DecayEvery zero the reward is the fixed base amount.
type RewardCalculator struct {
	config *Config
}

// NewRewardCalculator creates a calculator over config.
func NewRewardCalculator(config *Config) *RewardCalculator {
	return &RewardCalculator{
		config: config,
	}
}

// RewardAt returns the reward for a paper published when `published` papers
// have already been published before it.
func (r *RewardCalculator) RewardAt(published uint64) *big.Int {
	if r.config.DecayEvery == 0 {
		return new(big.Int).Set(r.config.RewardAmount)
	}

	periods := published / r.config.DecayEvery
	reward := new(big.Int).Set(r.config.RewardAmount)

	decayMultiplier := big.NewInt(int64(100 - r.config.DecayRate))
	divisor := big.NewInt(100)
	for i := uint64(0); i < periods; i++ {
		reward.Mul(reward, decayMultiplier)
		reward.Div(reward, divisor)
	}

	if r.config.MinReward != nil && reward.Cmp(r.config.MinReward) < 0 {
		reward = new(big.Int).Set(r.config.MinReward)
	}
	return reward
}
