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

// Package publishing implements the stake-based paper lifecycle: any
// participant votes by staking a fixed amount of fungible tokens into the
// ledger's custody, and a paper with more stake votes for than against pays
// the submitter a reward on distribution.
package publishing

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/paperdao/papergov/ballot"
)

// Paper is a single submission under stake-based review. The submission
// fields are immutable once set; Published is a one-way terminal flag.
type Paper struct {
	ID          uint64
	Title       string
	Summary     string
	ContentHash string
	Author      common.Address
	Tally       ballot.Tally
	Published   bool
	CreatedAt   uint64

	// ballots is owned by the store and excluded from Get snapshots.
	ballots ballot.Set
}

// snapshot returns a copy of p without the ballot set.
func (p *Paper) snapshot() *Paper {
	cp := *p
	cp.ballots = nil
	return &cp
}

// Config holds the stake and reward parameters of the ledger.
type Config struct {
	// Custody is the account stakes are captured into and rewards are paid
	// from.
	Custody common.Address

	// StakeAmount is the fixed per-vote stake.
	StakeAmount *big.Int

	// RewardAmount is the base reward paid to a paper's submitter on
	// approval.
	RewardAmount *big.Int

	// DecayEvery reduces the reward after every N published papers.
	// Zero disables decay and keeps the reward fixed.
	DecayEvery uint64

	// DecayRate is the percentage removed per decay period.
	DecayRate uint64

	// MinReward is the floor the decayed reward never drops below.
	MinReward *big.Int
}

// DefaultConfig returns the default ledger parameters: a 1-token stake, a
// fixed 5-token reward and no decay.
func DefaultConfig() *Config {
	return &Config{
		Custody:      common.HexToAddress("0x7061706572676f76"),
		StakeAmount:  big.NewInt(1e18),
		RewardAmount: new(big.Int).Mul(big.NewInt(5), big.NewInt(1e18)),
		DecayEvery:   0,
		DecayRate:    10,
		MinReward:    big.NewInt(1e17),
	}
}
