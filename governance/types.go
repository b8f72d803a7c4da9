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

// Package governance implements the permissioned proposal lifecycle: a fixed
// reviewer set votes on submitted proposals and a proposal executes once it
// holds both a strict majority and the configured quorum of yes votes.
package governance

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/paperdao/papergov/ballot"
)

// Proposal is a single governance item under review. Title, Summary,
// ContentHash, Author and CreatedAt are immutable once set; the tally and the
// terminal flags are only mutated through the store. Executed implies
// Approved at every observable state and is one-way.
type Proposal struct {
	ID          uint64
	Title       string
	Summary     string
	ContentHash string
	Author      common.Address
	Tally       ballot.Tally
	Approved    bool
	Executed    bool
	CreatedAt   uint64

	// ballots is the set of identities that have voted on this proposal.
	// It is owned by the store and excluded from Get snapshots.
	ballots ballot.Set
}

// snapshot returns a copy of p without the ballot set.
func (p *Proposal) snapshot() *Proposal {
	cp := *p
	cp.ballots = nil
	return &cp
}

// RegistryConfig describes the fixed reviewer membership and the quorum
// threshold of an installation.
type RegistryConfig struct {
	Reviewers []common.Address
	Quorum    uint64
}

// DefaultRegistryConfig returns a configuration with no reviewers and a
// quorum of one. Deployments are expected to supply their own reviewer set.
func DefaultRegistryConfig() *RegistryConfig {
	return &RegistryConfig{
		Quorum: 1,
	}
}
