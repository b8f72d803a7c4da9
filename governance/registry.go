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

package governance

import (
	"github.com/ethereum/go-ethereum/common"
)

// Registry answers reviewer membership queries and carries the quorum
// threshold. Membership is fixed at construction; there is no add or remove
// operation. Opening membership up to governance itself is future work.
type Registry interface {
	// IsReviewer reports whether addr is an authorized reviewer.
	IsReviewer(addr common.Address) bool

	// Quorum returns the minimum absolute yes-vote count required for
	// approval.
	Quorum() uint64
}

// ReviewerRegistry is the in-memory Registry implementation. The member set
// is copied at construction and never mutated afterwards, so reads need no
// locking.
type ReviewerRegistry struct {
	members map[common.Address]struct{}
	quorum  uint64
}

// NewReviewerRegistry creates a registry from config. Duplicate addresses in
// the reviewer list collapse to one membership entry.
func NewReviewerRegistry(config *RegistryConfig) *ReviewerRegistry {
	members := make(map[common.Address]struct{}, len(config.Reviewers))
	for _, addr := range config.Reviewers {
		members[addr] = struct{}{}
	}
	return &ReviewerRegistry{
		members: members,
		quorum:  config.Quorum,
	}
}

// IsReviewer reports whether addr is an authorized reviewer.
func (r *ReviewerRegistry) IsReviewer(addr common.Address) bool {
	_, ok := r.members[addr]
	return ok
}

// Quorum returns the configured quorum threshold.
func (r *ReviewerRegistry) Quorum() uint64 {
	return r.quorum
}

// Members returns the reviewer addresses in unspecified order.
func (r *ReviewerRegistry) Members() []common.Address {
	members := make([]common.Address, 0, len(r.members))
	for addr := range r.members {
		members = append(members, addr)
	}
	return members
}
