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

// Package ballot holds the voting primitives shared by the permissioned and
// the stake-based governance variants: the per-item voter set that prevents
// double voting, the yes/no tally, and the decision functions applied to a
// closed tally. Qualification of a voter (reviewer membership, stake capture)
// is deliberately not part of this package; each variant supplies its own
// check and both reuse the same bookkeeping.
package ballot

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrAlreadyVoted    = errors.New("voter has already voted on this item")
	ErrAlreadyExecuted = errors.New("item has already been executed")
	ErrRejected        = errors.New("majority not achieved")
	ErrQuorumNotMet    = errors.New("yes votes below quorum threshold")
)

// Set tracks the identities that have already cast a vote on a single item.
type Set map[common.Address]struct{}

// NewSet returns an empty voter set.
func NewSet() Set {
	return make(Set)
}

// Has reports whether addr has already voted.
func (s Set) Has(addr common.Address) bool {
	_, ok := s[addr]
	return ok
}

// Add records addr as having voted. It fails with ErrAlreadyVoted if addr is
// already a member, leaving the set unchanged.
func (s Set) Add(addr common.Address) error {
	if _, ok := s[addr]; ok {
		return ErrAlreadyVoted
	}
	s[addr] = struct{}{}
	return nil
}

// Count returns the number of distinct voters in the set.
func (s Set) Count() uint64 {
	return uint64(len(s))
}

// Members returns the voter identities in unspecified order.
func (s Set) Members() []common.Address {
	members := make([]common.Address, 0, len(s))
	for addr := range s {
		members = append(members, addr)
	}
	return members
}

// Tally is the vote count of a single item. The invariant
// For+Against == Count() of the item's Set holds at every observable point:
// a tally is only mutated together with a successful Set.Add.
type Tally struct {
	For     uint64
	Against uint64
}

// Record increments the counter selected by support by exactly one.
func (t *Tally) Record(support bool) {
	if support {
		t.For++
	} else {
		t.Against++
	}
}

// Total returns the number of votes cast.
func (t Tally) Total() uint64 {
	return t.For + t.Against
}

// Majority reports whether the tally carries a strict majority of yes votes.
// This is the sole approval rule of the stake-based variant.
func (t Tally) Majority() bool {
	return t.For > t.Against
}

// DecideQuorum evaluates a permissioned-variant tally for execution.
//
// The check order is part of the contract: an already executed item always
// fails first, a tally without a strict majority is reported as rejected even
// when the yes count would satisfy the quorum, and only a tally that holds a
// majority but falls short of the quorum floor is reported as quorum
// insufficient. A nil return means the item may transition to
// approved+executed.
func DecideQuorum(t Tally, quorum uint64, executed bool) error {
	if executed {
		return ErrAlreadyExecuted
	}
	if t.For <= t.Against {
		return ErrRejected
	}
	if t.For < quorum {
		return ErrQuorumNotMet
	}
	return nil
}
