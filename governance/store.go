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
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/paperdao/papergov/ballot"
	"github.com/paperdao/papergov/storage"
)

// ProposalStore owns all proposal records. Ids are assigned sequentially and
// never reused; records are only mutated through the vote and execute
// operations. The content index maps a content hash to the id of the latest
// submission referencing it.
type ProposalStore struct {
	mu        sync.RWMutex
	proposals []*Proposal
	byHash    map[string]uint64
	persist   *storage.Store
}

// NewProposalStore creates an empty store. persist may be nil for a purely
// in-memory store; otherwise existing records are loaded and every mutation
// is written through.
func NewProposalStore(persist *storage.Store) (*ProposalStore, error) {
	s := &ProposalStore{
		byHash:  make(map[string]uint64),
		persist: persist,
	}
	if persist == nil {
		return s, nil
	}
	records, err := persist.LoadProposals()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		s.restore(rec)
	}
	return s, nil
}

// Submit appends a new proposal and points the content index at it,
// overwriting any prior mapping for the same hash. Submission always
// succeeds; duplicate content hashes are permitted.
func (s *ProposalStore) Submit(title, summary, contentHash string, author common.Address, now uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &Proposal{
		ID:          uint64(len(s.proposals)),
		Title:       title,
		Summary:     summary,
		ContentHash: contentHash,
		Author:      author,
		CreatedAt:   now,
		ballots:     ballot.NewSet(),
	}
	s.proposals = append(s.proposals, p)
	s.byHash[contentHash] = p.ID

	if err := s.save(p); err != nil {
		return 0, err
	}
	return p.ID, nil
}

// Get returns a snapshot of the proposal without its ballot set.
func (s *ProposalStore) Get(id uint64) (*Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id >= uint64(len(s.proposals)) {
		return nil, ErrNotFound
	}
	return s.proposals[id].snapshot(), nil
}

// IDByContent returns the id the content index holds for hash. An absent
// hash yields the zero id; there is no distinct not-found signal.
func (s *ProposalStore) IDByContent(hash string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.byHash[hash]
}

// Len returns the number of proposals submitted so far.
func (s *ProposalStore) Len() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return uint64(len(s.proposals))
}

// RecordVote applies a single vote to the proposal. qualify is the variant's
// authorization check and runs before the duplicate-ballot check; on any
// failure neither the ballot set nor the tally changes. The returned snapshot
// reflects the updated tally.
func (s *ProposalStore) RecordVote(id uint64, voter common.Address, support bool, qualify func(common.Address) error) (*Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id >= uint64(len(s.proposals)) {
		return nil, ErrNotFound
	}
	p := s.proposals[id]

	if err := qualify(voter); err != nil {
		return nil, err
	}
	if err := p.ballots.Add(voter); err != nil {
		return nil, err
	}
	p.Tally.Record(support)

	if err := s.save(p); err != nil {
		return nil, err
	}
	return p.snapshot(), nil
}

// Execute evaluates the proposal's tally against quorum and, on approval,
// flips both terminal flags. A second call on an executed proposal always
// fails ErrAlreadyExecuted and never re-evaluates.
func (s *ProposalStore) Execute(id uint64, quorum uint64) (*Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id >= uint64(len(s.proposals)) {
		return nil, ErrNotFound
	}
	p := s.proposals[id]

	if err := ballot.DecideQuorum(p.Tally, quorum, p.Executed); err != nil {
		return nil, err
	}
	p.Approved = true
	p.Executed = true

	if err := s.save(p); err != nil {
		return nil, err
	}
	return p.snapshot(), nil
}

// save writes the proposal through to the persistence layer. Callers hold
// the write lock. Write failures propagate so the surrounding transaction
// substrate can abort the whole operation.
func (s *ProposalStore) save(p *Proposal) error {
	if s.persist == nil {
		return nil
	}
	return s.persist.SaveProposal(&storage.ProposalRecord{
		ID:          p.ID,
		Title:       p.Title,
		Summary:     p.Summary,
		ContentHash: p.ContentHash,
		Author:      p.Author,
		YesVotes:    p.Tally.For,
		NoVotes:     p.Tally.Against,
		Voters:      p.ballots.Members(),
		Approved:    p.Approved,
		Executed:    p.Executed,
		CreatedAt:   p.CreatedAt,
	})
}

// restore rebuilds an in-memory proposal from its persisted record. Records
// arrive in id order, so replaying the content index keeps last-writer-wins.
func (s *ProposalStore) restore(rec *storage.ProposalRecord) {
	p := &Proposal{
		ID:          rec.ID,
		Title:       rec.Title,
		Summary:     rec.Summary,
		ContentHash: rec.ContentHash,
		Author:      rec.Author,
		Tally:       ballot.Tally{For: rec.YesVotes, Against: rec.NoVotes},
		Approved:    rec.Approved,
		Executed:    rec.Executed,
		CreatedAt:   rec.CreatedAt,
		ballots:     ballot.NewSet(),
	}
	for _, voter := range rec.Voters {
		p.ballots[voter] = struct{}{}
	}
	s.proposals = append(s.proposals, p)
	s.byHash[rec.ContentHash] = rec.ID
}
