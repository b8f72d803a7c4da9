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
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/paperdao/papergov/ballot"
	"github.com/paperdao/papergov/storage"
)

// PaperStore owns all paper records. It mirrors the permissioned variant's
// proposal store: sequential ids that are never reused, a last-writer-wins
// content index, and mutation only through the vote and finalize operations.
// The stake capture and the reward payout run inside the store lock so a vote
// or a distribution is indivisible to every other operation.
type PaperStore struct {
	mu        sync.RWMutex
	papers    []*Paper
	byHash    map[string]uint64
	published uint64
	persist   *storage.Store
}

// NewPaperStore creates an empty store. persist may be nil for a purely
// in-memory store; otherwise existing records are loaded and every mutation
// is written through.
func NewPaperStore(persist *storage.Store) (*PaperStore, error) {
	s := &PaperStore{
		byHash:  make(map[string]uint64),
		persist: persist,
	}
	if persist == nil {
		return s, nil
	}
	records, err := persist.LoadPapers()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		s.restore(rec)
	}
	return s, nil
}

// Submit appends a new paper and points the content index at it. Submission
// always succeeds; duplicate content hashes are permitted.
func (s *PaperStore) Submit(title, summary, contentHash string, author common.Address, now uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &Paper{
		ID:          uint64(len(s.papers)),
		Title:       title,
		Summary:     summary,
		ContentHash: contentHash,
		Author:      author,
		CreatedAt:   now,
		ballots:     ballot.NewSet(),
	}
	s.papers = append(s.papers, p)
	s.byHash[contentHash] = p.ID

	if err := s.save(p); err != nil {
		return 0, err
	}
	return p.ID, nil
}

// Get returns a snapshot of the paper without its ballot set.
func (s *PaperStore) Get(id uint64) (*Paper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id >= uint64(len(s.papers)) {
		return nil, ErrNotFound
	}
	return s.papers[id].snapshot(), nil
}

// IDByContent returns the id the content index holds for hash. An absent
// hash yields the zero id; there is no distinct not-found signal.
func (s *PaperStore) IDByContent(hash string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.byHash[hash]
}

// Len returns the number of papers submitted so far.
func (s *PaperStore) Len() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return uint64(len(s.papers))
}

// PublishedCount returns the number of papers published so far.
func (s *PaperStore) PublishedCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.published
}

// RecordVote applies a single stake-backed vote. capture is the stake
// transfer and runs after the duplicate-ballot and terminal-flag checks but
// before any mutation: if it fails, the store is untouched. The returned
// snapshot reflects the updated tally.
func (s *PaperStore) RecordVote(id uint64, voter common.Address, support bool, capture func() error) (*Paper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id >= uint64(len(s.papers)) {
		return nil, ErrNotFound
	}
	p := s.papers[id]

	if p.ballots.Has(voter) {
		return nil, ErrAlreadyVoted
	}
	if p.Published {
		return nil, ErrAlreadyPublished
	}
	if err := capture(); err != nil {
		return nil, err
	}
	p.ballots.Add(voter)
	p.Tally.Record(support)

	if err := s.save(p); err != nil {
		return nil, err
	}
	return p.snapshot(), nil
}

// Finalize evaluates the paper's tally. Without a strict majority the call
// succeeds with paid=false and no mutation, so distribution may be retried
// as more votes accrue. With a majority, payout runs first and the terminal
// flag flips only once the transfer has succeeded; a denied payout aborts
// the call with no state change. Repeated calls on a published paper fail
// ErrAlreadyPublished.
func (s *PaperStore) Finalize(id uint64, payout func(author common.Address) error) (*Paper, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id >= uint64(len(s.papers)) {
		return nil, false, ErrNotFound
	}
	p := s.papers[id]

	if p.Published {
		return nil, false, ErrAlreadyPublished
	}
	if !p.Tally.Majority() {
		return p.snapshot(), false, nil
	}
	if err := payout(p.Author); err != nil {
		return nil, false, err
	}
	p.Published = true
	s.published++

	if err := s.save(p); err != nil {
		return nil, false, err
	}
	return p.snapshot(), true, nil
}

// save writes the paper through to the persistence layer. Callers hold the
// write lock.
func (s *PaperStore) save(p *Paper) error {
	if s.persist == nil {
		return nil
	}
	return s.persist.SavePaper(&storage.PaperRecord{
		ID:           p.ID,
		Title:        p.Title,
		Summary:      p.Summary,
		ContentHash:  p.ContentHash,
		Author:       p.Author,
		VotesFor:     p.Tally.For,
		VotesAgainst: p.Tally.Against,
		Voters:       p.ballots.Members(),
		Published:    p.Published,
		CreatedAt:    p.CreatedAt,
	})
}

// restore rebuilds an in-memory paper from its persisted record.
func (s *PaperStore) restore(rec *storage.PaperRecord) {
	p := &Paper{
		ID:          rec.ID,
		Title:       rec.Title,
		Summary:     rec.Summary,
		ContentHash: rec.ContentHash,
		Author:      rec.Author,
		Tally:       ballot.Tally{For: rec.VotesFor, Against: rec.VotesAgainst},
		Published:   rec.Published,
		CreatedAt:   rec.CreatedAt,
		ballots:     ballot.NewSet(),
	}
	for _, voter := range rec.Voters {
		p.ballots[voter] = struct{}{}
	}
	s.papers = append(s.papers, p)
	s.byHash[rec.ContentHash] = rec.ID
	if rec.Published {
		s.published++
	}
}
