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

// Package storage persists governance records to an ethdb key-value store.
// Records are RLP encoded under keccak-derived keys; ballot membership is
// part of the payload so that duplicate-vote prevention survives a restart.
package storage

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"
)

// Storage key prefixes
var (
	proposalPrefix   = []byte("papergov-proposal")
	paperPrefix      = []byte("papergov-paper")
	proposalCountKey = crypto.Keccak256([]byte("papergov-proposal-count"))
	paperCountKey    = crypto.Keccak256([]byte("papergov-paper-count"))
)

// ProposalRecord is the wire form of a permissioned-variant proposal.
type ProposalRecord struct {
	ID          uint64
	Title       string
	Summary     string
	ContentHash string
	Author      common.Address
	YesVotes    uint64
	NoVotes     uint64
	Voters      []common.Address
	Approved    bool
	Executed    bool
	CreatedAt   uint64
}

// PaperRecord is the wire form of a stake-variant paper.
type PaperRecord struct {
	ID           uint64
	Title        string
	Summary      string
	ContentHash  string
	Author       common.Address
	VotesFor     uint64
	VotesAgainst uint64
	Voters       []common.Address
	Published    bool
	CreatedAt    uint64
}

// Store reads and writes governance records on a key-value database.
type Store struct {
	db ethdb.KeyValueStore
}

// NewStore creates a store on top of db.
func NewStore(db ethdb.KeyValueStore) *Store {
	return &Store{db: db}
}

// SaveProposal writes rec and advances the proposal counter when rec extends
// the arena.
func (s *Store) SaveProposal(rec *ProposalRecord) error {
	encoded, err := rlp.EncodeToBytes(rec)
	if err != nil {
		return err
	}
	if err := s.db.Put(makeKey(proposalPrefix, rec.ID), encoded); err != nil {
		return err
	}
	return s.advance(proposalCountKey, rec.ID)
}

// LoadProposal reads the proposal with the given id. The second return value
// is false when no record exists.
func (s *Store) LoadProposal(id uint64) (*ProposalRecord, bool, error) {
	key := makeKey(proposalPrefix, id)
	ok, err := s.db.Has(key)
	if err != nil || !ok {
		return nil, false, err
	}
	encoded, err := s.db.Get(key)
	if err != nil {
		return nil, false, err
	}
	rec := new(ProposalRecord)
	if err := rlp.DecodeBytes(encoded, rec); err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// LoadProposals reads all proposals in id order.
func (s *Store) LoadProposals() ([]*ProposalRecord, error) {
	count, err := s.count(proposalCountKey)
	if err != nil {
		return nil, err
	}
	records := make([]*ProposalRecord, 0, count)
	for id := uint64(0); id < count; id++ {
		rec, ok, err := s.LoadProposal(id)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// SavePaper writes rec and advances the paper counter when rec extends the
// arena.
func (s *Store) SavePaper(rec *PaperRecord) error {
	encoded, err := rlp.EncodeToBytes(rec)
	if err != nil {
		return err
	}
	if err := s.db.Put(makeKey(paperPrefix, rec.ID), encoded); err != nil {
		return err
	}
	return s.advance(paperCountKey, rec.ID)
}

// LoadPaper reads the paper with the given id. The second return value is
// false when no record exists.
func (s *Store) LoadPaper(id uint64) (*PaperRecord, bool, error) {
	key := makeKey(paperPrefix, id)
	ok, err := s.db.Has(key)
	if err != nil || !ok {
		return nil, false, err
	}
	encoded, err := s.db.Get(key)
	if err != nil {
		return nil, false, err
	}
	rec := new(PaperRecord)
	if err := rlp.DecodeBytes(encoded, rec); err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// LoadPapers reads all papers in id order.
func (s *Store) LoadPapers() ([]*PaperRecord, error) {
	count, err := s.count(paperCountKey)
	if err != nil {
		return nil, err
	}
	records := make([]*PaperRecord, 0, count)
	for id := uint64(0); id < count; id++ {
		rec, ok, err := s.LoadPaper(id)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// advance bumps the counter under key to id+1 if the record extends the
// arena. Ids are assigned sequentially, so the counter equals the highest
// id written plus one.
func (s *Store) advance(key []byte, id uint64) error {
	count, err := s.count(key)
	if err != nil {
		return err
	}
	if id < count {
		return nil
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id+1)
	return s.db.Put(key, buf)
}

func (s *Store) count(key []byte) (uint64, error) {
	ok, err := s.db.Has(key)
	if err != nil || !ok {
		return 0, err
	}
	buf, err := s.db.Get(key)
	if err != nil {
		return 0, err
	}
	if len(buf) != 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(buf), nil
}

// makeKey derives the storage key for a record id.
func makeKey(prefix []byte, id uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return crypto.Keccak256(prefix, buf)
}
