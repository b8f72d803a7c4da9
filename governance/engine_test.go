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
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/ethdb"
)

var (
	reviewer1 = common.HexToAddress("0x1")
	reviewer2 = common.HexToAddress("0x2")
	reviewer3 = common.HexToAddress("0x3")
	outsider  = common.HexToAddress("0x99")
)

func newTestEngine(t *testing.T, quorum uint64, db ethdb.KeyValueStore) *Engine {
	t.Helper()
	registry := NewReviewerRegistry(&RegistryConfig{
		Reviewers: []common.Address{reviewer1, reviewer2, reviewer3},
		Quorum:    quorum,
	})
	e, err := NewEngine(registry, db)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestVoteRequiresReviewer(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	id, _ := e.Submit(outsider, "t", "s", "Qm1", 1)

	if err := e.Vote(id, outsider, true); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	p, _ := e.Get(id)
	if p.Tally.Total() != 0 {
		t.Errorf("unauthorized vote mutated tally: %+v", p.Tally)
	}
}

func TestExecuteRequiresReviewer(t *testing.T) {
	e := newTestEngine(t, 1, nil)
	id, _ := e.Submit(outsider, "t", "s", "Qm1", 1)
	e.Vote(id, reviewer1, true)

	if err := e.Execute(id, outsider); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := e.Execute(id, reviewer1); err != nil {
		t.Fatalf("reviewer execute: %v", err)
	}
}

func TestQuorumLifecycle(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	id, _ := e.Submit(outsider, "t", "s", "Qm1", 1)

	if err := e.Vote(id, reviewer1, true); err != nil {
		t.Fatalf("vote 1: %v", err)
	}
	if err := e.Execute(id, reviewer1); !errors.Is(err, ErrQuorumNotMet) {
		t.Fatalf("below quorum: expected ErrQuorumNotMet, got %v", err)
	}

	if err := e.Vote(id, reviewer2, true); err != nil {
		t.Fatalf("vote 2: %v", err)
	}
	if err := e.Execute(id, reviewer1); err != nil {
		t.Fatalf("execute at quorum: %v", err)
	}

	p, _ := e.Get(id)
	if !p.Approved || !p.Executed {
		t.Fatalf("expected approved+executed, got %+v", p)
	}
	if err := e.Execute(id, reviewer2); !errors.Is(err, ErrAlreadyExecuted) {
		t.Fatalf("third execute: expected ErrAlreadyExecuted, got %v", err)
	}
}

func TestEngineEvents(t *testing.T) {
	e := newTestEngine(t, 1, nil)

	submitCh := make(chan SubmittedEvent, 1)
	voteCh := make(chan VoteEvent, 1)
	execCh := make(chan ExecutedEvent, 1)
	defer e.SubscribeSubmitted(submitCh).Unsubscribe()
	defer e.SubscribeVotes(voteCh).Unsubscribe()
	defer e.SubscribeExecuted(execCh).Unsubscribe()

	id, _ := e.Submit(outsider, "t", "s", "Qm1", 1)
	e.Vote(id, reviewer1, true)
	e.Execute(id, reviewer1)

	sub := <-submitCh
	if sub.ID != id || sub.Author != outsider || sub.ContentHash != "Qm1" {
		t.Errorf("unexpected SubmittedEvent %+v", sub)
	}
	vote := <-voteCh
	if vote.ID != id || vote.Voter != reviewer1 || !vote.Support || vote.Yes != 1 || vote.No != 0 {
		t.Errorf("unexpected VoteEvent %+v", vote)
	}
	exec := <-execCh
	if exec.ID != id {
		t.Errorf("unexpected ExecutedEvent %+v", exec)
	}
}

func TestEngineReloadsPersistedState(t *testing.T) {
	db := rawdb.NewMemoryDatabase()

	e := newTestEngine(t, 2, db)
	id, _ := e.Submit(outsider, "t", "s", "Qm1", 7)
	e.Submit(outsider, "t2", "s2", "Qm1", 8)
	if err := e.Vote(id, reviewer1, true); err != nil {
		t.Fatalf("vote: %v", err)
	}

	reloaded := newTestEngine(t, 2, db)

	p, err := reloaded.Get(id)
	if err != nil {
		t.Fatalf("get after reload: %v", err)
	}
	if p.Title != "t" || p.CreatedAt != 7 || p.Tally.For != 1 {
		t.Errorf("persisted state lost: %+v", p)
	}
	// Content index replay keeps last-writer-wins.
	if got := reloaded.IDByContent("Qm1"); got != 1 {
		t.Errorf("index should point at id 1 after reload, got %d", got)
	}
	// Ballot membership survives: the same reviewer cannot vote again.
	if err := reloaded.Vote(id, reviewer1, true); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("expected ErrAlreadyVoted after reload, got %v", err)
	}
}
