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
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/paperdao/papergov/storage"
)

// Engine is the public surface of the permissioned variant. It combines the
// reviewer registry, the proposal store and the evaluation logic, and posts
// an event for every state-changing operation.
type Engine struct {
	registry Registry
	store    *ProposalStore

	submitFeed event.Feed
	voteFeed   event.Feed
	execFeed   event.Feed
	scope      event.SubscriptionScope
}

// NewEngine creates an engine over the given registry. When db is non-nil,
// proposals are persisted to it and reloaded on construction.
func NewEngine(registry Registry, db ethdb.KeyValueStore) (*Engine, error) {
	var persist *storage.Store
	if db != nil {
		persist = storage.NewStore(db)
	}
	store, err := NewProposalStore(persist)
	if err != nil {
		return nil, err
	}
	return &Engine{
		registry: registry,
		store:    store,
	}, nil
}

// Submit appends a new proposal. It never validates or deduplicates the
// submitted fields; the first submitter of a content hash stays the author
// of record for that submission even if the hash is submitted again later.
// now is the timestamp of the enclosing transaction.
func (e *Engine) Submit(author common.Address, title, summary, contentHash string, now uint64) (uint64, error) {
	id, err := e.store.Submit(title, summary, contentHash, author, now)
	if err != nil {
		return 0, err
	}
	log.Info("Proposal submitted", "id", id, "author", author, "contentHash", contentHash)
	e.submitFeed.Send(SubmittedEvent{ID: id, Author: author, ContentHash: contentHash})
	return id, nil
}

// Vote casts voter's vote on the proposal. Only registry members qualify;
// a second vote by the same identity fails ErrAlreadyVoted with no tally
// change.
func (e *Engine) Vote(id uint64, voter common.Address, support bool) error {
	p, err := e.store.RecordVote(id, voter, support, func(addr common.Address) error {
		if !e.registry.IsReviewer(addr) {
			return ErrUnauthorized
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("Vote cast", "id", id, "voter", voter, "support", support,
		"yes", p.Tally.For, "no", p.Tally.Against)
	e.voteFeed.Send(VoteEvent{
		ID:      id,
		Voter:   voter,
		Support: support,
		Yes:     p.Tally.For,
		No:      p.Tally.Against,
	})
	return nil
}

// Execute finalizes the proposal. The caller must be a reviewer; the
// decision follows the evaluator's precedence and is idempotent-checked, so
// a repeated call on an executed proposal fails ErrAlreadyExecuted.
func (e *Engine) Execute(id uint64, caller common.Address) error {
	if !e.registry.IsReviewer(caller) {
		return ErrUnauthorized
	}
	p, err := e.store.Execute(id, e.registry.Quorum())
	if err != nil {
		return err
	}
	log.Info("Proposal executed", "id", id, "yes", p.Tally.For, "no", p.Tally.Against)
	e.execFeed.Send(ExecutedEvent{ID: id})
	return nil
}

// Get returns a read-only snapshot of the proposal.
func (e *Engine) Get(id uint64) (*Proposal, error) {
	return e.store.Get(id)
}

// IDByContent returns the proposal id the content index holds for hash, or
// the zero id when the hash was never submitted.
func (e *Engine) IDByContent(hash string) uint64 {
	return e.store.IDByContent(hash)
}

// SubscribeSubmitted registers ch for SubmittedEvent notifications.
func (e *Engine) SubscribeSubmitted(ch chan<- SubmittedEvent) event.Subscription {
	return e.scope.Track(e.submitFeed.Subscribe(ch))
}

// SubscribeVotes registers ch for VoteEvent notifications.
func (e *Engine) SubscribeVotes(ch chan<- VoteEvent) event.Subscription {
	return e.scope.Track(e.voteFeed.Subscribe(ch))
}

// SubscribeExecuted registers ch for ExecutedEvent notifications.
func (e *Engine) SubscribeExecuted(ch chan<- ExecutedEvent) event.Subscription {
	return e.scope.Track(e.execFeed.Subscribe(ch))
}

// Close terminates all event subscriptions.
func (e *Engine) Close() {
	e.scope.Close()
}
