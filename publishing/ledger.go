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
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/paperdao/papergov/storage"
	"github.com/paperdao/papergov/token"
)

// Ledger is the public surface of the stake-based variant. It orchestrates
// stake custody and reward payout against the external token service and
// posts an event for every state-changing operation.
type Ledger struct {
	config  *Config
	store   *PaperStore
	token   token.Service
	rewards *RewardCalculator

	submitFeed  event.Feed
	voteFeed    event.Feed
	rewardFeed  event.Feed
	receiveFeed event.Feed
	scope       event.SubscriptionScope
}

// NewLedger creates a ledger over the given token service. When db is
// non-nil, papers are persisted to it and reloaded on construction.
func NewLedger(config *Config, svc token.Service, db ethdb.KeyValueStore) (*Ledger, error) {
	var persist *storage.Store
	if db != nil {
		persist = storage.NewStore(db)
	}
	store, err := NewPaperStore(persist)
	if err != nil {
		return nil, err
	}
	return &Ledger{
		config:  config,
		store:   store,
		token:   svc,
		rewards: NewRewardCalculator(config),
	}, nil
}

// SubmitPaper appends a new paper. Submission is open to anyone and never
// validates or deduplicates the submitted fields. now is the timestamp of
// the enclosing transaction.
func (l *Ledger) SubmitPaper(author common.Address, title, summary, contentHash string, now uint64) (uint64, error) {
	id, err := l.store.Submit(title, summary, contentHash, author, now)
	if err != nil {
		return 0, err
	}
	log.Info("Paper submitted", "id", id, "author", author, "contentHash", contentHash)
	l.submitFeed.Send(SubmittedEvent{ID: id, Author: author, ContentHash: contentHash})
	return id, nil
}

// StakeAndVote casts voter's vote on the paper, capturing the fixed stake
// amount into custody first. A denied stake transfer fails the whole
// operation with ErrStakeTransferFailed and no state change.
func (l *Ledger) StakeAndVote(id uint64, voter common.Address, support bool) error {
	p, err := l.store.RecordVote(id, voter, support, func() error {
		if err := l.token.TransferFrom(voter, l.config.Custody, l.config.StakeAmount); err != nil {
			return fmt.Errorf("%w: %v", ErrStakeTransferFailed, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("Stake vote cast", "id", id, "voter", voter, "support", support,
		"stake", l.config.StakeAmount, "for", p.Tally.For, "against", p.Tally.Against)
	l.voteFeed.Send(VoteEvent{
		ID:      id,
		Voter:   voter,
		Support: support,
		Stake:   new(big.Int).Set(l.config.StakeAmount),
		For:     p.Tally.For,
		Against: p.Tally.Against,
	})
	return nil
}

// DistributeRewards finalizes the paper if its tally holds a strict
// majority: the reward is transferred to the submitter and the paper is
// marked published, as one indivisible unit. Without a majority the call
// succeeds with paid=false and may be retried later. A paper that is
// already published fails ErrAlreadyPublished.
func (l *Ledger) DistributeRewards(id uint64) (bool, error) {
	reward := l.rewards.RewardAt(l.store.PublishedCount())

	p, paid, err := l.store.Finalize(id, func(author common.Address) error {
		if err := l.token.Transfer(author, reward); err != nil {
			return fmt.Errorf("%w: %v", ErrRewardTransferFailed, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if !paid {
		log.Info("Distribution deferred, no majority", "id", id,
			"for", p.Tally.For, "against", p.Tally.Against)
		return false, nil
	}
	log.Info("Rewards distributed", "id", id, "recipient", p.Author, "amount", reward)
	l.rewardFeed.Send(RewardsPaidEvent{ID: id, Recipient: p.Author, Amount: reward})
	return true, nil
}

// GetPaper returns a read-only snapshot of the paper.
func (l *Ledger) GetPaper(id uint64) (*Paper, error) {
	return l.store.Get(id)
}

// IDByContent returns the paper id the content index holds for hash, or the
// zero id when the hash was never submitted.
func (l *Ledger) IDByContent(hash string) uint64 {
	return l.store.IDByContent(hash)
}

// Receive accepts an unconditioned incoming value transfer. The value lands
// in custody through the external token mechanism; the ledger only
// acknowledges it and executes no further logic.
func (l *Ledger) Receive(from common.Address, amount *big.Int) {
	log.Info("Value received", "from", from, "amount", amount)
	l.receiveFeed.Send(ValueReceivedEvent{From: from, Amount: new(big.Int).Set(amount)})
}

// SubscribeSubmitted registers ch for SubmittedEvent notifications.
func (l *Ledger) SubscribeSubmitted(ch chan<- SubmittedEvent) event.Subscription {
	return l.scope.Track(l.submitFeed.Subscribe(ch))
}

// SubscribeVotes registers ch for VoteEvent notifications.
func (l *Ledger) SubscribeVotes(ch chan<- VoteEvent) event.Subscription {
	return l.scope.Track(l.voteFeed.Subscribe(ch))
}

// SubscribeRewards registers ch for RewardsPaidEvent notifications.
func (l *Ledger) SubscribeRewards(ch chan<- RewardsPaidEvent) event.Subscription {
	return l.scope.Track(l.rewardFeed.Subscribe(ch))
}

// SubscribeReceived registers ch for ValueReceivedEvent notifications.
func (l *Ledger) SubscribeReceived(ch chan<- ValueReceivedEvent) event.Subscription {
	return l.scope.Track(l.receiveFeed.Subscribe(ch))
}

// Close terminates all event subscriptions.
func (l *Ledger) Close() {
	l.scope.Close()
}
