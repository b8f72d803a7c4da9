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
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"

	"github.com/paperdao/papergov/token"
)

var (
	author = common.HexToAddress("0xaa")
	voterA = common.HexToAddress("0x1")
	voterB = common.HexToAddress("0x2")
	voterC = common.HexToAddress("0x3")
)

// testFixture wires a ledger to an in-memory token ledger with funded and
// approved voters and a funded custody account.
type testFixture struct {
	ledger *Ledger
	tokens *token.Ledger
	config *Config
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	config := DefaultConfig()
	config.StakeAmount = big.NewInt(10)
	config.RewardAmount = big.NewInt(50)
	config.MinReward = big.NewInt(1)

	tokens := token.NewLedger()
	for _, voter := range []common.Address{voterA, voterB, voterC} {
		if err := tokens.Mint(voter, big.NewInt(100)); err != nil {
			t.Fatalf("mint: %v", err)
		}
		if err := tokens.Approve(voter, config.Custody, big.NewInt(100)); err != nil {
			t.Fatalf("approve: %v", err)
		}
	}
	if err := tokens.Mint(config.Custody, big.NewInt(1000)); err != nil {
		t.Fatalf("mint custody: %v", err)
	}

	ledger, err := NewLedger(config, tokens.Bind(config.Custody), nil)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	t.Cleanup(ledger.Close)
	return &testFixture{ledger: ledger, tokens: tokens, config: config}
}

func TestStakeAndVoteCapturesStake(t *testing.T) {
	f := newFixture(t)
	id, _ := f.ledger.SubmitPaper(author, "t", "s", "Qm1", 1)

	custodyBefore := f.tokens.BalanceOf(f.config.Custody)
	if err := f.ledger.StakeAndVote(id, voterA, true); err != nil {
		t.Fatalf("vote: %v", err)
	}

	if got := f.tokens.BalanceOf(voterA); got.Cmp(big.NewInt(90)) != 0 {
		t.Errorf("voter balance after stake: %v", got)
	}
	want := new(big.Int).Add(custodyBefore, f.config.StakeAmount)
	if got := f.tokens.BalanceOf(f.config.Custody); got.Cmp(want) != 0 {
		t.Errorf("custody balance after stake: %v, want %v", got, want)
	}

	p, _ := f.ledger.GetPaper(id)
	if p.Tally.For != 1 || p.Tally.Against != 0 {
		t.Errorf("tally after vote: %+v", p.Tally)
	}
}

func TestStakeTransferDenialLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	id, _ := f.ledger.SubmitPaper(author, "t", "s", "Qm1", 1)

	// Revoke the voter's allowance so stake capture is denied.
	f.tokens.Approve(voterA, f.config.Custody, big.NewInt(0))

	err := f.ledger.StakeAndVote(id, voterA, true)
	if !errors.Is(err, ErrStakeTransferFailed) {
		t.Fatalf("expected ErrStakeTransferFailed, got %v", err)
	}
	p, _ := f.ledger.GetPaper(id)
	if p.Tally.Total() != 0 {
		t.Errorf("denied stake mutated tally: %+v", p.Tally)
	}
	if got := f.tokens.BalanceOf(voterA); got.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("denied stake moved tokens: %v", got)
	}

	// The ballot set is untouched: the voter can vote after re-approving.
	f.tokens.Approve(voterA, f.config.Custody, big.NewInt(100))
	if err := f.ledger.StakeAndVote(id, voterA, true); err != nil {
		t.Fatalf("vote after re-approval: %v", err)
	}
}

func TestDuplicateVoteDoesNotCaptureStake(t *testing.T) {
	f := newFixture(t)
	id, _ := f.ledger.SubmitPaper(author, "t", "s", "Qm1", 1)

	if err := f.ledger.StakeAndVote(id, voterA, true); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if err := f.ledger.StakeAndVote(id, voterA, false); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
	// Only the first stake was captured.
	if got := f.tokens.BalanceOf(voterA); got.Cmp(big.NewInt(90)) != 0 {
		t.Errorf("duplicate vote moved tokens: %v", got)
	}
}

func TestDistributePaysRewardOnMajority(t *testing.T) {
	f := newFixture(t)
	id, _ := f.ledger.SubmitPaper(author, "t", "s", "Qm1", 1)

	f.ledger.StakeAndVote(id, voterA, true)
	f.ledger.StakeAndVote(id, voterB, true)
	f.ledger.StakeAndVote(id, voterC, false)

	paid, err := f.ledger.DistributeRewards(id)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if !paid {
		t.Fatal("expected reward payout")
	}
	if got := f.tokens.BalanceOf(author); got.Cmp(f.config.RewardAmount) != 0 {
		t.Errorf("author reward balance: %v, want %v", got, f.config.RewardAmount)
	}
	p, _ := f.ledger.GetPaper(id)
	if !p.Published {
		t.Error("paper not marked published")
	}

	if _, err := f.ledger.DistributeRewards(id); !errors.Is(err, ErrAlreadyPublished) {
		t.Errorf("second distribute: expected ErrAlreadyPublished, got %v", err)
	}
}

func TestDistributeWithoutMajorityIsRetryable(t *testing.T) {
	f := newFixture(t)
	id, _ := f.ledger.SubmitPaper(author, "t", "s", "Qm1", 1)

	f.ledger.StakeAndVote(id, voterA, true)
	f.ledger.StakeAndVote(id, voterB, false)

	paid, err := f.ledger.DistributeRewards(id)
	if err != nil {
		t.Fatalf("distribute on tie must succeed: %v", err)
	}
	if paid {
		t.Fatal("tie must not pay")
	}
	p, _ := f.ledger.GetPaper(id)
	if p.Published {
		t.Fatal("tie must not publish")
	}

	// More votes accrue and the retry pays out.
	f.ledger.StakeAndVote(id, voterC, true)
	paid, err = f.ledger.DistributeRewards(id)
	if err != nil || !paid {
		t.Fatalf("retry after majority: paid=%v err=%v", paid, err)
	}
}

func TestVoteOnPublishedPaperFails(t *testing.T) {
	f := newFixture(t)
	id, _ := f.ledger.SubmitPaper(author, "t", "s", "Qm1", 1)
	f.ledger.StakeAndVote(id, voterA, true)
	f.ledger.DistributeRewards(id)

	err := f.ledger.StakeAndVote(id, voterB, true)
	if !errors.Is(err, ErrAlreadyPublished) {
		t.Fatalf("expected ErrAlreadyPublished, got %v", err)
	}
	// The denied vote captured no stake.
	if got := f.tokens.BalanceOf(voterB); got.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("vote on published paper moved tokens: %v", got)
	}
}

func TestDeniedRewardTransferAbortsDistribution(t *testing.T) {
	config := DefaultConfig()
	config.StakeAmount = big.NewInt(10)
	config.RewardAmount = big.NewInt(50)

	// Custody holds nothing, so the reward transfer is denied.
	tokens := token.NewLedger()
	tokens.Mint(voterA, big.NewInt(100))
	tokens.Approve(voterA, config.Custody, big.NewInt(100))

	ledger, err := NewLedger(config, tokens.Bind(config.Custody), nil)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	defer ledger.Close()

	id, _ := ledger.SubmitPaper(author, "t", "s", "Qm1", 1)
	ledger.StakeAndVote(id, voterA, true)

	// The single captured stake (10) cannot fund the 50-token reward.
	_, err = ledger.DistributeRewards(id)
	if !errors.Is(err, ErrRewardTransferFailed) {
		t.Fatalf("expected ErrRewardTransferFailed, got %v", err)
	}
	p, _ := ledger.GetPaper(id)
	if p.Published {
		t.Fatal("denied payout must not publish")
	}

	// Once custody is funded the same call commits.
	tokens.Mint(config.Custody, big.NewInt(1000))
	paid, err := ledger.DistributeRewards(id)
	if err != nil || !paid {
		t.Fatalf("distribute after funding: paid=%v err=%v", paid, err)
	}
}

func TestPaperRoundTrip(t *testing.T) {
	f := newFixture(t)
	id, err := f.ledger.SubmitPaper(author, "Incentive Compatibility", "a summary", "QmPaper", 1700000000)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	p, err := f.ledger.GetPaper(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Title != "Incentive Compatibility" || p.Summary != "a summary" ||
		p.ContentHash != "QmPaper" || p.Author != author || p.CreatedAt != 1700000000 {
		t.Errorf("fields changed in round trip: %+v", p)
	}
	if _, err := f.ledger.GetPaper(id + 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDuplicateContentHashIndex(t *testing.T) {
	f := newFixture(t)
	f.ledger.SubmitPaper(author, "first", "", "Qm1", 1)
	id1, _ := f.ledger.SubmitPaper(author, "second", "", "Qm1", 2)

	if got := f.ledger.IDByContent("Qm1"); got != id1 {
		t.Errorf("index should point at latest submission %d, got %d", id1, got)
	}
}

func TestLedgerEvents(t *testing.T) {
	f := newFixture(t)

	voteCh := make(chan VoteEvent, 1)
	rewardCh := make(chan RewardsPaidEvent, 1)
	receiveCh := make(chan ValueReceivedEvent, 1)
	defer f.ledger.SubscribeVotes(voteCh).Unsubscribe()
	defer f.ledger.SubscribeRewards(rewardCh).Unsubscribe()
	defer f.ledger.SubscribeReceived(receiveCh).Unsubscribe()

	id, _ := f.ledger.SubmitPaper(author, "t", "s", "Qm1", 1)
	f.ledger.StakeAndVote(id, voterA, true)
	f.ledger.DistributeRewards(id)
	f.ledger.Receive(voterB, big.NewInt(7))

	vote := <-voteCh
	if vote.ID != id || vote.Voter != voterA || vote.Stake.Cmp(f.config.StakeAmount) != 0 {
		t.Errorf("unexpected VoteEvent %+v", vote)
	}
	reward := <-rewardCh
	if reward.ID != id || reward.Recipient != author || reward.Amount.Cmp(f.config.RewardAmount) != 0 {
		t.Errorf("unexpected RewardsPaidEvent %+v", reward)
	}
	received := <-receiveCh
	if received.From != voterB || received.Amount.Cmp(big.NewInt(7)) != 0 {
		t.Errorf("unexpected ValueReceivedEvent %+v", received)
	}
}

func TestLedgerReloadsPersistedState(t *testing.T) {
	db := rawdb.NewMemoryDatabase()
	config := DefaultConfig()
	config.StakeAmount = big.NewInt(10)
	config.RewardAmount = big.NewInt(50)

	tokens := token.NewLedger()
	tokens.Mint(voterA, big.NewInt(100))
	tokens.Approve(voterA, config.Custody, big.NewInt(100))
	tokens.Mint(config.Custody, big.NewInt(1000))

	ledger, err := NewLedger(config, tokens.Bind(config.Custody), db)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	id, _ := ledger.SubmitPaper(author, "t", "s", "Qm1", 1)
	ledger.StakeAndVote(id, voterA, true)
	ledger.DistributeRewards(id)
	ledger.Close()

	reloaded, err := NewLedger(config, tokens.Bind(config.Custody), db)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	defer reloaded.Close()

	p, err := reloaded.GetPaper(id)
	if err != nil {
		t.Fatalf("get after reload: %v", err)
	}
	if !p.Published || p.Tally.For != 1 {
		t.Errorf("persisted state lost: %+v", p)
	}
	if reloaded.store.PublishedCount() != 1 {
		t.Errorf("published count not restored")
	}
	if _, err := reloaded.DistributeRewards(id); !errors.Is(err, ErrAlreadyPublished) {
		t.Errorf("terminal flag lost across reload: %v", err)
	}
}
