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
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SubmittedEvent is posted after a paper has been appended to the store.
type SubmittedEvent struct {
	ID          uint64
	Author      common.Address
	ContentHash string
}

// VoteEvent is posted after a stake-backed vote has been counted. Stake is
// the amount captured for this vote; For and Against carry the tally as of
// this vote.
type VoteEvent struct {
	ID      uint64
	Voter   common.Address
	Support bool
	Stake   *big.Int
	For     uint64
	Against uint64
}

// RewardsPaidEvent is posted after a paper has been published and its reward
// transferred to the submitter.
type RewardsPaidEvent struct {
	ID        uint64
	Recipient common.Address
	Amount    *big.Int
}

// ValueReceivedEvent is posted when the ledger accepts an unconditioned
// incoming value transfer.
type ValueReceivedEvent struct {
	From   common.Address
	Amount *big.Int
}
