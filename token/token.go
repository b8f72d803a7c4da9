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

// Package token models the external fungible-token service the stake-based
// governance variant depends on. The governance core treats the service as an
// opaque collaborator with transferFrom/transfer semantics; the in-memory
// Ledger here is a reference implementation used for wiring and tests.
package token

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient token balance")
	ErrInsufficientAllowance = errors.New("insufficient token allowance")
	ErrNegativeAmount        = errors.New("negative token amount")
)

// Service is the transfer surface the governance core calls into. A Service
// is bound to a caller identity: Transfer moves value out of the bound
// account, TransferFrom spends the allowance the from account granted to it.
type Service interface {
	// TransferFrom moves amount from the from account to the to account,
	// consuming allowance granted by from to the bound caller.
	TransferFrom(from, to common.Address, amount *big.Int) error

	// Transfer moves amount from the bound caller's account to the to
	// account.
	Transfer(to common.Address, amount *big.Int) error
}
