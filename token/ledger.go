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

package token

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Ledger is an in-memory fungible-token ledger with ERC-20 style balances and
// allowances. Amounts cross the API as *big.Int to match the Service
// interface; internally balances are uint256 words.
type Ledger struct {
	mu         sync.RWMutex
	balances   map[common.Address]*uint256.Int
	allowances map[common.Address]map[common.Address]*uint256.Int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances:   make(map[common.Address]*uint256.Int),
		allowances: make(map[common.Address]map[common.Address]*uint256.Int),
	}
}

// Mint credits amount to addr. Used to seed balances when wiring the system
// up; a deployed installation would receive balances from the real token
// contract instead.
func (l *Ledger) Mint(addr common.Address, amount *big.Int) error {
	val, err := toWord(amount)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balanceOf(addr).Add(l.balanceOf(addr), val)
	return nil
}

// BalanceOf returns addr's current balance.
func (l *Ledger) BalanceOf(addr common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if bal, ok := l.balances[addr]; ok {
		return bal.ToBig()
	}
	return new(big.Int)
}

// Approve sets the allowance owner grants to spender.
func (l *Ledger) Approve(owner, spender common.Address, amount *big.Int) error {
	val, err := toWord(amount)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.allowances[owner] == nil {
		l.allowances[owner] = make(map[common.Address]*uint256.Int)
	}
	l.allowances[owner][spender] = val
	return nil
}

// Allowance returns the remaining allowance owner has granted to spender.
func (l *Ledger) Allowance(owner, spender common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if granted, ok := l.allowances[owner][spender]; ok {
		return granted.ToBig()
	}
	return new(big.Int)
}

// Bind returns a Service view of the ledger acting as caller. The governance
// core holds one binding for its custody account.
func (l *Ledger) Bind(caller common.Address) Service {
	return &binding{ledger: l, caller: caller}
}

type binding struct {
	ledger *Ledger
	caller common.Address
}

func (b *binding) TransferFrom(from, to common.Address, amount *big.Int) error {
	val, err := toWord(amount)
	if err != nil {
		return err
	}
	l := b.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	granted, ok := l.allowances[from][b.caller]
	if !ok || granted.Lt(val) {
		return ErrInsufficientAllowance
	}
	if err := l.move(from, to, val); err != nil {
		return err
	}
	granted.Sub(granted, val)
	return nil
}

func (b *binding) Transfer(to common.Address, amount *big.Int) error {
	val, err := toWord(amount)
	if err != nil {
		return err
	}
	l := b.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.move(b.caller, to, val)
}

// move transfers val between accounts. Callers hold the write lock.
func (l *Ledger) move(from, to common.Address, val *uint256.Int) error {
	src := l.balanceOf(from)
	if src.Lt(val) {
		return ErrInsufficientBalance
	}
	src.Sub(src, val)
	l.balanceOf(to).Add(l.balanceOf(to), val)
	return nil
}

// balanceOf returns the mutable balance word for addr, creating it on first
// use. Callers hold the write lock.
func (l *Ledger) balanceOf(addr common.Address) *uint256.Int {
	bal, ok := l.balances[addr]
	if !ok {
		bal = new(uint256.Int)
		l.balances[addr] = bal
	}
	return bal
}

func toWord(amount *big.Int) (*uint256.Int, error) {
	if amount == nil {
		return new(uint256.Int), nil
	}
	if amount.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	val, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, ErrInsufficientBalance
	}
	return val, nil
}
