// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package custody is a reference balance ledger with reservable funds.
// Balances live in the same state as the staking records, so a reservation is
// committed or reverted together with the staking operation that made it.
package custody

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/log"
	"github.com/vechain/creator-staking/slots"
	"github.com/vechain/creator-staking/staking/reverts"
	"github.com/vechain/creator-staking/state"
	"github.com/vechain/creator-staking/thor"
)

const namespace = "custody"

var logger = log.WithContext("pkg", "custody")

// Balance is the funds of an account.
type Balance struct {
	Free     *uint256.Int `json:"free"`
	Reserved *uint256.Int `json:"reserved"`
}

func newBalance() *Balance {
	return &Balance{Free: new(uint256.Int), Reserved: new(uint256.Int)}
}

// Ledger keeps free and reserved balances per account.
type Ledger struct {
	balances *slots.Mapping[thor.Address, *Balance]
}

func New(st *state.State) *Ledger {
	return &Ledger{
		balances: slots.NewMapping[thor.Address, *Balance](slots.NewContext(namespace, st), "balances"),
	}
}

// Balance returns the balance of account. Unknown accounts have zero balance.
func (l *Ledger) Balance(account thor.Address) (*Balance, error) {
	exists, err := l.balances.Exists(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check balance")
	}
	if !exists {
		return newBalance(), nil
	}
	b, err := l.balances.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return b, nil
}

func (l *Ledger) setBalance(account thor.Address, b *Balance) error {
	if b.Free.IsZero() && b.Reserved.IsZero() {
		l.balances.Delete(account)
		return nil
	}
	return errors.Wrap(l.balances.Set(account, b), "failed to set balance")
}

// Deposit credits free funds, used for genesis allocations.
func (l *Ledger) Deposit(account thor.Address, amount *uint256.Int) error {
	b, err := l.Balance(account)
	if err != nil {
		return err
	}
	if _, overflow := b.Free.AddOverflow(b.Free, amount); overflow {
		return reverts.ErrOverflow
	}
	logger.Debug("deposited", "account", account, "amount", amount)
	return l.setBalance(account, b)
}

// CanReserve returns whether the free balance covers amount.
func (l *Ledger) CanReserve(account thor.Address, amount *uint256.Int) (bool, error) {
	b, err := l.Balance(account)
	if err != nil {
		return false, err
	}
	return !b.Free.Lt(amount), nil
}

// Reserve moves amount from free to reserved.
func (l *Ledger) Reserve(account thor.Address, amount *uint256.Int) error {
	b, err := l.Balance(account)
	if err != nil {
		return err
	}
	if b.Free.Lt(amount) {
		return reverts.ErrInsufficientBalance
	}
	reserved, overflow := new(uint256.Int).AddOverflow(b.Reserved, amount)
	if overflow {
		return reverts.ErrOverflow
	}
	b.Free.Sub(b.Free, amount)
	b.Reserved = reserved
	return l.setBalance(account, b)
}

// Unreserve moves amount from reserved back to free. Only the reserved part is
// moved when amount exceeds it.
func (l *Ledger) Unreserve(account thor.Address, amount *uint256.Int) error {
	b, err := l.Balance(account)
	if err != nil {
		return err
	}
	moved := amount
	if amount.Gt(b.Reserved) {
		logger.Warn("unreserving more than reserved", "account", account, "amount", amount, "reserved", b.Reserved)
		moved = b.Reserved.Clone()
	}
	free, overflow := new(uint256.Int).AddOverflow(b.Free, moved)
	if overflow {
		return reverts.ErrOverflow
	}
	b.Reserved = new(uint256.Int).Sub(b.Reserved, moved)
	b.Free = free
	return l.setBalance(account, b)
}
