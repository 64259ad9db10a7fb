package account

import (
	"sync"

	"github.com/shopspring/decimal"

	"cryptobot/internal/model"
)

// Account is the shared ledger of free and blocked funds per currency. One
// instance funds every pair trader in the process, so all mutations go through
// a single mutex; the compound settlement methods keep multi-step updates
// atomic with respect to other traders.
//
// Unknown currencies read as zero. Both ledgers clamp at zero on subtraction.
type Account struct {
	mu      sync.Mutex
	balance map[model.Currency]decimal.Decimal
	blocked map[model.Currency]decimal.Decimal
}

// New creates an empty account.
func New() *Account {
	return &Account{
		balance: make(map[model.Currency]decimal.Decimal),
		blocked: make(map[model.Currency]decimal.Decimal),
	}
}

// AddAsset credits amount to the free balance of currency.
func (a *Account) AddAsset(currency model.Currency, amount decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance[currency] = a.balance[currency].Add(amount)
}

// RemoveAsset debits amount from the free balance of currency, flooring at
// zero.
func (a *Account) RemoveAsset(currency model.Currency, amount decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.removeLocked(currency, amount)
}

// BlockAsset reserves amount of currency against an open order. The reserve is
// not checked against the balance; callers only block what they computed from
// it.
func (a *Account) BlockAsset(currency model.Currency, amount decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blocked[currency] = a.blocked[currency].Add(amount)
}

// UnblockAsset releases a reserve, flooring at zero.
func (a *Account) UnblockAsset(currency model.Currency, amount decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unblockLocked(currency, amount)
}

// Balance returns the free balance of currency, zero if never seen.
func (a *Account) Balance(currency model.Currency) decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance[currency]
}

// Blocked returns the reserved amount of currency, zero if never seen.
func (a *Account) Blocked(currency model.Currency) decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.blocked[currency]
}

// Available returns balance minus blocked for currency.
func (a *Account) Available(currency model.Currency) decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance[currency].Sub(a.blocked[currency])
}

// SettleBuy applies a filled buy in one step: release the quote reserve, pay
// cost (amount plus fee) in quote currency, credit the bought base quantity.
func (a *Account) SettleBuy(pair model.CurrencyPair, unblock, cost, quantity decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unblockLocked(pair.Quote, unblock)
	a.removeLocked(pair.Quote, cost)
	a.balance[pair.Base] = a.balance[pair.Base].Add(quantity)
}

// SettleSell applies a filled sell in one step: release the base reserve,
// remove the sold base quantity, credit the quote proceeds net of fee.
func (a *Account) SettleSell(pair model.CurrencyPair, quantity, proceeds decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unblockLocked(pair.Base, quantity)
	a.removeLocked(pair.Base, quantity)
	a.balance[pair.Quote] = a.balance[pair.Quote].Add(proceeds)
}

func (a *Account) removeLocked(currency model.Currency, amount decimal.Decimal) {
	next := a.balance[currency].Sub(amount)
	if next.IsNegative() {
		next = decimal.Zero
	}
	a.balance[currency] = next
}

func (a *Account) unblockLocked(currency model.Currency, amount decimal.Decimal) {
	next := a.blocked[currency].Sub(amount)
	if next.IsNegative() {
		next = decimal.Zero
	}
	a.blocked[currency] = next
}
