package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fairlines/engine/internal/domain"
)

// MemoryBalance is an in-memory Balance implementation for development and
// tests. Accounts must be funded via Deposit before they can be debited.
type MemoryBalance struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
}

// NewMemoryBalance creates an empty in-memory balance service.
func NewMemoryBalance() *MemoryBalance {
	return &MemoryBalance{balances: make(map[string]decimal.Decimal)}
}

// Deposit funds an account.
func (m *MemoryBalance) Deposit(playerID string, amount decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[playerID] = m.balances[playerID].Add(amount)
}

// BalanceOf returns an account's current balance.
func (m *MemoryBalance) BalanceOf(playerID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[playerID]
}

// Debit removes funds from an account.
func (m *MemoryBalance) Debit(ctx context.Context, playerID string, amount decimal.Decimal, currency string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	balance, ok := m.balances[playerID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownAccount, playerID)
	}
	if balance.LessThan(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", domain.ErrInsufficientFunds, playerID, balance, amount)
	}

	m.balances[playerID] = balance.Sub(amount)
	return nil
}

// Credit adds funds to an account.
func (m *MemoryBalance) Credit(ctx context.Context, playerID string, amount decimal.Decimal, currency string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[playerID] = m.balances[playerID].Add(amount)
	return nil
}

// CreditMany applies a settlement batch under a single lock acquisition.
func (m *MemoryBalance) CreditMany(ctx context.Context, batch domain.SettlementBatch, currency string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range batch.Settlements {
		if s.Payout.IsZero() {
			continue
		}
		m.balances[s.PlayerID] = m.balances[s.PlayerID].Add(s.Payout)
	}
	return nil
}
