// Package ledger defines the balance-service collaborator consumed by the
// round engine. Calls happen strictly after in-memory settlement decisions
// are finalized; a failed call never reverses a settled outcome.
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fairlines/engine/internal/domain"
)

// Balance is the external balance service.
type Balance interface {
	Debit(ctx context.Context, playerID string, amount decimal.Decimal, currency string) error
	Credit(ctx context.Context, playerID string, amount decimal.Decimal, currency string) error
}

// BatchCreditor is implemented by balance services that can apply a whole
// settlement batch atomically. Callers fall back to per-player credits when
// the batch path is unavailable or fails.
type BatchCreditor interface {
	CreditMany(ctx context.Context, batch domain.SettlementBatch, currency string) error
}
