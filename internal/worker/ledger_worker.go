package worker

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/ledger"
	"github.com/fairlines/engine/internal/logger"
	"github.com/fairlines/engine/internal/metrics"
)

// DebitJob charges a player's stake once their bet has been accepted.
type DebitJob struct {
	Balance  ledger.Balance
	PlayerID string
	Amount   decimal.Decimal
	Currency string
}

// Process runs the debit against the balance service.
func (j DebitJob) Process(ctx context.Context) error {
	if err := j.Balance.Debit(ctx, j.PlayerID, j.Amount, j.Currency); err != nil {
		metrics.LedgerErrors.WithLabelValues(LedgerOpDebit).Inc()
		return fmt.Errorf("%s %s for %s: %w", LedgerOpDebit, j.Amount, j.PlayerID, err)
	}
	return nil
}

// SettlementJob credits every winning line of a settled round. Balance
// services that can apply the batch atomically get it in one call; otherwise
// per-player failures are logged and skipped so one bad account never blocks
// the batch.
type SettlementJob struct {
	Balance  ledger.Balance
	Batch    domain.SettlementBatch
	Currency string
}

// Process credits winners from the settlement batch.
func (j SettlementJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if bc, ok := j.Balance.(ledger.BatchCreditor); ok {
		err := bc.CreditMany(ctx, j.Batch, j.Currency)
		if err == nil {
			return nil
		}
		metrics.LedgerErrors.WithLabelValues(LedgerOpCredit).Inc()
		log.Warn(LogMsgBatchCreditFailed, "round_id", j.Batch.RoundID, "error", err)
	}

	for _, s := range j.Batch.Settlements {
		if s.Payout.IsZero() {
			continue
		}
		if err := j.Balance.Credit(ctx, s.PlayerID, s.Payout, j.Currency); err != nil {
			metrics.LedgerErrors.WithLabelValues(LedgerOpCredit).Inc()
			log.Error(LogMsgLedgerCreditFailed,
				"round_id", j.Batch.RoundID, "player_id", s.PlayerID,
				"payout", s.Payout, "error", err)
		}
	}
	return nil
}
