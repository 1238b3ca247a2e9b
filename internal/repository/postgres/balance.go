// Package postgres provides the optional persistence adapters: a
// database-backed balance service and a settled-round archive. Both satisfy
// interfaces the engine core depends on, so the core never imports pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/logger"
)

// BalanceStore implements the ledger.Balance interface against PostgreSQL.
type BalanceStore struct {
	db *pgxpool.Pool
}

// NewBalanceStore creates a new BalanceStore
func NewBalanceStore(db *pgxpool.Pool) *BalanceStore {
	return &BalanceStore{db: db}
}

// Debit withdraws the amount from the player's account. The balance check
// and the write happen in one statement, so concurrent debits against the
// same account cannot overdraw it.
func (s *BalanceStore) Debit(ctx context.Context, playerID string, amount decimal.Decimal, currency string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE accounts
		SET balance = balance - $2, updated_at = NOW()
		WHERE player_id = $1 AND currency = $3 AND balance >= $2`,
		playerID, amount, currency)
	if err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgDebitAccount, playerID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Distinguish a missing account from an underfunded one.
	var exists bool
	err = s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE player_id = $1 AND currency = $2)`,
		playerID, currency).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgDebitAccount, playerID, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrUnknownAccount, playerID)
	}
	return fmt.Errorf("%w: %s", domain.ErrInsufficientFunds, playerID)
}

// Credit deposits the amount into the player's account.
func (s *BalanceStore) Credit(ctx context.Context, playerID string, amount decimal.Decimal, currency string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE player_id = $1 AND currency = $3`,
		playerID, amount, currency)
	if err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgCreditAccount, playerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUnknownAccount, playerID)
	}
	return nil
}

// CreditMany applies a settlement batch in a single transaction so a round's
// payouts land atomically.
func (s *BalanceStore) CreditMany(ctx context.Context, batch domain.SettlementBatch, currency string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.FromContext(ctx).Warn(LogMsgRollbackFailed, "error", rbErr)
		}
	}()

	for _, settlement := range batch.Settlements {
		if settlement.Payout.IsZero() {
			continue
		}
		tag, err := tx.Exec(ctx, `
			UPDATE accounts
			SET balance = balance + $2, updated_at = NOW()
			WHERE player_id = $1 AND currency = $3`,
			settlement.PlayerID, settlement.Payout, currency)
		if err != nil {
			return fmt.Errorf("%s %s: %w", ErrMsgCreditAccount, settlement.PlayerID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", domain.ErrUnknownAccount, settlement.PlayerID)
		}
	}

	return tx.Commit(ctx)
}
