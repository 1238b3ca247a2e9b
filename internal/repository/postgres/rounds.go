package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairlines/engine/internal/domain"
)

// RoundArchive persists settled rounds for audit and long-term verification.
// The in-memory history ring stays authoritative for the live API; the
// archive only ever receives rounds whose seed is already public.
type RoundArchive struct {
	db *pgxpool.Pool
}

// NewRoundArchive creates a new RoundArchive
func NewRoundArchive(db *pgxpool.Pool) *RoundArchive {
	return &RoundArchive{db: db}
}

// SaveRound inserts a settled round. Replaying a settlement is a no-op: the
// sequence number is the primary key.
func (a *RoundArchive) SaveRound(ctx context.Context, entry domain.HistoryEntry) error {
	_, err := a.db.Exec(ctx, `
		INSERT INTO rounds (
			sequence, round_id, crash_point,
			server_seed, server_seed_hash, client_seed, nonce,
			participant_count, total_stake, total_payout, settled_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (sequence) DO NOTHING`,
		entry.Sequence, entry.RoundID, entry.CrashPoint,
		entry.ServerSeed, entry.ServerSeedHash, entry.ClientSeed, entry.Nonce,
		entry.ParticipantCount, entry.TotalStake, entry.TotalPayout, entry.SettledAt)
	if err != nil {
		return fmt.Errorf("%s %d: %w", ErrMsgInsertRound, entry.Sequence, err)
	}
	return nil
}

// ListRecent returns the most recently settled rounds, newest first.
func (a *RoundArchive) ListRecent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	rows, err := a.db.Query(ctx, `
		SELECT sequence, round_id, crash_point,
		       server_seed, server_seed_hash, client_seed, nonce,
		       participant_count, total_stake, total_payout, settled_at
		FROM rounds
		ORDER BY sequence DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryRounds, err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(
			&entry.Sequence, &entry.RoundID, &entry.CrashPoint,
			&entry.ServerSeed, &entry.ServerSeedHash, &entry.ClientSeed, &entry.Nonce,
			&entry.ParticipantCount, &entry.TotalStake, &entry.TotalPayout, &entry.SettledAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgScanRound, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
