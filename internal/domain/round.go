package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoundPhase represents the current phase of a crash round
type RoundPhase string

const (
	RoundPhaseOpen    RoundPhase = "Open"
	RoundPhaseRunning RoundPhase = "Running"
	RoundPhaseCrashed RoundPhase = "Crashed"
	RoundPhaseSettled RoundPhase = "Settled"
)

// Bet is a single player's wager in a crash round. A bet settles at most
// once: either at a cash-out multiplier (win) or at the crash point (loss).
type Bet struct {
	PlayerID    string           `json:"player_id"`
	Stake       decimal.Decimal  `json:"stake"`
	AutoCashOut *float64         `json:"auto_cash_out,omitempty"`
	CashedOutAt *float64         `json:"cashed_out_at,omitempty"`
	Payout      decimal.Decimal  `json:"payout"`
	Settled     bool             `json:"settled"`
	PlacedAt    time.Time        `json:"placed_at"`
}

// Profit returns payout minus stake for a settled bet.
func (b Bet) Profit() decimal.Decimal {
	return b.Payout.Sub(b.Stake)
}

// RoundSnapshot is the externally visible state of a round. The crash point
// and server seed are included only once the round has settled.
type RoundSnapshot struct {
	RoundID           uuid.UUID  `json:"round_id"`
	Phase             RoundPhase `json:"phase"`
	ServerSeedHash    string     `json:"server_seed_hash"`
	ClientSeed        string     `json:"client_seed"`
	CurrentMultiplier float64    `json:"current_multiplier"`
	CrashPoint        float64    `json:"crash_point,omitempty"`
	ServerSeed        string     `json:"server_seed,omitempty"`
	StartedAt         time.Time  `json:"started_at,omitempty"`
	Participants      int        `json:"participants"`
}

// Settlement is one player's finalized line in a settlement batch, handed to
// the ledger collaborator after the in-memory decision is final.
type Settlement struct {
	RoundID  uuid.UUID       `json:"round_id"`
	PlayerID string          `json:"player_id"`
	Stake    decimal.Decimal `json:"stake"`
	Payout   decimal.Decimal `json:"payout"`
	Profit   decimal.Decimal `json:"profit"`
	Won      bool            `json:"won"`
}

// SettlementBatch carries every settled bet of a terminated round.
type SettlementBatch struct {
	RoundID     uuid.UUID    `json:"round_id"`
	CrashPoint  float64      `json:"crash_point"`
	Settlements []Settlement `json:"settlements"`
}

// HistoryEntry is the append-only summary of a terminated round. Seeds are
// revealed here so any party can re-derive the crash point.
type HistoryEntry struct {
	RoundID          uuid.UUID       `json:"round_id"`
	Sequence         uint64          `json:"sequence"`
	CrashPoint       float64         `json:"crash_point"`
	ServerSeed       string          `json:"server_seed"`
	ServerSeedHash   string          `json:"server_seed_hash"`
	ClientSeed       string          `json:"client_seed"`
	Nonce            uint64          `json:"nonce"`
	ParticipantCount int             `json:"participant_count"`
	TotalStake       decimal.Decimal `json:"total_stake"`
	TotalPayout      decimal.Decimal `json:"total_payout"`
	SettledAt        time.Time       `json:"settled_at"`
}
