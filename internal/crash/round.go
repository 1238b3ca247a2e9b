package crash

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/event"
	"github.com/fairlines/engine/internal/logger"
	"github.com/fairlines/engine/internal/metrics"
)

// Config bounds a single crash round.
type Config struct {
	GrowthConstant  time.Duration
	MinStake        decimal.Decimal
	MaxStake        decimal.Decimal
	MaxParticipants int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		GrowthConstant:  time.Duration(DefaultGrowthConstantSeconds * float64(time.Second)),
		MinStake:        decimal.NewFromFloat(0.01),
		MaxStake:        decimal.NewFromFloat(10000),
		MaxParticipants: DefaultMaxParticipants,
	}
}

// Round is the single active crash round shared by all participants. Bet
// placement, cash-outs and the tick sweep are all serialized through one
// mutex; a bet settles exactly once, and the first caller to observe it
// unsettled wins the settlement race.
//
// Lifecycle notifications are pushed onto an outbound channel in settlement
// order; the scheduler forwards them to the event bus so no handler ever runs
// inside the round's critical section.
type Round struct {
	mu sync.Mutex

	id       uuid.UUID
	sequence uint64
	seed     domain.SeedPair
	cfg      Config

	phase             domain.RoundPhase
	crashPoint        float64 // fixed at creation, hidden until crash
	startedAt         time.Time
	currentMultiplier float64
	bets              map[string]*domain.Bet

	batch   domain.SettlementBatch
	history domain.HistoryEntry

	events chan event.Event
}

// NewRound creates a round in the Open phase. crashPoint comes from the
// fairness engine at nonce 0 and is never recomputed.
func NewRound(sequence uint64, seed domain.SeedPair, crashPoint float64, cfg Config) *Round {
	return &Round{
		id:                uuid.New(),
		sequence:          sequence,
		seed:              seed,
		cfg:               cfg,
		phase:             domain.RoundPhaseOpen,
		crashPoint:        crashPoint,
		currentMultiplier: 1.0,
		bets:              make(map[string]*domain.Bet),
		events:            make(chan event.Event, EventBufferSize),
	}
}

// ID returns the round identifier.
func (r *Round) ID() uuid.UUID { return r.id }

// Commitment returns the public seed commitment for this round.
func (r *Round) Commitment() domain.SeedPair { return r.seed.Commitment() }

// Events is the ordered outbound notification channel. It is closed once the
// round settles; consumers should range over it.
func (r *Round) Events() <-chan event.Event { return r.events }

// PlaceBet inserts a bet while the round is open. Exactly one bet per player
// per round; validation failures mutate nothing.
func (r *Round) PlaceBet(ctx context.Context, playerID string, stake decimal.Decimal, autoCashOut *float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != domain.RoundPhaseOpen {
		metrics.BetsRejected.WithLabelValues(RejectReasonPhase).Inc()
		return fmt.Errorf("%w (phase: %s)", domain.ErrRoundNotOpen, r.phase)
	}
	if _, exists := r.bets[playerID]; exists {
		metrics.BetsRejected.WithLabelValues(RejectReasonDuplicate).Inc()
		return fmt.Errorf("%w: %s", domain.ErrDuplicateBet, playerID)
	}
	if stake.LessThan(r.cfg.MinStake) || stake.GreaterThan(r.cfg.MaxStake) {
		metrics.BetsRejected.WithLabelValues(RejectReasonStake).Inc()
		return fmt.Errorf("%w: %s not in [%s, %s]",
			domain.ErrStakeOutOfBounds, stake, r.cfg.MinStake, r.cfg.MaxStake)
	}
	if len(r.bets) >= r.cfg.MaxParticipants {
		metrics.BetsRejected.WithLabelValues(RejectReasonCapacity).Inc()
		return fmt.Errorf("%w (%d participants)", domain.ErrRoundFull, len(r.bets))
	}

	if autoCashOut != nil && *autoCashOut < 1.0 {
		metrics.BetsRejected.WithLabelValues(RejectReasonStake).Inc()
		return fmt.Errorf("%w: auto cash-out %.2f below 1.00", domain.ErrStakeOutOfBounds, *autoCashOut)
	}

	r.bets[playerID] = &domain.Bet{
		PlayerID:    playerID,
		Stake:       stake,
		AutoCashOut: autoCashOut,
		Payout:      decimal.Zero,
		PlacedAt:    time.Now(),
	}

	logger.FromContext(ctx).Info(LogMsgBetPlaced,
		"round_id", r.id, "player_id", playerID, "stake", stake)
	metrics.BetsPlaced.Inc()
	r.emit(event.NewBetPlacedEvent(r.id, playerID, stake))

	return nil
}

// Start transitions Open -> Running once the countdown has elapsed.
func (r *Round) Start(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != domain.RoundPhaseOpen {
		return
	}
	r.phase = domain.RoundPhaseRunning
	r.startedAt = now
}

// CashOut settles the caller's bet at the multiplier current at the instant
// of settlement. The tick-driven auto sweep and explicit cash-outs race for
// the same transition; the loser gets ErrAlreadySettled.
func (r *Round) CashOut(ctx context.Context, playerID string) (float64, decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != domain.RoundPhaseRunning {
		return 0, decimal.Zero, fmt.Errorf("%w (phase: %s)", domain.ErrRoundNotRunning, r.phase)
	}

	bet, ok := r.bets[playerID]
	if !ok {
		return 0, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrBetNotFound, playerID)
	}
	if bet.Settled {
		metrics.RaceLostCashOuts.Inc()
		return 0, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrAlreadySettled, playerID)
	}

	multiplier := r.currentMultiplier
	payout := r.settleWinLocked(bet, multiplier)

	logger.FromContext(ctx).Info(LogMsgPlayerCashedOut,
		"round_id", r.id, "player_id", playerID, "multiplier", multiplier, "payout", payout)
	metrics.CashOuts.WithLabelValues(CashOutTypeManual).Inc()
	r.emit(event.NewPlayerCashedOutEvent(r.id, playerID, multiplier, payout, false))

	return multiplier, payout, nil
}

// Tick recomputes the multiplier from elapsed wall time. It either publishes
// an update and sweeps auto cash-outs, or, once the hidden crash point is
// reached, clamps the multiplier, settles every outstanding bet as lost and
// terminates the round. Returns true once the round has settled.
func (r *Round) Tick(ctx context.Context, now time.Time) bool {
	r.mu.Lock()

	if r.phase != domain.RoundPhaseRunning {
		terminated := r.phase == domain.RoundPhaseCrashed || r.phase == domain.RoundPhaseSettled
		r.mu.Unlock()
		return terminated
	}

	elapsed := now.Sub(r.startedAt)
	multiplier := math.Exp(elapsed.Seconds() / r.cfg.GrowthConstant.Seconds())

	// The multiplier never moves backwards within a round.
	if multiplier < r.currentMultiplier {
		multiplier = r.currentMultiplier
	}

	if multiplier >= r.crashPoint {
		r.currentMultiplier = r.crashPoint
		terminal := r.crashLocked(ctx, now)
		r.mu.Unlock()

		// Crash and settlement notifications gate the seed reveal and the
		// archive write, so they are delivered even when the buffer is full.
		// The phase is already terminal; no other emitter can race the close.
		for _, ev := range terminal {
			r.events <- ev
		}
		close(r.events)
		return true
	}

	r.currentMultiplier = multiplier
	r.emit(event.NewMultiplierUpdatedEvent(r.id, multiplier))
	r.sweepAutoCashOutsLocked(ctx, multiplier)
	r.mu.Unlock()

	return false
}

// sweepAutoCashOutsLocked settles every unsettled bet whose auto threshold
// has been reached, in ascending player-id order so simultaneous triggers
// resolve deterministically. Settlement happens at the current multiplier,
// not the player's threshold.
func (r *Round) sweepAutoCashOutsLocked(ctx context.Context, multiplier float64) {
	var due []string
	for playerID, bet := range r.bets {
		if !bet.Settled && bet.AutoCashOut != nil && *bet.AutoCashOut <= multiplier {
			due = append(due, playerID)
		}
	}
	sort.Strings(due)

	for _, playerID := range due {
		bet := r.bets[playerID]
		payout := r.settleWinLocked(bet, multiplier)

		logger.FromContext(ctx).Info(LogMsgAutoCashOut,
			"round_id", r.id, "player_id", playerID,
			"threshold", *bet.AutoCashOut, "multiplier", multiplier, "payout", payout)
		metrics.CashOuts.WithLabelValues(CashOutTypeAuto).Inc()
		r.emit(event.NewPlayerCashedOutEvent(r.id, playerID, multiplier, payout, true))
	}
}

// settleWinLocked marks a bet won at the given multiplier. Callers hold the
// round mutex and have already checked Settled.
func (r *Round) settleWinLocked(bet *domain.Bet, multiplier float64) decimal.Decimal {
	m := multiplier
	bet.CashedOutAt = &m
	bet.Payout = bet.Stake.Mul(decimal.NewFromFloat(multiplier)).Round(2)
	bet.Settled = true
	return bet.Payout
}

// crashLocked terminates the round: every unsettled bet loses at the crash
// point, the server seed is revealed, and the settlement batch plus history
// summary are frozen for the scheduler to hand off. The returned terminal
// notifications are the caller's to deliver once the mutex is released.
func (r *Round) crashLocked(ctx context.Context, now time.Time) []event.Event {
	r.phase = domain.RoundPhaseCrashed

	logger.FromContext(ctx).Info(LogMsgRoundCrashed,
		"round_id", r.id, "crash_point", r.crashPoint, "participants", len(r.bets))
	metrics.CrashPoint.Observe(r.crashPoint)
	metrics.RoundDuration.Observe(now.Sub(r.startedAt).Seconds())
	if r.crashPoint <= 1.0 {
		metrics.InstantCrashes.Inc()
	}

	batch := domain.SettlementBatch{
		RoundID:    r.id,
		CrashPoint: r.crashPoint,
	}
	totalStake := decimal.Zero
	totalPayout := decimal.Zero

	playerIDs := make([]string, 0, len(r.bets))
	for playerID := range r.bets {
		playerIDs = append(playerIDs, playerID)
	}
	sort.Strings(playerIDs)

	for _, playerID := range playerIDs {
		bet := r.bets[playerID]
		if !bet.Settled {
			bet.CashedOutAt = nil
			bet.Payout = decimal.Zero
			bet.Settled = true
		}

		batch.Settlements = append(batch.Settlements, domain.Settlement{
			RoundID:  r.id,
			PlayerID: playerID,
			Stake:    bet.Stake,
			Payout:   bet.Payout,
			Profit:   bet.Profit(),
			Won:      bet.CashedOutAt != nil,
		})
		totalStake = totalStake.Add(bet.Stake)
		totalPayout = totalPayout.Add(bet.Payout)
	}

	r.batch = batch
	r.history = domain.HistoryEntry{
		RoundID:          r.id,
		Sequence:         r.sequence,
		CrashPoint:       r.crashPoint,
		ServerSeed:       r.seed.ServerSeedHex(),
		ServerSeedHash:   r.seed.ServerSeedHash,
		ClientSeed:       r.seed.ClientSeed,
		Nonce:            r.seed.Nonce,
		ParticipantCount: len(r.bets),
		TotalStake:       totalStake,
		TotalPayout:      totalPayout,
		SettledAt:        now,
	}

	r.phase = domain.RoundPhaseSettled
	logger.FromContext(ctx).Info(LogMsgRoundSettled,
		"round_id", r.id, "total_stake", totalStake, "total_payout", totalPayout)
	metrics.RoundsSettled.Inc()

	return []event.Event{
		event.NewRoundCrashedEvent(r.id, r.crashPoint, r.seed.ServerSeedHex()),
		event.NewRoundSettledEvent(r.history),
	}
}

// Discard terminates an unfinished round during shutdown. Nothing settles
// and no further notifications are emitted; the outbound channel is closed so
// consumers draining it can exit.
func (r *Round) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase == domain.RoundPhaseCrashed || r.phase == domain.RoundPhaseSettled {
		return
	}
	r.phase = domain.RoundPhaseSettled
	close(r.events)
}

// Snapshot returns the externally visible round state. The crash point and
// server seed are withheld until the round has terminated.
func (r *Round) Snapshot() domain.RoundSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := domain.RoundSnapshot{
		RoundID:           r.id,
		Phase:             r.phase,
		ServerSeedHash:    r.seed.ServerSeedHash,
		ClientSeed:        r.seed.ClientSeed,
		CurrentMultiplier: r.currentMultiplier,
		StartedAt:         r.startedAt,
		Participants:      len(r.bets),
	}

	if r.phase == domain.RoundPhaseCrashed || r.phase == domain.RoundPhaseSettled {
		snap.CrashPoint = r.crashPoint
		snap.ServerSeed = r.seed.ServerSeedHex()
	}

	return snap
}

// SettlementBatch returns the frozen per-player settlement lines. Valid only
// after the round has settled.
func (r *Round) SettlementBatch() domain.SettlementBatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batch
}

// History returns the frozen round summary. Valid only after settlement.
func (r *Round) History() domain.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history
}

// emit queues a notification without ever blocking the critical section.
func (r *Round) emit(ev event.Event) {
	select {
	case r.events <- ev:
	default:
		logger.Warn(LogMsgEventDropped, "round_id", r.id, "event_type", ev.Type)
	}
}
