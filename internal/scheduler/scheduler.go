// Package scheduler drives the lifecycle of successive crash rounds: it owns
// the tick driver, the current-round pointer, and the hand-off of settled
// rounds to history and the ledger.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairlines/engine/internal/crash"
	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/event"
	"github.com/fairlines/engine/internal/fairness"
	"github.com/fairlines/engine/internal/history"
	"github.com/fairlines/engine/internal/ledger"
	"github.com/fairlines/engine/internal/logger"
	"github.com/fairlines/engine/internal/metrics"
	"github.com/fairlines/engine/internal/worker"
)

// Config holds the round cadence and economics.
type Config struct {
	HouseEdge     float64
	MaxMultiplier float64       // crash point cap; bounds the house's per-round exposure
	Countdown     time.Duration // Open phase duration before the round runs
	TickInterval  time.Duration
	RoundPause    time.Duration // gap between settlement and the next round
	Currency      string
	StartSequence uint64 // last sequence already settled; numbering resumes after it
	Round         crash.Config
}

// DefaultConfig returns production cadence defaults.
func DefaultConfig() Config {
	return Config{
		HouseEdge:     fairness.DefaultHouseEdge,
		MaxMultiplier: fairness.DefaultMaxMultiplier,
		Countdown:     CountdownDefault,
		TickInterval:  TickIntervalDefault,
		RoundPause:    RoundPauseDefault,
		Currency:      CurrencyDefault,
		Round:         crash.DefaultConfig(),
	}
}

// Scheduler runs one crash round at a time. It is the sole writer of the
// current-round pointer and guarantees at most one active tick driver.
type Scheduler struct {
	engine  *fairness.Engine
	bus     event.Bus
	history *history.Store
	pool    *worker.Pool
	balance ledger.Balance
	cfg     Config

	running  atomic.Bool
	sequence uint64

	mu      sync.RWMutex
	current *crash.Round
}

// New creates a round scheduler.
func New(engine *fairness.Engine, bus event.Bus, store *history.Store, pool *worker.Pool, balance ledger.Balance, cfg Config) *Scheduler {
	return &Scheduler{
		engine:   engine,
		bus:      bus,
		history:  store,
		pool:     pool,
		balance:  balance,
		cfg:      cfg,
		sequence: cfg.StartSequence,
	}
}

// Run drives rounds until ctx is cancelled. A second concurrent Run returns
// ErrSchedulerRunning. Entropy failure aborts the loop: no round is ever
// created from a degraded randomness source.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return domain.ErrSchedulerRunning
	}
	defer s.running.Store(false)

	for {
		if err := s.runRound(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.RoundPause):
		}
	}
}

// PlaceBet forwards to the current round. The stake debit is dispatched to
// the ledger only after the bet is accepted.
func (s *Scheduler) PlaceBet(ctx context.Context, playerID string, stake decimal.Decimal, autoCashOut *float64) error {
	round := s.currentRound()
	if round == nil {
		return domain.ErrRoundNotOpen
	}

	if err := round.PlaceBet(ctx, playerID, stake, autoCashOut); err != nil {
		return err
	}

	s.pool.Enqueue(worker.DebitJob{
		Balance:  s.balance,
		PlayerID: playerID,
		Amount:   stake,
		Currency: s.cfg.Currency,
	})
	return nil
}

// CashOut forwards to the current round.
func (s *Scheduler) CashOut(ctx context.Context, playerID string) (float64, decimal.Decimal, error) {
	round := s.currentRound()
	if round == nil {
		return 0, decimal.Zero, domain.ErrRoundNotRunning
	}
	return round.CashOut(ctx, playerID)
}

// Snapshot returns the current round's externally visible state.
func (s *Scheduler) Snapshot() (domain.RoundSnapshot, bool) {
	round := s.currentRound()
	if round == nil {
		return domain.RoundSnapshot{}, false
	}
	return round.Snapshot(), true
}

func (s *Scheduler) currentRound() *crash.Round {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// runRound executes one full round lifecycle: create, open countdown, run to
// crash, settle, hand off.
func (s *Scheduler) runRound(ctx context.Context) error {
	log := logger.FromContext(ctx)

	seed, err := s.engine.NewSeedPair("")
	if err != nil {
		return fmt.Errorf("refusing to start round: %w", err)
	}

	// The crash point is fixed now, at nonce 0, and never recomputed.
	digest := fairness.DeriveOutcome(seed, CrashPointNonce)
	crashPoint := fairness.OutcomeToCrashMultiplier(fairness.OutcomeToUnitFloat(digest), s.cfg.HouseEdge, s.cfg.MaxMultiplier)

	s.sequence++
	round := crash.NewRound(s.sequence, seed, crashPoint, s.cfg.Round)

	s.mu.Lock()
	s.current = round
	s.mu.Unlock()

	// Single ordered consumer of the round's outbound queue.
	forwarderDone := make(chan struct{})
	go s.forwardEvents(round, forwarderDone)

	commitment := round.Commitment()
	log.Info(LogMsgRoundStarting,
		"round_id", round.ID(), "sequence", s.sequence,
		"server_seed_hash", commitment.ServerSeedHash)
	metrics.RoundsStarted.Inc()

	if err := s.bus.Publish(ctx, event.NewRoundStartedEvent(
		round.ID(), commitment.ServerSeedHash, commitment.ClientSeed)); err != nil {
		log.Warn(LogMsgPublishFailed, "error", err)
	}

	select {
	case <-ctx.Done():
		round.Discard()
		return ctx.Err()
	case <-time.After(s.cfg.Countdown):
	}

	round.Start(time.Now())

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Stop driving ticks before the round is thrown away.
			ticker.Stop()
			round.Discard()
			return ctx.Err()
		case now := <-ticker.C:
			if round.Tick(ctx, now) {
				s.settle(ctx, round, forwarderDone)
				return nil
			}
		}
	}
}

// settle records history and dispatches the ledger batch once the round has
// terminated. The in-memory outcome is already final; ledger failures are
// the collaborator's to retry.
func (s *Scheduler) settle(ctx context.Context, round *crash.Round, forwarderDone <-chan struct{}) {
	// All round events are on the bus before history becomes observable.
	<-forwarderDone

	entry := round.History()
	s.history.Record(entry)

	s.pool.Enqueue(worker.SettlementJob{
		Balance:  s.balance,
		Batch:    round.SettlementBatch(),
		Currency: s.cfg.Currency,
	})

	logger.FromContext(ctx).Info(LogMsgRoundComplete,
		"round_id", round.ID(),
		"crash_point", entry.CrashPoint,
		"participants", entry.ParticipantCount,
		"total_stake", entry.TotalStake,
		"total_payout", entry.TotalPayout)
}

// forwardEvents publishes the round's ordered notifications to the bus.
func (s *Scheduler) forwardEvents(round *crash.Round, done chan<- struct{}) {
	defer close(done)

	ctx := context.Background()
	for ev := range round.Events() {
		if err := s.bus.Publish(ctx, ev); err != nil {
			logger.Warn(LogMsgPublishFailed, "event_type", ev.Type, "error", err)
		}
	}
}
