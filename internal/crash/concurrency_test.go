package crash

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/event"
)

// ==============================================================================
// Concurrency tests for the core settlement invariant
// ==============================================================================

// TestCashOut_Concurrent_ExactlyOneSuccess verifies at-most-once settlement:
// many concurrent cash-out requests for the same bet yield exactly one
// success and race-lost errors for everyone else.
func TestCashOut_Concurrent_ExactlyOneSuccess(t *testing.T) {
	ctx := context.Background()
	r := newTestRound(100.0)
	start := time.Now()

	require.NoError(t, r.PlaceBet(ctx, "alice", decimal.NewFromInt(10), nil))
	r.Start(start)
	require.False(t, r.Tick(ctx, timeAt(start, r.cfg, 2.0)))

	const attempts = 64
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := r.CashOut(ctx, "alice")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, raceLost int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrAlreadySettled):
			raceLost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "exactly one cash-out must win")
	assert.Equal(t, attempts-1, raceLost)
}

// TestCashOut_Concurrent_WithAutoTrigger races explicit cash-outs against the
// tick-driven auto sweep at the same threshold: one settlement, never two,
// never zero.
func TestCashOut_Concurrent_WithAutoTrigger(t *testing.T) {
	for i := 0; i < 20; i++ {
		t.Run(fmt.Sprintf("iteration_%d", i), func(t *testing.T) {
			ctx := context.Background()
			r := newTestRound(100.0)
			start := time.Now()

			auto := 2.0
			require.NoError(t, r.PlaceBet(ctx, "alice", decimal.NewFromInt(10), &auto))
			r.Start(start)

			var wg sync.WaitGroup
			manualErr := make(chan error, 1)

			wg.Add(2)
			go func() {
				defer wg.Done()
				r.Tick(ctx, timeAt(start, r.cfg, 2.05))
			}()
			go func() {
				defer wg.Done()
				_, _, err := r.CashOut(ctx, "alice")
				manualErr <- err
			}()
			wg.Wait()

			var cashOuts int
			for _, ev := range drainEvents(r) {
				if _, ok := ev.Payload.(event.PlayerCashedOutPayloadV1); ok {
					cashOuts++
				}
			}

			err := <-manualErr
			if err == nil {
				assert.Equal(t, 1, cashOuts, "manual won: one cash-out event")
			} else {
				require.ErrorIs(t, err, domain.ErrAlreadySettled)
				assert.Equal(t, 1, cashOuts, "auto won: one cash-out event")
			}
		})
	}
}

// TestPlaceBet_Concurrent_OneBetPerPlayer verifies the one-bet-per-player
// invariant under concurrent placement.
func TestPlaceBet_Concurrent_OneBetPerPlayer(t *testing.T) {
	ctx := context.Background()
	r := newTestRound(2.0)

	const attempts = 32
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- r.PlaceBet(ctx, "alice", decimal.NewFromInt(10), nil)
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrDuplicateBet)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, r.Snapshot().Participants)
}

// TestTick_Concurrent_WithRequests hammers a running round with bets (all
// rejected by phase), cash-outs and ticks simultaneously; the run must be
// race-free and the round must settle exactly once.
func TestTick_Concurrent_WithRequests(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.MaxParticipants = 64
	r := NewRound(1, testSeed(), 3.0, cfg)
	start := time.Now()

	for i := 0; i < 16; i++ {
		require.NoError(t, r.PlaceBet(ctx, fmt.Sprintf("player-%02d", i), decimal.NewFromInt(10), nil))
	}
	r.Start(start)

	var wg sync.WaitGroup

	// Tick driver walking the multiplier into the crash point
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, m := range []float64{1.1, 1.5, 2.0, 2.5, 3.5, 4.0} {
			r.Tick(ctx, timeAt(start, cfg, m))
		}
	}()

	// Concurrent cash-out attempts
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, _, _ = r.CashOut(ctx, fmt.Sprintf("player-%02d", id))
		}(i)
	}

	// Late bet placements must fail cleanly, not corrupt state
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = r.PlaceBet(ctx, fmt.Sprintf("late-%d", id), decimal.NewFromInt(10), nil)
		}(i)
	}

	wg.Wait()

	snap := r.Snapshot()
	require.Equal(t, domain.RoundPhaseSettled, snap.Phase)

	batch := r.SettlementBatch()
	assert.Len(t, batch.Settlements, 16, "every bet settles exactly once")

	seen := make(map[string]bool)
	for _, s := range batch.Settlements {
		assert.False(t, seen[s.PlayerID], "player %s settled twice", s.PlayerID)
		seen[s.PlayerID] = true
	}
}
