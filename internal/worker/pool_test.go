package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/ledger"
)

type countingJob struct {
	counter *atomic.Int32
	err     error
}

func (j countingJob) Process(ctx context.Context) error {
	j.counter.Add(1)
	return j.err
}

func TestPool_ProcessesAllJobs(t *testing.T) {
	pool := NewPool(4, 64)
	pool.Start()

	var counter atomic.Int32
	for i := 0; i < 50; i++ {
		pool.Enqueue(countingJob{counter: &counter})
	}

	require.Eventually(t, func() bool {
		return counter.Load() == 50
	}, 2*time.Second, 5*time.Millisecond)

	pool.Stop()
}

func TestPool_FailingJobDoesNotStopWorkers(t *testing.T) {
	pool := NewPool(1, 16)
	pool.Start()
	defer pool.Stop()

	var counter atomic.Int32
	pool.Enqueue(countingJob{counter: &counter, err: errors.New("job error")})
	pool.Enqueue(countingJob{counter: &counter})

	require.Eventually(t, func() bool {
		return counter.Load() == 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPool_StopWaitsForWorkers(t *testing.T) {
	pool := NewPool(2, 16)
	pool.Start()

	var counter atomic.Int32
	pool.Enqueue(countingJob{counter: &counter})

	require.Eventually(t, func() bool {
		return counter.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestPool_StopDrainsQueuedJobs(t *testing.T) {
	pool := NewPool(1, 64)
	pool.Start()

	var counter atomic.Int32
	for i := 0; i < 20; i++ {
		pool.Enqueue(countingJob{counter: &counter})
	}

	pool.Stop()
	assert.Equal(t, int32(20), counter.Load())
}

func TestDebitJob_ChargesStake(t *testing.T) {
	balance := ledger.NewMemoryBalance()
	balance.Deposit("alice", decimal.NewFromInt(100))

	job := DebitJob{
		Balance:  balance,
		PlayerID: "alice",
		Amount:   decimal.NewFromInt(10),
		Currency: "USD",
	}

	require.NoError(t, job.Process(context.Background()))
	assert.True(t, balance.BalanceOf("alice").Equal(decimal.NewFromInt(90)))
}

func TestDebitJob_UnknownAccount(t *testing.T) {
	job := DebitJob{
		Balance:  ledger.NewMemoryBalance(),
		PlayerID: "ghost",
		Amount:   decimal.NewFromInt(10),
		Currency: "USD",
	}

	err := job.Process(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnknownAccount)
}

func TestSettlementJob_CreditsWinnersOnly(t *testing.T) {
	balance := ledger.NewMemoryBalance()
	balance.Deposit("winner", decimal.Zero)
	balance.Deposit("loser", decimal.Zero)

	job := SettlementJob{
		Balance: balance,
		Batch: domain.SettlementBatch{
			Settlements: []domain.Settlement{
				{PlayerID: "winner", Payout: decimal.NewFromFloat(19.8)},
				{PlayerID: "loser", Payout: decimal.Zero},
			},
		},
		Currency: "USD",
	}

	require.NoError(t, job.Process(context.Background()))
	assert.True(t, balance.BalanceOf("winner").Equal(decimal.NewFromFloat(19.8)))
	assert.True(t, balance.BalanceOf("loser").IsZero())
}

// batchBalance records whether settlements arrive via the batch path or as
// individual credits.
type batchBalance struct {
	inner      *ledger.MemoryBalance
	batchErr   error
	batchCalls atomic.Int32
	credits    atomic.Int32
}

func (b *batchBalance) Debit(ctx context.Context, playerID string, amount decimal.Decimal, currency string) error {
	return b.inner.Debit(ctx, playerID, amount, currency)
}

func (b *batchBalance) Credit(ctx context.Context, playerID string, amount decimal.Decimal, currency string) error {
	b.credits.Add(1)
	return b.inner.Credit(ctx, playerID, amount, currency)
}

func (b *batchBalance) CreditMany(ctx context.Context, batch domain.SettlementBatch, currency string) error {
	b.batchCalls.Add(1)
	if b.batchErr != nil {
		return b.batchErr
	}
	return b.inner.CreditMany(ctx, batch, currency)
}

func TestSettlementJob_PrefersBatchCredit(t *testing.T) {
	balance := &batchBalance{inner: ledger.NewMemoryBalance()}

	job := SettlementJob{
		Balance: balance,
		Batch: domain.SettlementBatch{
			Settlements: []domain.Settlement{
				{PlayerID: "a", Payout: decimal.NewFromInt(5)},
				{PlayerID: "b", Payout: decimal.NewFromInt(7)},
			},
		},
		Currency: "USD",
	}

	require.NoError(t, job.Process(context.Background()))
	assert.Equal(t, int32(1), balance.batchCalls.Load())
	assert.Equal(t, int32(0), balance.credits.Load(), "batch path must not issue per-player credits")
	assert.True(t, balance.inner.BalanceOf("a").Equal(decimal.NewFromInt(5)))
	assert.True(t, balance.inner.BalanceOf("b").Equal(decimal.NewFromInt(7)))
}

func TestSettlementJob_BatchFailureFallsBackPerPlayer(t *testing.T) {
	balance := &batchBalance{
		inner:    ledger.NewMemoryBalance(),
		batchErr: errors.New("deadlock detected"),
	}

	job := SettlementJob{
		Balance: balance,
		Batch: domain.SettlementBatch{
			Settlements: []domain.Settlement{
				{PlayerID: "a", Payout: decimal.NewFromInt(5)},
				{PlayerID: "b", Payout: decimal.NewFromInt(7)},
			},
		},
		Currency: "USD",
	}

	require.NoError(t, job.Process(context.Background()))
	assert.Equal(t, int32(1), balance.batchCalls.Load())
	assert.Equal(t, int32(2), balance.credits.Load())
	assert.True(t, balance.inner.BalanceOf("a").Equal(decimal.NewFromInt(5)))
	assert.True(t, balance.inner.BalanceOf("b").Equal(decimal.NewFromInt(7)))
}

// failingBalance rejects one specific player.
type failingBalance struct {
	mu      sync.Mutex
	inner   *ledger.MemoryBalance
	failFor string
}

func (f *failingBalance) Debit(ctx context.Context, playerID string, amount decimal.Decimal, currency string) error {
	return f.inner.Debit(ctx, playerID, amount, currency)
}

func (f *failingBalance) Credit(ctx context.Context, playerID string, amount decimal.Decimal, currency string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if playerID == f.failFor {
		return errors.New("account frozen")
	}
	return f.inner.Credit(ctx, playerID, amount, currency)
}

func TestSettlementJob_SkipsFailedPlayerAndContinues(t *testing.T) {
	inner := ledger.NewMemoryBalance()
	balance := &failingBalance{inner: inner, failFor: "frozen"}

	job := SettlementJob{
		Balance: balance,
		Batch: domain.SettlementBatch{
			Settlements: []domain.Settlement{
				{PlayerID: "frozen", Payout: decimal.NewFromInt(50)},
				{PlayerID: "ok", Payout: decimal.NewFromInt(25)},
			},
		},
		Currency: "USD",
	}

	// One bad account never blocks the rest of the batch.
	require.NoError(t, job.Process(context.Background()))
	assert.True(t, inner.BalanceOf("ok").Equal(decimal.NewFromInt(25)))
	assert.True(t, inner.BalanceOf("frozen").IsZero())
}
