package dice

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/fairness"
)

func testSeed() domain.SeedPair {
	return domain.SeedPair{
		ServerSeed:     []byte("test-server-seed"),
		ServerSeedHash: domain.HashSeed([]byte("test-server-seed")),
		ClientSeed:     "test-client-seed",
	}
}

func validBet() domain.DiceBet {
	return domain.DiceBet{
		PlayerID:  "player1",
		Stake:     decimal.NewFromInt(10),
		Target:    50.00,
		Direction: domain.DiceRollUnder,
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewResolver(DefaultConfig())
	seed := testSeed()

	a, err := r.Resolve(validBet(), seed, 3)
	require.NoError(t, err)
	b, err := r.Resolve(validBet(), seed, 3)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestResolve_PayoutMultiplier(t *testing.T) {
	r := NewResolver(DefaultConfig())

	tests := []struct {
		name      string
		target    float64
		direction domain.DiceDirection
		wantMult  float64
	}{
		{"under 50 pays 1.98x", 50.00, domain.DiceRollUnder, 1.98},
		{"over 50 pays 1.98x", 50.00, domain.DiceRollOver, 1.98},
		{"under 10 pays 9.9x", 10.00, domain.DiceRollUnder, 9.9},
		{"over 90 pays 9.9x", 90.00, domain.DiceRollOver, 9.9},
		{"under 98 pays ~1.01x", 98.00, domain.DiceRollUnder, 99.0 / 98.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet := validBet()
			bet.Target = tt.target
			bet.Direction = tt.direction

			result, err := r.Resolve(bet, testSeed(), 0)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantMult, result.PayoutMultiplier, 1e-9)
		})
	}
}

func TestResolve_WinLoseAgainstRoll(t *testing.T) {
	r := NewResolver(DefaultConfig())
	seed := testSeed()

	for nonce := uint64(0); nonce < 200; nonce++ {
		roll := fairness.OutcomeToDiceRoll(fairness.OutcomeToUnitFloat(fairness.DeriveOutcome(seed, nonce)))

		under := validBet()
		result, err := r.Resolve(under, seed, nonce)
		require.NoError(t, err)

		assert.Equal(t, roll, result.Roll)
		assert.Equal(t, roll < 50.00, result.Won)

		if result.Won {
			want := under.Stake.Mul(decimal.NewFromFloat(1.98)).Round(2)
			assert.True(t, want.Equal(result.Payout), "payout %s != %s", result.Payout, want)
		} else {
			assert.True(t, result.Payout.IsZero())
		}
	}
}

func TestResolve_Rejections(t *testing.T) {
	r := NewResolver(DefaultConfig())

	tests := []struct {
		name    string
		mutate  func(*domain.DiceBet)
		wantErr error
	}{
		{"stake below minimum", func(b *domain.DiceBet) { b.Stake = decimal.NewFromFloat(0.001) }, domain.ErrStakeOutOfBounds},
		{"stake above maximum", func(b *domain.DiceBet) { b.Stake = decimal.NewFromInt(100000) }, domain.ErrStakeOutOfBounds},
		{"target zero", func(b *domain.DiceBet) { b.Target = 0 }, domain.ErrInvalidTarget},
		{"target at 100", func(b *domain.DiceBet) { b.Target = 100 }, domain.ErrInvalidTarget},
		{"target finer than two decimals", func(b *domain.DiceBet) { b.Target = 50.123 }, domain.ErrInvalidTarget},
		{"unknown direction", func(b *domain.DiceBet) { b.Direction = "sideways" }, domain.ErrInvalidDirection},
		{"chance too high", func(b *domain.DiceBet) { b.Target = 99.00; b.Direction = domain.DiceRollUnder }, domain.ErrChanceOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet := validBet()
			tt.mutate(&bet)

			_, err := r.Resolve(bet, testSeed(), 0)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// Realized RTP over a uniform grid of rolls must converge to 100% - edge.
func TestResolve_RTPConvergence(t *testing.T) {
	_ = NewResolver(DefaultConfig())

	const n = 100000
	stake := decimal.NewFromInt(1)

	totalPayout := decimal.Zero
	for i := 0; i < n; i++ {
		u := (float64(i) + 0.5) / n
		roll := fairness.OutcomeToDiceRoll(u)

		if roll < 50.00 {
			totalPayout = totalPayout.Add(stake.Mul(decimal.NewFromFloat(1.98)))
		}
	}

	rtp, _ := totalPayout.Div(decimal.NewFromInt(n)).Float64()
	assert.InDelta(t, 0.99, rtp, 0.005)
}

func TestResolve_ParallelInvocations(t *testing.T) {
	r := NewResolver(DefaultConfig())
	seed := testSeed()

	want, err := r.Resolve(validBet(), seed, 42)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.Resolve(validBet(), seed, 42)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}
