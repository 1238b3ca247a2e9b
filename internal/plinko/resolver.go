package plinko

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/fairness"
)

// Resolver settles plinko drops from derived outcomes. Stateless; safe for
// unlimited parallel invocation.
type Resolver struct {
	minStake decimal.Decimal
	maxStake decimal.Decimal
}

// Config bounds the stake a plinko drop may carry.
type Config struct {
	MinStake decimal.Decimal
	MaxStake decimal.Decimal
}

// DefaultConfig mirrors the production table limits.
func DefaultConfig() Config {
	return Config{
		MinStake: decimal.NewFromFloat(MinStake),
		MaxStake: decimal.NewFromFloat(MaxStake),
	}
}

// NewResolver creates a plinko resolver
func NewResolver(cfg Config) *Resolver {
	return &Resolver{minStake: cfg.MinStake, maxStake: cfg.MaxStake}
}

// Resolve validates the drop, derives its left/right path from (seed, nonce)
// and pays out the bin the ball lands in.
func (r *Resolver) Resolve(bet domain.PlinkoBet, seed domain.SeedPair, nonce uint64) (domain.PlinkoResult, error) {
	table, err := r.validate(bet)
	if err != nil {
		return domain.PlinkoResult{}, err
	}

	path := fairness.OutcomeToPlinkoPath(seed, nonce, bet.Rows)

	bin := 0
	for _, right := range path {
		if right {
			bin++
		}
	}

	multiplier := table[bin]
	payout := bet.Stake.Mul(decimal.NewFromFloat(multiplier)).Round(2)

	return domain.PlinkoResult{
		Path:             path,
		Bin:              bin,
		PayoutMultiplier: multiplier,
		Won:              multiplier >= 1.0,
		Payout:           payout,
		Nonce:            nonce,
	}, nil
}

func (r *Resolver) validate(bet domain.PlinkoBet) ([]float64, error) {
	if bet.Stake.LessThan(r.minStake) || bet.Stake.GreaterThan(r.maxStake) {
		return nil, fmt.Errorf("%w: %s not in [%s, %s]",
			domain.ErrStakeOutOfBounds, bet.Stake, r.minStake, r.maxStake)
	}

	tables, ok := payoutTables[bet.Risk]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedRisk, bet.Risk)
	}

	table, ok := tables[bet.Rows]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnsupportedRows, bet.Rows)
	}

	return table, nil
}
