package dice

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/fairness"
)

// Resolver settles dice bets from derived outcomes. It holds no per-bet
// state, so unlimited concurrent invocations are safe.
type Resolver struct {
	houseEdgePct float64
	minChance    float64
	maxChance    float64
	minStake     decimal.Decimal
	maxStake     decimal.Decimal
}

// Config bounds what a dice bet may ask for. Chance bounds prevent payout
// multiplier overflow at the extremes.
type Config struct {
	HouseEdgePct float64
	MinChance    float64
	MaxChance    float64
	MinStake     decimal.Decimal
	MaxStake     decimal.Decimal
}

// DefaultConfig mirrors the production table limits.
func DefaultConfig() Config {
	return Config{
		HouseEdgePct: 1.0,
		MinChance:    MinWinChance,
		MaxChance:    MaxWinChance,
		MinStake:     decimal.NewFromFloat(MinStake),
		MaxStake:     decimal.NewFromFloat(MaxStake),
	}
}

// NewResolver creates a dice resolver
func NewResolver(cfg Config) *Resolver {
	return &Resolver{
		houseEdgePct: cfg.HouseEdgePct,
		minChance:    cfg.MinChance,
		maxChance:    cfg.MaxChance,
		minStake:     cfg.MinStake,
		maxStake:     cfg.MaxStake,
	}
}

// Resolve validates the bet, derives the roll from (seed, nonce) and computes
// win/lose plus payout in one step. payoutMultiplier = (100-edge)/winChance,
// so win probability times payout equals 1-edge for every parameterization.
func (r *Resolver) Resolve(bet domain.DiceBet, seed domain.SeedPair, nonce uint64) (domain.DiceResult, error) {
	winChance, err := r.validate(bet)
	if err != nil {
		return domain.DiceResult{}, err
	}

	roll := fairness.OutcomeToDiceRoll(fairness.OutcomeToUnitFloat(fairness.DeriveOutcome(seed, nonce)))

	var won bool
	switch bet.Direction {
	case domain.DiceRollUnder:
		won = roll < bet.Target
	case domain.DiceRollOver:
		won = roll > bet.Target
	}

	payoutMultiplier := (100 - r.houseEdgePct) / winChance

	payout := decimal.Zero
	if won {
		payout = bet.Stake.Mul(decimal.NewFromFloat(payoutMultiplier)).Round(2)
	}

	return domain.DiceResult{
		Roll:             roll,
		WinChance:        winChance,
		PayoutMultiplier: payoutMultiplier,
		Won:              won,
		Payout:           payout,
		Nonce:            nonce,
	}, nil
}

// validate returns the win chance implied by the bet parameters.
func (r *Resolver) validate(bet domain.DiceBet) (float64, error) {
	if bet.Stake.LessThan(r.minStake) || bet.Stake.GreaterThan(r.maxStake) {
		return 0, fmt.Errorf("%w: %s not in [%s, %s]",
			domain.ErrStakeOutOfBounds, bet.Stake, r.minStake, r.maxStake)
	}

	if bet.Target <= 0 || bet.Target >= 100 {
		return 0, fmt.Errorf("%w: %.2f", domain.ErrInvalidTarget, bet.Target)
	}

	// Targets are two-decimal values; anything finer cannot be hit exactly.
	if math.Abs(bet.Target*100-math.Round(bet.Target*100)) > targetEpsilon {
		return 0, fmt.Errorf("%w: %v has more than two decimals", domain.ErrInvalidTarget, bet.Target)
	}

	var winChance float64
	switch bet.Direction {
	case domain.DiceRollUnder:
		winChance = bet.Target
	case domain.DiceRollOver:
		winChance = 100 - bet.Target
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidDirection, bet.Direction)
	}

	if winChance < r.minChance || winChance > r.maxChance {
		return 0, fmt.Errorf("%w: %.2f%% not in [%.2f%%, %.2f%%]",
			domain.ErrChanceOutOfBounds, winChance, r.minChance, r.maxChance)
	}

	return winChance, nil
}
