package fairness

import (
	"encoding/hex"
	"fmt"

	"github.com/fairlines/engine/internal/domain"
)

// RecomputeParams selects which outcome mapping to reproduce.
type RecomputeParams struct {
	Game          domain.GameType
	HouseEdge     float64 // crash only; DefaultHouseEdge when zero
	MaxMultiplier float64 // crash only; DefaultMaxMultiplier when zero
	Rows          int     // plinko only
}

// RecomputeResult carries the recomputed outcome for a published seed pair.
// Byte-identical to the engine's own computation, so any party holding the
// revealed seeds can confirm a published result.
type RecomputeResult struct {
	Digest          string   `json:"digest"`
	UnitFloat       float64  `json:"unit_float"`
	CrashMultiplier float64  `json:"crash_multiplier,omitempty"`
	DiceRoll        *float64 `json:"dice_roll,omitempty"`
	PlinkoPath      []bool   `json:"plinko_path,omitempty"`
}

// Recompute re-derives the outcome for (seed, nonce) under the given game's
// mapping. This is the public verification surface.
func Recompute(seed domain.SeedPair, nonce uint64, params RecomputeParams) (RecomputeResult, error) {
	digest := DeriveOutcome(seed, nonce)
	result := RecomputeResult{
		Digest:    hex.EncodeToString(digest[:]),
		UnitFloat: OutcomeToUnitFloat(digest),
	}

	switch params.Game {
	case domain.GameCrash:
		edge := params.HouseEdge
		if edge == 0 {
			edge = DefaultHouseEdge
		}
		result.CrashMultiplier = OutcomeToCrashMultiplier(result.UnitFloat, edge, params.MaxMultiplier)
	case domain.GameDice:
		roll := OutcomeToDiceRoll(result.UnitFloat)
		result.DiceRoll = &roll
	case domain.GamePlinko:
		if params.Rows <= 0 {
			return RecomputeResult{}, fmt.Errorf("%w: %d rows", domain.ErrUnsupportedRows, params.Rows)
		}
		result.PlinkoPath = OutcomeToPlinkoPath(seed, nonce, params.Rows)
	default:
		return RecomputeResult{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedGame, params.Game)
	}

	return result, nil
}
