package domain

import "github.com/shopspring/decimal"

// GameType identifies which outcome mapping a verification request targets.
type GameType string

const (
	GameCrash  GameType = "crash"
	GameDice   GameType = "dice"
	GamePlinko GameType = "plinko"
)

// DiceDirection is the side of the target a dice bet wins on.
type DiceDirection string

const (
	DiceRollUnder DiceDirection = "under"
	DiceRollOver  DiceDirection = "over"
)

// DiceBet holds the parameters of a single dice wager.
type DiceBet struct {
	PlayerID  string          `json:"player_id"`
	Stake     decimal.Decimal `json:"stake"`
	Target    float64         `json:"target"`
	Direction DiceDirection   `json:"direction"`
}

// DiceResult is the resolved outcome of a dice bet.
type DiceResult struct {
	Roll             float64         `json:"roll"`
	WinChance        float64         `json:"win_chance"`
	PayoutMultiplier float64         `json:"payout_multiplier"`
	Won              bool            `json:"won"`
	Payout           decimal.Decimal `json:"payout"`
	Nonce            uint64          `json:"nonce"`
}

// PlinkoRisk selects the payout table spread for a plinko drop.
type PlinkoRisk string

const (
	PlinkoRiskLow    PlinkoRisk = "low"
	PlinkoRiskMedium PlinkoRisk = "medium"
	PlinkoRiskHigh   PlinkoRisk = "high"
)

// PlinkoBet holds the parameters of a single plinko drop.
type PlinkoBet struct {
	PlayerID string          `json:"player_id"`
	Stake    decimal.Decimal `json:"stake"`
	Risk     PlinkoRisk      `json:"risk"`
	Rows     int             `json:"rows"`
}

// PlinkoResult is the resolved outcome of a plinko drop.
type PlinkoResult struct {
	Path             []bool          `json:"path"`
	Bin              int             `json:"bin"`
	PayoutMultiplier float64         `json:"payout_multiplier"`
	Won              bool            `json:"won"`
	Payout           decimal.Decimal `json:"payout"`
	Nonce            uint64          `json:"nonce"`
}
