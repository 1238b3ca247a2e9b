package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Round phase errors
	ErrMsgRoundNotOpen    = "round is not open for bets"
	ErrMsgRoundNotRunning = "round is not running"
	ErrMsgRoundFull       = "round is at participant capacity"

	// Bet errors
	ErrMsgDuplicateBet     = "player already has a bet this round"
	ErrMsgBetNotFound      = "no bet found for player"
	ErrMsgAlreadySettled   = "bet already settled"
	ErrMsgStakeOutOfBounds = "stake outside allowed bounds"

	// Resolver errors
	ErrMsgChanceOutOfBounds  = "win chance outside allowed bounds"
	ErrMsgInvalidTarget      = "invalid target"
	ErrMsgInvalidDirection   = "invalid direction"
	ErrMsgUnsupportedRisk    = "unsupported risk tier"
	ErrMsgUnsupportedRows    = "unsupported row count"
	ErrMsgUnsupportedGame    = "unsupported game type"

	// Fairness errors
	ErrMsgEntropyFailure = "entropy source failure"

	// Scheduler errors
	ErrMsgSchedulerRunning = "scheduler is already running"

	// Ledger errors
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgUnknownAccount    = "unknown account"
)

// Common domain errors
// These errors should be used consistently across all layers of the engine.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Round phase errors (validation, no state mutation occurs)
	ErrRoundNotOpen    = errors.New(ErrMsgRoundNotOpen)
	ErrRoundNotRunning = errors.New(ErrMsgRoundNotRunning)
	ErrRoundFull       = errors.New(ErrMsgRoundFull)

	// Bet errors
	ErrDuplicateBet     = errors.New(ErrMsgDuplicateBet)
	ErrBetNotFound      = errors.New(ErrMsgBetNotFound)
	ErrStakeOutOfBounds = errors.New(ErrMsgStakeOutOfBounds)

	// ErrAlreadySettled is the race-lost error: expected and frequent under
	// concurrency, returned to the losing caller, never a system fault.
	ErrAlreadySettled = errors.New(ErrMsgAlreadySettled)

	// Resolver errors
	ErrChanceOutOfBounds = errors.New(ErrMsgChanceOutOfBounds)
	ErrInvalidTarget     = errors.New(ErrMsgInvalidTarget)
	ErrInvalidDirection  = errors.New(ErrMsgInvalidDirection)
	ErrUnsupportedRisk   = errors.New(ErrMsgUnsupportedRisk)
	ErrUnsupportedRows   = errors.New(ErrMsgUnsupportedRows)
	ErrUnsupportedGame   = errors.New(ErrMsgUnsupportedGame)

	// ErrEntropyFailure is fatal: the engine refuses to create a new round
	// rather than fall back to a weaker randomness source.
	ErrEntropyFailure = errors.New(ErrMsgEntropyFailure)

	// Scheduler errors
	ErrSchedulerRunning = errors.New(ErrMsgSchedulerRunning)

	// Ledger errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrUnknownAccount    = errors.New(ErrMsgUnknownAccount)
)
