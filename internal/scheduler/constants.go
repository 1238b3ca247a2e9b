package scheduler

import "time"

const (
	// CrashPointNonce is the nonce the crash point is derived at. Each round
	// uses a fresh seed pair, so nonce 0 is never reused within a seed.
	CrashPointNonce uint64 = 0

	CountdownDefault    = 5 * time.Second
	TickIntervalDefault = 100 * time.Millisecond
	RoundPauseDefault   = 3 * time.Second

	CurrencyDefault = "USD"
)

// Log messages
const (
	LogMsgRoundStarting = "Starting round"
	LogMsgRoundComplete = "Round settled"
	LogMsgPublishFailed = "Failed to publish event"
)
