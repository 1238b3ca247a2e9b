package crash

// Defaults for round configuration
const (
	// DefaultGrowthConstantSeconds drives multiplier = exp(elapsed/constant).
	DefaultGrowthConstantSeconds = 5.0

	// DefaultMaxParticipants caps the shared round.
	DefaultMaxParticipants = 500

	// EventBufferSize bounds the per-round outbound event queue. The tick
	// driver never blocks on a slow consumer; overflowing updates are dropped
	// and logged. Crash and settlement notifications are exempt: they are
	// delivered outside the critical section and block until consumed.
	EventBufferSize = 1024
)

// Metric label values
const (
	CashOutTypeManual = "manual"
	CashOutTypeAuto   = "auto"

	RejectReasonPhase     = "phase"
	RejectReasonDuplicate = "duplicate"
	RejectReasonStake     = "stake"
	RejectReasonCapacity  = "capacity"
)

// Log message constants
const (
	LogMsgEventDropped    = "Round event queue full, event dropped"
	LogMsgRoundCrashed    = "Round crashed"
	LogMsgRoundSettled    = "Round settled"
	LogMsgAutoCashOut     = "Auto cash-out triggered"
	LogMsgBetPlaced       = "Bet placed"
	LogMsgPlayerCashedOut = "Player cashed out"
)
