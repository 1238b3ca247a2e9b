package handler

// Request error messages
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request. Please check your inputs."
	ErrMsgMissingQueryParam     = "missing required query parameter: %s"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgRoundNotOpenError    = "Betting is closed for this round"
	ErrMsgRoundNotRunningError = "No round is currently running"
	ErrMsgRoundFullError       = "This round is full"
	ErrMsgDuplicateBetError    = "You already have a bet in this round"
	ErrMsgBetNotFoundError     = "You have no bet in this round"
	ErrMsgAlreadySettledError  = "Your bet has already been settled"
	ErrMsgStakeOutOfBoundsErr  = "Stake is outside the allowed range"
	ErrMsgNotEnoughMoneyError  = "Not enough money"
	ErrMsgUnknownAccountError  = "Account not found"

	ErrMsgInvalidSeedError   = "Server seed must be a hex string"
	ErrMsgUnsupportedGameErr = "Unsupported game"
	ErrMsgUnsupportedRowsErr = "Unsupported row count"
	ErrMsgRoundNotFoundError = "Round not found"
	ErrMsgNoCurrentRoundErr  = "No round is currently active"
)
