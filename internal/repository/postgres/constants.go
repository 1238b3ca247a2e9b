package postgres

// Error message prefixes
const (
	ErrMsgBeginTx       = "failed to begin transaction"
	ErrMsgDebitAccount  = "failed to debit account"
	ErrMsgCreditAccount = "failed to credit account"
	ErrMsgInsertRound   = "failed to insert round"
	ErrMsgQueryRounds   = "failed to query rounds"
	ErrMsgScanRound     = "failed to scan round row"
)

// Log Messages
const (
	LogMsgRollbackFailed = "Failed to rollback transaction"
)
