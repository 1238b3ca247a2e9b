package worker

// Pool sizing defaults
const (
	DefaultWorkers   = 4
	DefaultQueueSize = 256
)

// Metric label values
const (
	LedgerOpDebit  = "debit"
	LedgerOpCredit = "credit"
)

// Log message constants
const (
	LogMsgWorkerJobFailed    = "Worker job failed"
	LogMsgLedgerDebitFailed  = "Ledger debit failed"
	LogMsgLedgerCreditFailed = "Ledger credit failed"
	LogMsgBatchCreditFailed  = "Batch credit failed, retrying per player"
)
