package metrics

// ============================================================================
// Metric Names
// ============================================================================

// Round metric names
const (
	MetricNameRoundsStarted  = "rounds_started_total"
	MetricNameRoundsSettled  = "rounds_settled_total"
	MetricNameInstantCrashes = "instant_crashes_total"
	MetricNameCrashPoint     = "crash_point_multiplier"
	MetricNameRoundDuration  = "round_duration_seconds"
)

// Bet metric names
const (
	MetricNameBetsPlaced       = "bets_placed_total"
	MetricNameBetsRejected     = "bets_rejected_total"
	MetricNameCashOuts         = "cash_outs_total"
	MetricNameRaceLostCashOuts = "race_lost_cash_outs_total"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Ledger metric names
const (
	MetricNameLedgerErrors = "ledger_errors_total"
)

// HTTP metric names
const (
	MetricNameHTTPRequests        = "http_requests_total"
	MetricNameHTTPRequestDuration = "http_request_duration_seconds"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// Round metric help text
const (
	HelpTextRoundsStarted  = "Total number of crash rounds started"
	HelpTextRoundsSettled  = "Total number of crash rounds settled"
	HelpTextInstantCrashes = "Total number of rounds that crashed at the floor multiplier"
	HelpTextCrashPoint     = "Distribution of round crash points"
	HelpTextRoundDuration  = "Running-phase duration of crash rounds in seconds"
)

// Bet metric help text
const (
	HelpTextBetsPlaced       = "Total number of bets accepted"
	HelpTextBetsRejected     = "Total number of bets rejected by validation"
	HelpTextCashOuts         = "Total number of successful cash-outs"
	HelpTextRaceLostCashOuts = "Total number of cash-out attempts that lost the settlement race"
)

// Event metric help text
const (
	HelpTextEventsPublished     = "Total number of events published"
	HelpTextEventHandlerErrors  = "Total number of event handler errors"
)

// Ledger metric help text
const (
	HelpTextLedgerErrors = "Total number of failed ledger calls"
)

// HTTP metric help text
const (
	HelpTextHTTPRequests        = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration = "HTTP request latency in seconds"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelType   = "type"
	LabelReason = "reason"
	LabelOp     = "op"
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
)

// CrashPointBuckets spreads the Pareto-like crash tail across useful ranges.
var CrashPointBuckets = []float64{1.0, 1.2, 1.5, 2, 3, 5, 10, 25, 50, 100, 1000}

// RoundDurationBuckets covers the exponential multiplier growth window.
var RoundDurationBuckets = []float64{0.5, 1, 2, 5, 10, 20, 40, 80}
