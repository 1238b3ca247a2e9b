package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Round Metrics
var (
	RoundsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRoundsStarted,
			Help: HelpTextRoundsStarted,
		},
	)

	RoundsSettled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRoundsSettled,
			Help: HelpTextRoundsSettled,
		},
	)

	InstantCrashes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameInstantCrashes,
			Help: HelpTextInstantCrashes,
		},
	)

	CrashPoint = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameCrashPoint,
			Help:    HelpTextCrashPoint,
			Buckets: CrashPointBuckets,
		},
	)

	RoundDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameRoundDuration,
			Help:    HelpTextRoundDuration,
			Buckets: RoundDurationBuckets,
		},
	)
)

// Bet Metrics
var (
	BetsPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBetsPlaced,
			Help: HelpTextBetsPlaced,
		},
	)

	BetsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBetsRejected,
			Help: HelpTextBetsRejected,
		},
		[]string{LabelReason},
	)

	CashOuts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCashOuts,
			Help: HelpTextCashOuts,
		},
		[]string{LabelType},
	)

	RaceLostCashOuts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRaceLostCashOuts,
			Help: HelpTextRaceLostCashOuts,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Ledger Metrics
var (
	LedgerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLedgerErrors,
			Help: HelpTextLedgerErrors,
		},
		[]string{LabelOp},
	)
)

// HTTP Metrics
var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequests,
			Help: HelpTextHTTPRequests,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)
)
