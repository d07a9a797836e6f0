// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed Metrics
	FeedConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spinwatch_feed_connected",
			Help: "Whether the outcome feed websocket is connected (1) or not (0)",
		},
	)

	FeedConnectAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spinwatch_feed_connect_attempts_total",
			Help: "Total number of feed connection attempts",
		},
		[]string{"result"}, // "success", "failure"
	)

	FeedDisconnects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spinwatch_feed_disconnects_total",
			Help: "Total number of feed disconnects by stage",
		},
		[]string{"stage"}, // "dial", "subscribe", "read"
	)

	FeedMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spinwatch_feed_messages_received_total",
			Help: "Total number of websocket messages received from the feed",
		},
	)

	FeedMessagesIgnored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spinwatch_feed_messages_ignored_total",
			Help: "Total number of feed messages skipped without a result batch",
		},
		[]string{"reason"}, // "empty", "unparseable", "no_results"
	)

	FeedBatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spinwatch_feed_batches_total",
			Help: "Total number of decoded batches delivered to the session",
		},
	)

	FeedRecordsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spinwatch_feed_records_rejected_total",
			Help: "Total number of feed records dropped by the decoder",
		},
	)

	FeedBackoffSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spinwatch_feed_backoff_seconds",
			Help: "Current reconnect backoff delay in seconds",
		},
	)

	FeedBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spinwatch_feed_batch_duration_seconds",
			Help:    "Time spent handling one feed batch, including the publish",
			Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// Window Metrics
	WindowAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spinwatch_window_accepted_total",
			Help: "Total number of outcomes accepted into the window",
		},
	)

	WindowDuplicates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spinwatch_window_duplicates_total",
			Help: "Total number of outcomes skipped because their id was already seen",
		},
	)

	WindowLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spinwatch_window_length",
			Help: "Current number of outcomes in the window",
		},
	)

	WindowSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spinwatch_window_size",
			Help: "Configured window size",
		},
	)

	LedgerSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spinwatch_ledger_size",
			Help: "Current number of ids tracked by the dedup ledger",
		},
	)

	SessionRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spinwatch_session_running",
			Help: "Whether batches are being applied to the publish pipeline (1) or not (0)",
		},
	)

	// Publisher Metrics
	PublishAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spinwatch_publish_attempts_total",
			Help: "Total number of fixed message push decisions by result",
		},
		// "edited", "unchanged", "throttled", "not_modified", "recreated", "no_sink", "error"
		[]string{"result"},
	)

	PublishAnchors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spinwatch_publish_anchors_total",
			Help: "Total number of fixed messages created",
		},
	)

	SinkRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spinwatch_sink_request_duration_seconds",
			Help:    "Duration of message sink calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sink", "operation"},
	)

	// Command Metrics
	CommandsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spinwatch_commands_total",
			Help: "Total number of commands handled",
		},
		[]string{"command", "source"}, // source: "telegram", "api"
	)

	CommandsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spinwatch_commands_rejected_total",
			Help: "Total number of commands ignored from unauthorized callers",
		},
		[]string{"source"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spinwatch_api_requests_total",
			Help: "Total number of admin API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spinwatch_api_request_duration_seconds",
			Help:    "Admin API request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spinwatch_api_rate_limit_hits_total",
			Help: "Total number of admin API requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spinwatch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spinwatch_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spinwatch_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spinwatch_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordConnectAttempt records the result of one feed dial.
func RecordConnectAttempt(err error) {
	if err != nil {
		FeedConnectAttempts.WithLabelValues("failure").Inc()
		return
	}
	FeedConnectAttempts.WithLabelValues("success").Inc()
}

// SetFeedConnected sets the feed connection gauge.
func SetFeedConnected(connected bool) {
	FeedConnected.Set(boolToFloat(connected))
}

// RecordBatch records one delivered batch and how long it took to handle.
func RecordBatch(duration time.Duration) {
	FeedBatches.Inc()
	FeedBatchDuration.Observe(duration.Seconds())
}

// RecordAccept records the outcome of one window Accept call.
func RecordAccept(batchSize, accepted int) {
	WindowAccepted.Add(float64(accepted))
	if dup := batchSize - accepted; dup > 0 {
		WindowDuplicates.Add(float64(dup))
	}
}

// SetWindowState updates the window gauges.
func SetWindowState(length, size, ledger int) {
	WindowLength.Set(float64(length))
	WindowSize.Set(float64(size))
	LedgerSize.Set(float64(ledger))
}

// SetSessionRunning sets the running gauge.
func SetSessionRunning(running bool) {
	SessionRunning.Set(boolToFloat(running))
}

// RecordPublish records one push decision.
func RecordPublish(result string) {
	PublishAttempts.WithLabelValues(result).Inc()
}

// RecordSinkRequest records the latency of one sink call.
func RecordSinkRequest(sink, operation string, duration time.Duration) {
	SinkRequestDuration.WithLabelValues(sink, operation).Observe(duration.Seconds())
}

// RecordAPIRequest records an admin API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
