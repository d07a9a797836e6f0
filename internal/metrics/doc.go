// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered on the default registry through promauto and exposed by
the admin API at /metrics.

# Available Metrics

Feed Metrics:
  - spinwatch_feed_connected: 1 while the websocket is connected (gauge)
  - spinwatch_feed_connect_attempts_total: dial results (counter)
    Labels: result
  - spinwatch_feed_disconnects_total: connection losses (counter)
    Labels: stage
  - spinwatch_feed_messages_received_total, spinwatch_feed_messages_ignored_total
  - spinwatch_feed_batches_total, spinwatch_feed_batch_duration_seconds
  - spinwatch_feed_records_rejected_total: decoder drops (counter)
  - spinwatch_feed_backoff_seconds: current reconnect delay (gauge)

Window Metrics:
  - spinwatch_window_accepted_total, spinwatch_window_duplicates_total
  - spinwatch_window_length, spinwatch_window_size, spinwatch_ledger_size
  - spinwatch_session_running

Publisher Metrics:
  - spinwatch_publish_attempts_total: push decisions (counter)
    Labels: result
  - spinwatch_publish_anchors_total: fixed messages created (counter)
  - spinwatch_sink_request_duration_seconds (histogram)
    Labels: sink, operation

Command and API Metrics:
  - spinwatch_commands_total, spinwatch_commands_rejected_total
  - spinwatch_api_requests_total, spinwatch_api_request_duration_seconds
  - spinwatch_api_rate_limit_hits_total

Circuit Breaker Metrics:
  - spinwatch_circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - spinwatch_circuit_breaker_requests_total, spinwatch_circuit_breaker_state_transitions_total
*/
package metrics
