// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

/*
Package telegram implements the Telegram Bot API transport.

Key Components:

  - Client: sendMessage, editMessageText and getUpdates over HTTPS with goccy/go-json
  - Sink: publisher.Sink on top of Client
  - Poller: long-poll loop feeding incoming commands to a handler

Resilience:

Outbound message calls wait on a golang.org/x/time/rate limiter so edits never
exceed the configured per-second budget. Every call goes through a
sony/gobreaker circuit breaker. Bot API answers that describe the request itself
(message not modified, message not found, bad request) do not count as failures,
so only transport errors and 5xx/429 responses can open the circuit.

Error Mapping:

	"message is not modified"              -> publisher.ErrNotModified
	"message to edit not found"            -> publisher.ErrNotFound
	"message identifier is not specified"  -> publisher.ErrNotFound
*/
package telegram
