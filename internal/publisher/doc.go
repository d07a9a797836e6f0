// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

/*
Package publisher keeps one editable "fixed message" up to date on a Sink.

State Machine:

	no-sink     --EnsureSink-->            sink-active
	sink-active --EnsureSink(other chat)--> sink-active (new message, re-anchored)
	sink-active --Push, ErrNotFound-->      sink-active (new message, same chat)

Push Guards (in order):

 1. no sink recorded: skip
 2. content equal to the last pushed content: skip, regardless of elapsed time
 3. not forced and within the minimum interval: skip (throttled)
 4. edit in place; ErrNotModified is booked as a push that changed nothing,
    ErrNotFound re-creates the message, any other error is returned unchanged

Sinks:

  - LogSink writes every operation to the structured log (no external service)
  - telegram.Sink talks to the Telegram Bot API

Publisher is not synchronized. The session package serializes every call.
*/
package publisher
