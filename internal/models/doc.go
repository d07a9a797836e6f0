// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

/*
Package models defines the records shared between the feed, window, analytics,
publisher and command packages.

Key Components:

  - Outcome: one normalized game result (id, value, time)
  - Connectivity: the feed connection state reported by the feed client
  - StatusReport: the read-only view served by the status command and the admin API

Outcome values are immutable once constructed. The window package owns accepted
outcomes and only ever hands out copies.
*/
package models
