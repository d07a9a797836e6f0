// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

/*
Package window maintains the deduplicated sliding window of recent outcomes.

Key Components:

  - Ledger: bounded FIFO set of every accepted outcome id
  - Buffer: the ordered window of the latest N outcomes plus session counters

A Buffer applies each incoming batch in (time, id) order after a stable sort,
skipping ids the ledger already holds. The ledger is sized independently of the
window so that resizing never re-admits ids that were seen recently. Once the
ledger exceeds its capacity the oldest tracked id is forgotten and becomes
eligible again.

Thread Safety:

Neither Ledger nor Buffer is synchronized. The session package owns one Buffer
behind its own mutex and is the only caller.
*/
package window
