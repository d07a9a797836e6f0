// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

/*
Package analytics derives descriptive statistics from a window of outcomes.

Compute is a pure function: identical input always yields an identical Snapshot.
Values outside [0, 36] are dropped before anything is counted.

Denominators:

  - zero percentage is taken over the in-range total
  - parity, color, low/high, dozen, and column percentages are taken over the
    non-zero count, since zero belongs to none of those groups
  - region percentages are taken over the in-range total, because the four
    regions partition every number including zero

Percentages use round-half-away-from-zero. Each of the four region percentages
is off by at most 0.5, so over a non-empty window they sum to 100 plus or minus 2.
*/
package analytics
