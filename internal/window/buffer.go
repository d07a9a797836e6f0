// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package window

import (
	"slices"

	"github.com/tomtom215/spinwatch/internal/models"
)

// DefaultSize is the window size used when a non-positive size is requested.
const DefaultSize = 40

// Counters are the session totals kept alongside the window.
type Counters struct {
	// TotalAccepted counts every outcome accepted since the last Reset.
	TotalAccepted int64

	// LastValue is the value of the most recently accepted outcome.
	LastValue    int
	HasLastValue bool
}

// Progress describes how far the window is from being full.
type Progress struct {
	Count   int
	Size    int
	Percent int
	Ready   bool
}

// Buffer holds the latest Size outcomes in acceptance order.
//
// Invariants:
//   - Len() <= Size() at all times
//   - no two outcomes in the window share an id
//   - LedgerLen() <= the ledger capacity
type Buffer struct {
	size     int
	outcomes []models.Outcome
	ledger   *Ledger
	counters Counters
}

// NewBuffer creates an empty buffer. size is clamped to at least 1 and the
// ledger capacity to at least size.
func NewBuffer(size, ledgerCap int) *Buffer {
	if size < 1 {
		size = DefaultSize
	}
	if ledgerCap <= 0 {
		ledgerCap = DefaultLedgerCap
	}
	return &Buffer{
		size:     size,
		outcomes: make([]models.Outcome, 0, size),
		ledger:   NewLedger(max(ledgerCap, size)),
	}
}

// Accept applies a batch and returns how many outcomes were newly accepted.
//
// The batch is stable-sorted by (time ascending, id ascending) with unknown
// times first. Each outcome whose id the ledger already holds is skipped,
// including later duplicates within the same batch.
func (b *Buffer) Accept(batch []models.Outcome) int {
	if len(batch) == 0 {
		return 0
	}

	sorted := slices.Clone(batch)
	slices.SortStableFunc(sorted, compareOutcomes)

	accepted := 0
	for _, o := range sorted {
		if !b.ledger.Add(o.ID) {
			continue
		}
		b.outcomes = append(b.outcomes, o)
		if over := len(b.outcomes) - b.size; over > 0 {
			b.outcomes = slices.Delete(b.outcomes, 0, over)
		}
		accepted++
		b.counters.TotalAccepted++
		b.counters.LastValue = o.Value
		b.counters.HasLastValue = true
	}
	return accepted
}

// Resize sets the window size and keeps only the most recent outcomes.
// The ledger is left untouched. n is clamped to at least 1.
func (b *Buffer) Resize(n int) {
	if n < 1 {
		n = 1
	}
	b.size = n
	b.ledger.Grow(n)
	if over := len(b.outcomes) - n; over > 0 {
		b.outcomes = slices.Delete(b.outcomes, 0, over)
	}
}

// Reset clears the window, the ledger, and the counters.
func (b *Buffer) Reset() {
	b.outcomes = b.outcomes[:0]
	b.ledger.Clear()
	b.counters = Counters{}
}

// Snapshot returns a copy of the window, oldest first.
func (b *Buffer) Snapshot() []models.Outcome {
	return slices.Clone(b.outcomes)
}

// Len returns the number of outcomes in the window.
func (b *Buffer) Len() int { return len(b.outcomes) }

// Size returns the configured window size.
func (b *Buffer) Size() int { return b.size }

// LedgerLen returns the number of ids the ledger tracks.
func (b *Buffer) LedgerLen() int { return b.ledger.Len() }

// LedgerCap returns the ledger capacity.
func (b *Buffer) LedgerCap() int { return b.ledger.Cap() }

// Counters returns the session counters.
func (b *Buffer) Counters() Counters { return b.counters }

// Label is the window length while filling and the window size once full.
func (b *Buffer) Label() int {
	if len(b.outcomes) >= b.size {
		return b.size
	}
	return len(b.outcomes)
}

// Progress reports the fill level of the window. Percent is truncated.
func (b *Buffer) Progress() Progress {
	count := min(len(b.outcomes), b.size)
	return Progress{
		Count:   count,
		Size:    b.size,
		Percent: count * 100 / b.size,
		Ready:   count >= b.size,
	}
}

func compareOutcomes(a, b models.Outcome) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	default:
		return 0
	}
}
