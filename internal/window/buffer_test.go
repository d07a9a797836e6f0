// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package window

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/tomtom215/spinwatch/internal/models"
)

var base = time.Date(2026, 1, 12, 14, 0, 0, 0, time.UTC)

func outcome(id string, value int, minute int) models.Outcome {
	return models.Outcome{ID: id, Value: value, OccurredAt: base.Add(time.Duration(minute) * time.Minute)}
}

func ids(outcomes []models.Outcome) []string {
	out := make([]string, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.ID
	}
	return out
}

func distinct(n int) []models.Outcome {
	batch := make([]models.Outcome, n)
	for i := range n {
		batch[i] = outcome(fmt.Sprintf("g%03d", i), i%37, i)
	}
	return batch
}

func TestBuffer_AcceptEmpty(t *testing.T) {
	t.Parallel()

	b := NewBuffer(5, 100)
	if got := b.Accept(nil); got != 0 {
		t.Errorf("expected 0 accepted, got %d", got)
	}
	if b.Len() != 0 || b.LedgerLen() != 0 || b.Counters().TotalAccepted != 0 {
		t.Error("expected no side effects for empty batch")
	}
}

func TestBuffer_DedupIdempotence(t *testing.T) {
	t.Parallel()

	b := NewBuffer(40, 1000)
	batch := distinct(10)

	if got := b.Accept(batch); got != 10 {
		t.Fatalf("first Accept: expected 10, got %d", got)
	}
	length, ledger := b.Len(), b.LedgerLen()

	if got := b.Accept(batch); got != 0 {
		t.Errorf("second Accept: expected 0, got %d", got)
	}
	if b.Len() != length || b.LedgerLen() != ledger {
		t.Errorf("expected unchanged state, got len=%d ledger=%d", b.Len(), b.LedgerLen())
	}
	if b.Counters().TotalAccepted != 10 {
		t.Errorf("expected totalAccepted 10, got %d", b.Counters().TotalAccepted)
	}
}

func TestBuffer_WindowBound(t *testing.T) {
	t.Parallel()

	b := NewBuffer(7, 1000)
	all := distinct(100)
	for i := 0; i < len(all); i += 3 {
		b.Accept(all[i:min(i+3, len(all))])
		if b.Len() > b.Size() {
			t.Fatalf("window exceeded size: %d > %d", b.Len(), b.Size())
		}
		if i == 30 {
			b.Resize(2)
			if b.Len() > 2 {
				t.Fatalf("window exceeded size after resize: %d", b.Len())
			}
		}
	}
}

func TestBuffer_ResizeKeepsMostRecent(t *testing.T) {
	t.Parallel()

	b := NewBuffer(40, 1000)
	batch := distinct(40)
	b.Accept(batch)

	b.Resize(10)

	want := ids(batch[30:])
	if got := ids(b.Snapshot()); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if b.LedgerLen() != 40 {
		t.Errorf("resize must not touch the ledger, got %d", b.LedgerLen())
	}

	// Evicted window entries stay in the ledger and are not re-admitted.
	if got := b.Accept(batch[:5]); got != 0 {
		t.Errorf("expected 0 re-accepted after resize, got %d", got)
	}
}

func TestBuffer_ResizeClamp(t *testing.T) {
	t.Parallel()

	b := NewBuffer(5, 100)
	b.Accept(distinct(5))
	b.Resize(0)

	if b.Size() != 1 || b.Len() != 1 {
		t.Errorf("expected size 1 len 1, got size %d len %d", b.Size(), b.Len())
	}
}

func TestBuffer_OrderingDeterminism(t *testing.T) {
	t.Parallel()

	batch := []models.Outcome{
		outcome("c", 3, 5),
		outcome("a", 1, 9),
		{ID: "z", Value: 26, RawTime: "not a time"},
		outcome("b", 2, 5),
		outcome("d", 4, 1),
	}
	want := []string{"z", "d", "b", "c", "a"}

	permutations := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
		{1, 4, 0, 3, 2},
	}
	for _, perm := range permutations {
		in := make([]models.Outcome, len(perm))
		for i, p := range perm {
			in[i] = batch[p]
		}

		b := NewBuffer(10, 100)
		if got := b.Accept(in); got != 5 {
			t.Fatalf("perm %v: expected 5 accepted, got %d", perm, got)
		}
		if got := ids(b.Snapshot()); !slices.Equal(got, want) {
			t.Errorf("perm %v: expected %v, got %v", perm, want, got)
		}
		if last := b.Counters().LastValue; last != 1 {
			t.Errorf("perm %v: expected last value 1, got %d", perm, last)
		}
	}
}

func TestBuffer_SameBatchDuplicates(t *testing.T) {
	t.Parallel()

	b := NewBuffer(10, 100)
	got := b.Accept([]models.Outcome{
		outcome("a", 5, 1),
		outcome("a", 9, 1),
		outcome("b", 7, 2),
	})

	if got != 2 {
		t.Fatalf("expected 2 accepted, got %d", got)
	}
	snap := b.Snapshot()
	if snap[0].ID != "a" || snap[0].Value != 5 {
		t.Errorf("expected first occurrence of 'a' to win, got %+v", snap[0])
	}
}

func TestBuffer_RedeliveryAcrossBatches(t *testing.T) {
	t.Parallel()

	b := NewBuffer(5, 100)
	b.Accept([]models.Outcome{outcome("a", 0, 1), outcome("b", 14, 2)})
	total := b.Counters().TotalAccepted

	if got := b.Accept([]models.Outcome{outcome("a", 0, 1)}); got != 0 {
		t.Errorf("expected 0 accepted for redelivered id, got %d", got)
	}
	if b.Counters().TotalAccepted != total {
		t.Errorf("expected totalAccepted unchanged at %d, got %d", total, b.Counters().TotalAccepted)
	}
}

func TestBuffer_LedgerEvictionReadmits(t *testing.T) {
	t.Parallel()

	b := NewBuffer(2, 3)
	b.Accept([]models.Outcome{outcome("a", 1, 1), outcome("b", 2, 2), outcome("c", 3, 3), outcome("d", 4, 4)})

	if b.LedgerLen() != 3 {
		t.Fatalf("expected ledger len 3, got %d", b.LedgerLen())
	}
	if got := b.Accept([]models.Outcome{outcome("a", 1, 1)}); got != 1 {
		t.Errorf("expected forgotten id to be accepted again, got %d", got)
	}
}

func TestBuffer_Reset(t *testing.T) {
	t.Parallel()

	b := NewBuffer(5, 100)
	batch := distinct(8)
	b.Accept(batch)
	b.Reset()

	if b.Len() != 0 || b.LedgerLen() != 0 {
		t.Errorf("expected empty buffer, got len=%d ledger=%d", b.Len(), b.LedgerLen())
	}
	if c := b.Counters(); c.TotalAccepted != 0 || c.HasLastValue {
		t.Errorf("expected zero counters, got %+v", c)
	}
	if got := b.Accept(batch); got != 8 {
		t.Errorf("expected all 8 accepted after reset, got %d", got)
	}
}

func TestBuffer_LabelAndProgress(t *testing.T) {
	t.Parallel()

	b := NewBuffer(40, 1000)
	b.Accept(distinct(10))

	if b.Label() != 10 {
		t.Errorf("expected label 10 while filling, got %d", b.Label())
	}
	p := b.Progress()
	if p.Count != 10 || p.Percent != 25 || p.Ready {
		t.Errorf("unexpected progress %+v", p)
	}

	b.Accept(distinct(50))
	if b.Label() != 40 {
		t.Errorf("expected label 40 once full, got %d", b.Label())
	}
	if p := b.Progress(); !p.Ready || p.Percent != 100 {
		t.Errorf("expected ready progress, got %+v", p)
	}
}

func TestBuffer_SnapshotIsCopy(t *testing.T) {
	t.Parallel()

	b := NewBuffer(5, 100)
	b.Accept(distinct(3))

	snap := b.Snapshot()
	snap[0].Value = 99

	if b.Snapshot()[0].Value == 99 {
		t.Error("snapshot mutation leaked into the buffer")
	}
}

func TestBuffer_LedgerCoversWindow(t *testing.T) {
	t.Parallel()

	b := NewBuffer(10, 3)
	if b.LedgerCap() != 10 {
		t.Fatalf("ledger cap = %d, want at least the window size 10", b.LedgerCap())
	}

	batch := distinct(10)
	b.Accept(batch)
	if got := b.Accept(batch); got != 0 {
		t.Errorf("ids still in the window were accepted again: %d", got)
	}

	b.Resize(30)
	if b.LedgerCap() != 30 {
		t.Errorf("ledger cap = %d after growing the window, want 30", b.LedgerCap())
	}
	b.Accept(distinct(30))
	seen := make(map[string]bool)
	for _, id := range ids(b.Snapshot()) {
		if seen[id] {
			t.Fatalf("duplicate id %s in window", id)
		}
		seen[id] = true
	}
}
