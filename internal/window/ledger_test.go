// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package window

import (
	"fmt"
	"testing"
)

func TestLedger_AddContains(t *testing.T) {
	l := NewLedger(3)

	if !l.Add("a") {
		t.Error("expected first Add('a') to return true")
	}
	if l.Add("a") {
		t.Error("expected second Add('a') to return false")
	}
	if !l.Contains("a") {
		t.Error("expected 'a' to be tracked")
	}
	if l.Contains("b") {
		t.Error("expected 'b' to be untracked")
	}
	if l.Len() != 1 {
		t.Errorf("expected len 1, got %d", l.Len())
	}
}

func TestLedger_FIFOEviction(t *testing.T) {
	l := NewLedger(3)
	l.Add("a")
	l.Add("b")
	l.Add("c")

	// Lookups must not refresh position.
	l.Contains("a")
	l.Add("a")

	l.Add("d")

	if l.Contains("a") {
		t.Error("expected 'a' (oldest) to be evicted")
	}
	for _, id := range []string{"b", "c", "d"} {
		if !l.Contains(id) {
			t.Errorf("expected %q to be tracked", id)
		}
	}
	if l.Evicted() != 1 {
		t.Errorf("expected 1 eviction, got %d", l.Evicted())
	}

	// An evicted id is eligible again.
	if !l.Add("a") {
		t.Error("expected evicted 'a' to be accepted again")
	}
	if l.Contains("b") {
		t.Error("expected 'b' to be evicted after re-adding 'a'")
	}
}

func TestLedger_Bound(t *testing.T) {
	l := NewLedger(50)
	for i := range 500 {
		l.Add(fmt.Sprintf("g%d", i))
		if l.Len() > l.Cap() {
			t.Fatalf("ledger exceeded capacity: %d > %d", l.Len(), l.Cap())
		}
	}
	if l.Len() != 50 {
		t.Errorf("expected len 50, got %d", l.Len())
	}
	if !l.Contains("g499") || l.Contains("g449") {
		t.Error("expected only the 50 newest ids to be tracked")
	}
}

func TestLedger_Clear(t *testing.T) {
	l := NewLedger(2)
	l.Add("a")
	l.Add("b")
	l.Add("c")
	l.Clear()

	if l.Len() != 0 || l.Evicted() != 0 {
		t.Errorf("expected empty ledger, got len=%d evicted=%d", l.Len(), l.Evicted())
	}
	if !l.Add("b") {
		t.Error("expected Add after Clear to succeed")
	}
}

func TestNewLedger_DefaultCapacity(t *testing.T) {
	t.Parallel()

	if got := NewLedger(0).Cap(); got != DefaultLedgerCap {
		t.Errorf("expected default capacity %d, got %d", DefaultLedgerCap, got)
	}
}

func TestLedger_Grow(t *testing.T) {
	t.Parallel()

	l := NewLedger(2)
	l.Add("a")
	l.Add("b")

	l.Grow(1)
	if l.Cap() != 2 {
		t.Errorf("Grow must not shrink, cap = %d", l.Cap())
	}

	l.Grow(3)
	l.Add("c")
	if !l.Contains("a") || l.Len() != 3 {
		t.Errorf("expected all three ids after growing, len = %d", l.Len())
	}
}
