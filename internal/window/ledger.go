// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package window

// DefaultLedgerCap is used when a non-positive capacity is requested.
const DefaultLedgerCap = 1000

type ledgerEntry struct {
	id   string
	prev *ledgerEntry
	next *ledgerEntry
}

// Ledger is a bounded set of ids evicted in insertion order.
// It provides O(1) Contains, Add, and eviction using a hashmap plus a
// doubly-linked list with sentinel nodes. Unlike an LRU, lookups never
// refresh an entry's position.
type Ledger struct {
	capacity int

	items map[string]*ledgerEntry

	// head.next is the newest id, tail.prev the oldest
	head *ledgerEntry
	tail *ledgerEntry

	evicted int64
}

// NewLedger creates a ledger holding at most capacity ids.
func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultLedgerCap
	}
	l := &Ledger{
		capacity: capacity,
		items:    make(map[string]*ledgerEntry, capacity),
		head:     &ledgerEntry{},
		tail:     &ledgerEntry{},
	}
	l.head.next = l.tail
	l.tail.prev = l.head
	return l
}

// Contains reports whether id is currently tracked.
func (l *Ledger) Contains(id string) bool {
	_, ok := l.items[id]
	return ok
}

// Add records id. It returns false if id was already tracked.
// When the ledger exceeds its capacity the oldest id is forgotten.
func (l *Ledger) Add(id string) bool {
	if _, exists := l.items[id]; exists {
		return false
	}

	entry := &ledgerEntry{id: id}
	entry.prev = l.head
	entry.next = l.head.next
	l.head.next.prev = entry
	l.head.next = entry
	l.items[id] = entry

	for len(l.items) > l.capacity {
		l.evictOldest()
	}
	return true
}

// Len returns the number of tracked ids.
func (l *Ledger) Len() int {
	return len(l.items)
}

// Cap returns the maximum number of tracked ids.
func (l *Ledger) Cap() int {
	return l.capacity
}

// Grow raises the capacity to at least n. It never shrinks the ledger.
func (l *Ledger) Grow(n int) {
	l.capacity = max(l.capacity, n)
}

// Evicted returns how many ids have been forgotten since the last Clear.
func (l *Ledger) Evicted() int64 {
	return l.evicted
}

// Clear forgets every id.
func (l *Ledger) Clear() {
	l.items = make(map[string]*ledgerEntry, l.capacity)
	l.head.next = l.tail
	l.tail.prev = l.head
	l.evicted = 0
}

func (l *Ledger) evictOldest() {
	oldest := l.tail.prev
	if oldest == l.head {
		return
	}
	oldest.prev.next = oldest.next
	oldest.next.prev = oldest.prev
	oldest.prev = nil
	oldest.next = nil
	delete(l.items, oldest.id)
	l.evicted++
}
