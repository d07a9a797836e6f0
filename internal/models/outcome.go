// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package models

import (
	"time"
)

// Value domain of a single-zero wheel.
const (
	MinValue = 0
	MaxValue = 36
)

// Outcome is one observed game result.
type Outcome struct {
	// ID is the feed-assigned game identifier (non-empty, trimmed).
	ID string `json:"id"`

	// Value is the number that came up.
	Value int `json:"value"`

	// OccurredAt is the parsed event time. The zero value means unknown.
	OccurredAt time.Time `json:"occurred_at,omitempty"`

	// RawTime holds the feed's original time text when it could not be parsed.
	RawTime string `json:"raw_time,omitempty"`
}

// HasTime reports whether the outcome carries a parsed timestamp.
func (o Outcome) HasTime() bool {
	return !o.OccurredAt.IsZero()
}

// InRange reports whether Value lies within [MinValue, MaxValue].
func (o Outcome) InRange() bool {
	return o.Value >= MinValue && o.Value <= MaxValue
}

// Before orders outcomes by (time ascending, id ascending), unknown times first.
func (o Outcome) Before(other Outcome) bool {
	switch {
	case !o.HasTime() && other.HasTime():
		return true
	case o.HasTime() && !other.HasTime():
		return false
	case o.HasTime() && !o.OccurredAt.Equal(other.OccurredAt):
		return o.OccurredAt.Before(other.OccurredAt)
	}
	return o.ID < other.ID
}
