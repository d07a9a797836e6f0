// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package models

import (
	"time"
)

// ConnectionState is the feed client's connection state.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnected    ConnectionState = "connected"
	StateStopped      ConnectionState = "stopped"
)

// Connectivity is a connection transition reported by the feed client.
type Connectivity struct {
	State     ConnectionState `json:"state"`
	LastError string          `json:"last_error,omitempty"`
	Since     time.Time       `json:"since"`
}

// Connected reports whether the feed is currently connected.
func (c Connectivity) Connected() bool {
	return c.State == StateConnected
}

// StatusReport is the read-only session view returned by the status command
// and the admin API.
type StatusReport struct {
	Running       bool         `json:"running"`
	Feed          Connectivity `json:"feed"`
	WindowSize    int          `json:"window_size"`
	WindowLength  int          `json:"window_length"`
	ProgressPct   int          `json:"progress_pct"`
	LedgerSize    int          `json:"ledger_size"`
	TotalAccepted int64        `json:"total_accepted"`
	LastValue     *int         `json:"last_value,omitempty"`
	SinkChatID    string       `json:"sink_chat_id,omitempty"`
	SinkMessageID string       `json:"sink_message_id,omitempty"`
	LastPushAt    *time.Time   `json:"last_push_at,omitempty"`
}
