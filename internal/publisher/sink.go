// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package publisher

import (
	"context"
	"errors"
)

// Distinguished sink errors. Any other error is a transport failure.
var (
	// ErrNotModified means the edit carried the content the message already has.
	ErrNotModified = errors.New("message is not modified")

	// ErrNotFound means the message to edit no longer exists.
	ErrNotFound = errors.New("message to edit not found")
)

// Ref addresses one message on a sink.
type Ref struct {
	ChatID    string `json:"chat_id"`
	MessageID string `json:"message_id"`
}

// Sink is an editable-message transport.
type Sink interface {
	// Create posts a new message and returns its id.
	Create(ctx context.Context, chatID, text string) (string, error)

	// Edit replaces the text of an existing message.
	Edit(ctx context.Context, ref Ref, text string) error

	// Send posts a message that will never be edited.
	Send(ctx context.Context, chatID, text string) error
}
