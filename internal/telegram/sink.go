// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tomtom215/spinwatch/internal/publisher"
)

// Sink adapts Client to publisher.Sink.
type Sink struct {
	client *Client
}

// NewSink creates a sink backed by client.
func NewSink(client *Client) *Sink {
	return &Sink{client: client}
}

// Create posts a new message.
func (s *Sink) Create(ctx context.Context, chatID, text string) (string, error) {
	id, err := s.client.SendMessage(ctx, chatID, text)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// Edit replaces a message's text.
func (s *Sink) Edit(ctx context.Context, ref publisher.Ref, text string) error {
	if ref.MessageID == "" {
		return publisher.ErrNotFound
	}
	id, err := strconv.ParseInt(ref.MessageID, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid message id %q: %w", ref.MessageID, err)
	}
	return s.client.EditMessageText(ctx, ref.ChatID, id, text)
}

// Send posts an ephemeral message.
func (s *Sink) Send(ctx context.Context, chatID, text string) error {
	_, err := s.client.SendMessage(ctx, chatID, text)
	return err
}
