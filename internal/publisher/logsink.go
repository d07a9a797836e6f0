// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package publisher

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/spinwatch/internal/logging"
)

// LogSink writes messages to the structured log instead of a chat service.
// It remembers the last text per message so it can report ErrNotModified and
// ErrNotFound the way a real chat service would.
type LogSink struct {
	mu       sync.Mutex
	logger   zerolog.Logger
	nextID   int
	messages map[Ref]string
}

// NewLogSink creates a sink that logs with the "sink" component.
func NewLogSink() *LogSink {
	return NewLogSinkWithLogger(logging.WithComponent("sink"))
}

// NewLogSinkWithLogger creates a sink around a specific logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLogSinkWithLogger(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger, messages: make(map[Ref]string)}
}

// Create logs a new fixed message.
func (s *LogSink) Create(_ context.Context, chatID, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := strconv.Itoa(s.nextID)
	s.messages[Ref{ChatID: chatID, MessageID: id}] = text
	s.logger.Info().Str("chat_id", chatID).Str("message_id", id).Msg(text)
	return id, nil
}

// Edit logs a replacement text for a known message.
func (s *LogSink) Edit(_ context.Context, ref Ref, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.messages[ref]
	if !ok {
		return ErrNotFound
	}
	if current == text {
		return ErrNotModified
	}
	s.messages[ref] = text
	s.logger.Info().Str("chat_id", ref.ChatID).Str("message_id", ref.MessageID).Bool("edit", true).Msg(text)
	return nil
}

// Send logs an ephemeral message.
func (s *LogSink) Send(_ context.Context, chatID, text string) error {
	s.logger.Info().Str("chat_id", chatID).Bool("ephemeral", true).Msg(text)
	return nil
}

// Delete forgets a message, as if a chat member had removed it.
func (s *LogSink) Delete(ref Ref) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, ref)
}
