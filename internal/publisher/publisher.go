// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package publisher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/spinwatch/internal/logging"
	"github.com/tomtom215/spinwatch/internal/metrics"
)

// Push results recorded in metrics.
const (
	resultEdited      = "edited"
	resultUnchanged   = "unchanged"
	resultThrottled   = "throttled"
	resultNotModified = "not_modified"
	resultRecreated   = "recreated"
	resultNoSink      = "no_sink"
	resultError       = "error"
)

// Publisher owns the fixed message location and push bookkeeping.
//
// Accessors are safe for concurrent use and never wait on the sink. EnsureSink
// and Push must be serialized by the caller.
type Publisher struct {
	sink Sink
	now  func() time.Time

	mu          sync.Mutex
	location    Ref
	hasLocation bool
	lastContent string
	lastPush    time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithClock overrides the time source used for throttling.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

// New creates a publisher with no fixed message.
func New(sink Sink, opts ...Option) *Publisher {
	p := &Publisher{sink: sink, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EnsureSink makes sure a fixed message exists in chatID. With no message
// recorded, or one recorded in a different chat, a new message is created with
// content. A message already in chatID is left alone.
func (p *Publisher) EnsureSink(ctx context.Context, chatID, content string) error {
	loc, has := p.Location()
	if has && loc.ChatID == chatID {
		return nil
	}
	if has {
		logging.Info().
			Str("from_chat", loc.ChatID).
			Str("to_chat", chatID).
			Msg("Re-anchoring fixed message")
	}
	return p.anchor(ctx, chatID, content)
}

// Push updates the fixed message with content. It reports whether the remote
// message observably changed. Only transport errors outside ErrNotModified and
// ErrNotFound are returned.
func (p *Publisher) Push(ctx context.Context, content string, minInterval time.Duration, force bool) (bool, error) {
	p.mu.Lock()
	loc, has := p.location, p.hasLocation
	lastContent, lastPush := p.lastContent, p.lastPush
	p.mu.Unlock()

	if !has {
		metrics.RecordPublish(resultNoSink)
		return false, nil
	}
	if content == lastContent {
		metrics.RecordPublish(resultUnchanged)
		return false, nil
	}
	if !force && p.now().Sub(lastPush) < minInterval {
		metrics.RecordPublish(resultThrottled)
		return false, nil
	}

	err := p.sink.Edit(ctx, loc, content)
	switch {
	case err == nil:
		p.record(content)
		metrics.RecordPublish(resultEdited)
		return true, nil

	case errors.Is(err, ErrNotModified):
		p.record(content)
		metrics.RecordPublish(resultNotModified)
		return false, nil

	case errors.Is(err, ErrNotFound):
		logging.Warn().
			Str("chat_id", loc.ChatID).
			Str("message_id", loc.MessageID).
			Msg("Fixed message disappeared, creating a new one")
		if err := p.anchor(ctx, loc.ChatID, content); err != nil {
			metrics.RecordPublish(resultError)
			return false, err
		}
		metrics.RecordPublish(resultRecreated)
		return true, nil

	default:
		metrics.RecordPublish(resultError)
		return false, fmt.Errorf("edit fixed message: %w", err)
	}
}

// Send posts an ephemeral message to chatID.
func (p *Publisher) Send(ctx context.Context, chatID, text string) error {
	if err := p.sink.Send(ctx, chatID, text); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Location returns the fixed message reference, if any.
func (p *Publisher) Location() (Ref, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location, p.hasLocation
}

// LastContent returns the last content the remote message is known to hold.
func (p *Publisher) LastContent() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastContent
}

// LastPush returns when content was last recorded. Zero means never.
func (p *Publisher) LastPush() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPush
}

func (p *Publisher) anchor(ctx context.Context, chatID, content string) error {
	messageID, err := p.sink.Create(ctx, chatID, content)
	if err != nil {
		return fmt.Errorf("create fixed message: %w", err)
	}
	p.mu.Lock()
	p.location = Ref{ChatID: chatID, MessageID: messageID}
	p.hasLocation = true
	p.lastContent = content
	p.lastPush = p.now()
	p.mu.Unlock()
	metrics.PublishAnchors.Inc()
	logging.Info().
		Str("chat_id", chatID).
		Str("message_id", messageID).
		Msg("Fixed message created")
	return nil
}

func (p *Publisher) record(content string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastContent = content
	p.lastPush = p.now()
}
