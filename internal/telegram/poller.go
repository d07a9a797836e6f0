// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package telegram

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/tomtom215/spinwatch/internal/logging"
)

// Command is an incoming chat message.
type Command struct {
	ChatID string
	UserID string
	Text   string
}

// CommandHandler handles one incoming chat message.
type CommandHandler func(ctx context.Context, cmd Command)

// PollerConfig controls the getUpdates loop.
type PollerConfig struct {
	LongPollTimeout time.Duration
	RetryFloor      time.Duration
	RetryCeiling    time.Duration

	// DropPending skips updates queued while the bot was offline.
	DropPending bool
}

// DefaultPollerConfig returns standard long-poll settings.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		LongPollTimeout: 30 * time.Second,
		RetryFloor:      time.Second,
		RetryCeiling:    30 * time.Second,
		DropPending:     true,
	}
}

// Poller receives chat messages through getUpdates.
type Poller struct {
	client  *Client
	cfg     PollerConfig
	handler CommandHandler
	offset  int64
}

// NewPoller creates a poller. Zero durations fall back to DefaultPollerConfig.
func NewPoller(client *Client, cfg PollerConfig, handler CommandHandler) *Poller {
	def := DefaultPollerConfig()
	if cfg.LongPollTimeout <= 0 {
		cfg.LongPollTimeout = def.LongPollTimeout
	}
	if cfg.RetryFloor <= 0 {
		cfg.RetryFloor = def.RetryFloor
	}
	if cfg.RetryCeiling < cfg.RetryFloor {
		cfg.RetryCeiling = max(def.RetryCeiling, cfg.RetryFloor)
	}
	return &Poller{client: client, cfg: cfg, handler: handler}
}

// Run polls until ctx is canceled. Handlers run synchronously in update order.
func (p *Poller) Run(ctx context.Context) error {
	if p.cfg.DropPending {
		p.skipPending(ctx)
	}

	delay := p.cfg.RetryFloor
	for {
		updates, err := p.client.GetUpdates(ctx, p.offset, p.cfg.LongPollTimeout)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.RetryAfter > delay {
				delay = apiErr.RetryAfter
			}
			logging.Warn().Err(err).Dur("retry_in", delay).Msg("Telegram getUpdates failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = min(delay*2, p.cfg.RetryCeiling)
			continue
		}
		delay = p.cfg.RetryFloor

		for _, u := range updates {
			p.offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			cmd := Command{
				ChatID: strconv.FormatInt(u.Message.Chat.ID, 10),
				Text:   u.Message.Text,
			}
			if u.Message.From != nil {
				cmd.UserID = strconv.FormatInt(u.Message.From.ID, 10)
			}
			p.handler(ctx, cmd)
		}
	}
}

// skipPending acknowledges everything queued before startup.
func (p *Poller) skipPending(ctx context.Context) {
	updates, err := p.client.GetUpdates(ctx, -1, 0)
	if err != nil {
		logging.Debug().Err(err).Msg("Could not drop pending Telegram updates")
		return
	}
	if n := len(updates); n > 0 {
		p.offset = updates[n-1].UpdateID + 1
		logging.Info().Int64("offset", p.offset).Msg("Dropped pending Telegram updates")
	}
}
