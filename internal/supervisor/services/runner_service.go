// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/spinwatch/internal/logging"
)

// Runner is a component with a blocking, context-aware run loop.
// Satisfied by *feed.Client and *telegram.Poller.
type Runner interface {
	Run(ctx context.Context) error
}

// FeedService supervises the feed client. The client retries connection
// failures itself, so Run only ends on cancellation, when its continue
// predicate says stop, or on a panic-level fault. A clean return is final and
// maps to suture.ErrDoNotRestart.
type FeedService struct {
	client Runner
	name   string
}

// NewFeedService wraps a feed client.
func NewFeedService(client Runner) *FeedService {
	return &FeedService{client: client, name: "feed-client"}
}

// Serve implements suture.Service.
func (f *FeedService) Serve(ctx context.Context) error {
	err := f.client.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		logging.Info().Msg("Feed client finished, not restarting")
		return suture.ErrDoNotRestart
	}
	return fmt.Errorf("feed client: %w", err)
}

func (f *FeedService) String() string {
	return f.name
}

// PollerService supervises the Telegram command poller. Any return other
// than cancellation is a failure and is restarted with suture's backoff.
type PollerService struct {
	poller Runner
	name   string
}

// NewPollerService wraps a command poller.
func NewPollerService(poller Runner) *PollerService {
	return &PollerService{poller: poller, name: "telegram-poller"}
}

// Serve implements suture.Service.
func (p *PollerService) Serve(ctx context.Context) error {
	err := p.poller.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		return fmt.Errorf("telegram poller exited unexpectedly")
	}
	return fmt.Errorf("telegram poller: %w", err)
}

func (p *PollerService) String() string {
	return p.name
}
