// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/spinwatch/internal/api"
	"github.com/tomtom215/spinwatch/internal/commands"
	"github.com/tomtom215/spinwatch/internal/config"
	"github.com/tomtom215/spinwatch/internal/feed"
	"github.com/tomtom215/spinwatch/internal/logging"
	"github.com/tomtom215/spinwatch/internal/publisher"
	"github.com/tomtom215/spinwatch/internal/report"
	"github.com/tomtom215/spinwatch/internal/session"
	"github.com/tomtom215/spinwatch/internal/supervisor"
	"github.com/tomtom215/spinwatch/internal/supervisor/services"
	"github.com/tomtom215/spinwatch/internal/telegram"
)

// app holds the wired components.
type app struct {
	session *session.Session
	feed    *feed.Client
	poller  *telegram.Poller
	server  *http.Server
}

// build wires every component from cfg. Nothing starts here.
func build(cfg *config.Config) *app {
	var (
		sink   publisher.Sink
		client *telegram.Client
	)
	switch cfg.Publisher.Sink {
	case config.SinkTelegram:
		client = telegram.NewClient(telegram.Config{
			Token:          cfg.Telegram.Token,
			BaseURL:        cfg.Telegram.BaseURL,
			RequestTimeout: cfg.Telegram.RequestTimeout,
			RatePerSecond:  cfg.Telegram.RatePerSecond,
			Burst:          cfg.Telegram.Burst,
			BreakerTimeout: cfg.Telegram.BreakerTimeout,
		})
		sink = telegram.NewSink(client)
	default:
		sink = publisher.NewLogSink()
	}

	renderer := report.NewRenderer(report.Options{
		TableName: cfg.Report.TableName,
		Location:  cfg.ReportLocation(),
	}, nil)

	sess := session.New(session.Config{
		WindowSize:      cfg.Window.Size,
		WindowMin:       cfg.Window.Min,
		WindowMax:       cfg.Window.Max,
		LedgerCap:       cfg.Window.LedgerCap,
		MinPushInterval: cfg.Publisher.MinPushInterval(),
		DefaultChatID:   cfg.Publisher.ChatID,
	}, publisher.New(sink), renderer)

	a := &app{session: sess}

	a.feed = feed.NewClient(feed.Config{
		URL:              cfg.Feed.URL,
		CasinoID:         cfg.Feed.CasinoID,
		Currency:         cfg.Feed.Currency,
		TableKey:         cfg.Feed.TableKey,
		Location:         cfg.FeedLocation(),
		BackoffFloor:     cfg.Feed.BackoffFloor,
		BackoffCeiling:   cfg.Feed.BackoffCeiling,
		BackoffFactor:    cfg.Feed.BackoffFactor,
		HandshakeTimeout: cfg.Feed.HandshakeTimeout,
		PingInterval:     cfg.Feed.PingInterval,
		PongTimeout:      cfg.Feed.PongTimeout,
		WriteTimeout:     cfg.Feed.WriteTimeout,
	}, sess.HandleBatch, feed.WithStatusHandler(sess.SetConnectivity))

	if client != nil && cfg.Telegram.Commands {
		dispatcher := commands.NewDispatcher(sess, cfg.Admin.ChatIDs)
		a.poller = telegram.NewPoller(client, telegram.PollerConfig{
			LongPollTimeout: cfg.Telegram.LongPollTimeout,
			DropPending:     cfg.Telegram.DropPending,
		}, func(ctx context.Context, cmd telegram.Command) {
			dispatcher.Handle(ctx, commands.Request(cmd))
		})
		if len(cfg.Admin.ChatIDs) == 0 {
			logging.Warn().Msg("ADMIN_CHAT_IDS is empty: every chat may control the bot")
		}
	}

	if cfg.API.Enabled {
		a.server = &http.Server{
			Addr: cfg.API.Addr(),
			Handler: api.NewRouter(sess, api.Config{
				Token:           cfg.API.Token,
				RateLimitReqs:   cfg.API.RateLimitReqs,
				RateLimitWindow: cfg.API.RateLimitWindow,
				Version:         version,
			}),
			ReadTimeout:       cfg.API.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.API.WriteTimeout,
		}
	}

	return a
}

// register adds the long-running components to their supervisor layers.
func (a *app) register(tree *supervisor.SupervisorTree, cfg *config.Config) {
	tree.AddFeedService(services.NewFeedService(a.feed))
	logging.Info().Str("url", cfg.Feed.URL).Msg("Feed client added to supervisor tree")

	if a.poller != nil {
		tree.AddMessagingService(services.NewPollerService(a.poller))
		logging.Info().Int("admins", len(cfg.Admin.ChatIDs)).Msg("Telegram command poller added to supervisor tree")
	}

	if a.server != nil {
		tree.AddAPIService(services.NewHTTPServerService(a.server, cfg.Supervisor.ShutdownTimeout))
		logging.Info().Str("addr", a.server.Addr).Msg("Admin API added to supervisor tree")
	}
}
