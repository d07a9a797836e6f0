// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

// Package main is the entry point for spinwatch.
//
// Spinwatch subscribes to a live roulette outcome feed, keeps a deduplicated
// sliding window of recent spins and maintains a single fixed chat message
// with statistics over that window.
//
// # Startup order
//
//  1. Configuration (Koanf v2: defaults, config.yaml, environment)
//  2. Logging (zerolog)
//  3. Message sink (Telegram Bot API or log) and publisher
//  4. Session (window, ledger, analytics, renderer)
//  5. Feed client, command poller and admin API under a suture tree
//
// # Example
//
//	export TELEGRAM_BOT_TOKEN=123456:ABC...
//	export REPORT_CHAT_ID=-1001234567890
//	export ADMIN_CHAT_IDS=-1001234567890
//	./spinwatch
//
// Without Telegram, reports go to the log:
//
//	PUBLISHER_SINK=log AUTOSTART=true REPORT_CHAT_ID=local ./spinwatch
//
// SIGINT and SIGTERM stop the tree; services get SUPERVISOR_SHUTDOWN_TIMEOUT to
// finish.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	// Report and feed timezones must resolve on hosts without zoneinfo.
	_ "time/tzdata"

	"github.com/tomtom215/spinwatch/internal/config"
	"github.com/tomtom215/spinwatch/internal/logging"
	"github.com/tomtom215/spinwatch/internal/metrics"
	"github.com/tomtom215/spinwatch/internal/supervisor"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.SetAppInfo(version)

	logging.Info().
		Str("version", version).
		Str("feed_url", cfg.Feed.URL).
		Int("table_key", cfg.Feed.TableKey).
		Str("sink", cfg.Publisher.Sink).
		Int("window_size", cfg.Window.Size).
		Bool("api_enabled", cfg.API.Enabled).
		Msg("Starting spinwatch")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := build(cfg)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: cfg.Supervisor.FailureThreshold,
		FailureDecay:     cfg.Supervisor.FailureDecay,
		FailureBackoff:   cfg.Supervisor.FailureBackoff,
		ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	app.register(tree, cfg)

	if cfg.Publisher.Autostart {
		if err := app.session.Start(ctx, cfg.Publisher.ChatID); err != nil {
			logging.Error().Err(err).Msg("Autostart failed, waiting for a start command")
		} else {
			logging.Info().Str("chat_id", cfg.Publisher.ChatID).Msg("Session autostarted")
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	awaitTree(ctx, errCh)

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Spinwatch stopped")
}

// awaitTree blocks until the tree has stopped. errCh carries exactly one
// result and is never closed, so it is received from once.
func awaitTree(ctx context.Context, errCh <-chan error) {
	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		err = <-errCh
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}
}
