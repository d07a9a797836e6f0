// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

// Package logging provides centralized zerolog-based structured logging for Spinwatch.
//
// Every component logs through the global logger configured here, so the feed
// client, the publisher, the command surface and the supervisor tree share one
// output format and one level.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("url", endpoint).Msg("Connecting to feed")
//	logging.Error().Err(err).Msg("Publish failed")
//
// Component loggers carry a fixed "component" field:
//
//	log := logging.WithComponent("feed")
//	log.Warn().Dur("backoff", d).Msg("Reconnecting")
//
// # Context
//
// Commands and HTTP requests carry a correlation ID through the context:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Info().Str("command", "/start").Msg("Command received")
//
// # Supervisor Integration
//
// suture/v4 logs through log/slog via sutureslog. SlogHandler bridges those
// events into zerolog:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//	spec := suture.Spec{EventHook: handler.MustHook()}
//
// # Configuration
//
// Level and format come from the logging section of the configuration
// (LOG_LEVEL, LOG_FORMAT, LOG_CALLER environment variables).
package logging
