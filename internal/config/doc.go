// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

/*
Package config provides centralized configuration management for Spinwatch.

Configuration is layered with Koanf v2:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: $CONFIG_PATH, config.yaml, /etc/spinwatch/config.yaml
 3. Environment variables, mapped explicitly in envMappings

Unmapped environment variables are ignored.

# Environment Variables

Feed:
  - ROULETTE_WS_URL: Feed websocket URL (ws or wss)
  - CASINO_ID: Casino identifier sent in the subscription
  - CURRENCY: Currency code sent in the subscription (default: BRL)
  - TABLE_KEY: Table key sent in the subscription (default: 204)
  - FEED_TIMEZONE: Zone the feed reports outcome times in (default: UTC)
  - FEED_BACKOFF_FLOOR / FEED_BACKOFF_CEILING: Reconnect delay bounds (default: 2s / 30s)

Window:
  - DEFAULT_WINDOW_SIZE: Initial window size (default: 40)
  - WINDOW_MIN / WINDOW_MAX: Resize limits (default: 5 / 200)
  - LEDGER_CAP: Remembered outcome ids (default: 1000)

Publisher and Telegram:
  - PUBLISHER_SINK: telegram or log (default: telegram)
  - REPORT_CHAT_ID: Chat used by the admin API and autostart
  - MIN_SECONDS_BETWEEN_EDITS: Report edit throttle (default: 0.8)
  - TELEGRAM_BOT_TOKEN: Bot API token (required for the telegram sink)
  - TELEGRAM_COMMANDS: Poll for chat commands (default: true)
  - ADMIN_CHAT_IDS: Comma-separated chats or users allowed to run commands

Admin API:
  - API_ENABLED: Serve the admin HTTP API (default: false)
  - HTTP_HOST / HTTP_PORT: Listen address (default: 127.0.0.1:8080)
  - API_TOKEN: Bearer token for mutating endpoints (min 16 chars)

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include caller file and line (default: false)

# Usage

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
