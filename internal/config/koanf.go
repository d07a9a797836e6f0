// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/spinwatch/config.yaml",
	"/etc/spinwatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			URL:              "wss://dga.pragmaticplaylive.net/ws",
			CasinoID:         "ppcdk00000005349",
			Currency:         "BRL",
			TableKey:         204,
			Timezone:         "UTC",
			BackoffFloor:     2 * time.Second,
			BackoffCeiling:   30 * time.Second,
			BackoffFactor:    1.6,
			HandshakeTimeout: 10 * time.Second,
			PingInterval:     20 * time.Second,
			PongTimeout:      20 * time.Second,
			WriteTimeout:     5 * time.Second,
		},
		Window: WindowConfig{
			Size:      40,
			Min:       5,
			Max:       200,
			LedgerCap: 1000,
		},
		Publisher: PublisherConfig{
			Sink:                   SinkTelegram,
			MinSecondsBetweenEdits: 0.8,
		},
		Telegram: TelegramConfig{
			BaseURL:         "https://api.telegram.org",
			RequestTimeout:  15 * time.Second,
			RatePerSecond:   1,
			Burst:           3,
			BreakerTimeout:  30 * time.Second,
			Commands:        true,
			LongPollTimeout: 30 * time.Second,
			DropPending:     true,
		},
		Admin: AdminConfig{
			ChatIDs: []string{},
		},
		API: APIConfig{
			Enabled:         false,
			Host:            "127.0.0.1",
			Port:            8080,
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5.0,
			FailureDecay:     30.0,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Report: ReportConfig{
			TableName: "Mega Roulette",
			Timezone:  "America/Sao_Paulo",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// ROULETTE_WS_URL -> feed.url
	// DEFAULT_WINDOW_SIZE -> window.size
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"admin.chat_ids",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok {
			// Already a slice (from YAML file or defaults)
			continue
		}

		trimmed := []string{}
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	// Feed
	"roulette_ws_url":        "feed.url",
	"casino_id":              "feed.casino_id",
	"currency":               "feed.currency",
	"table_key":              "feed.table_key",
	"feed_timezone":          "feed.timezone",
	"feed_backoff_floor":     "feed.backoff_floor",
	"feed_backoff_ceiling":   "feed.backoff_ceiling",
	"feed_backoff_factor":    "feed.backoff_factor",
	"feed_handshake_timeout": "feed.handshake_timeout",
	"feed_ping_interval":     "feed.ping_interval",
	"feed_pong_timeout":      "feed.pong_timeout",
	"feed_write_timeout":     "feed.write_timeout",

	// Window
	"default_window_size": "window.size",
	"window_min":          "window.min",
	"window_max":          "window.max",
	"ledger_cap":          "window.ledger_cap",

	// Publisher
	"publisher_sink":            "publisher.sink",
	"report_chat_id":            "publisher.chat_id",
	"min_seconds_between_edits": "publisher.min_seconds_between_edits",
	"autostart":                 "publisher.autostart",

	// Telegram
	"telegram_bot_token":         "telegram.token",
	"telegram_base_url":          "telegram.base_url",
	"telegram_request_timeout":   "telegram.request_timeout",
	"telegram_rate_per_second":   "telegram.rate_per_second",
	"telegram_burst":             "telegram.burst",
	"telegram_breaker_timeout":   "telegram.breaker_timeout",
	"telegram_commands":          "telegram.commands",
	"telegram_long_poll_timeout": "telegram.long_poll_timeout",
	"telegram_drop_pending":      "telegram.drop_pending",

	// Admin (ADMIN_CHAT_ID kept for single-admin deployments)
	"admin_chat_ids": "admin.chat_ids",
	"admin_chat_id":  "admin.chat_ids",

	// Admin API
	"api_enabled":         "api.enabled",
	"http_host":           "api.host",
	"http_port":           "api.port",
	"api_token":           "api.token",
	"rate_limit_requests": "api.rate_limit_reqs",
	"rate_limit_window":   "api.rate_limit_window",
	"http_read_timeout":   "api.read_timeout",
	"http_write_timeout":  "api.write_timeout",

	// Supervisor
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Report
	"table_name":      "report.table_name",
	"report_timezone": "report.timezone",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - TELEGRAM_BOT_TOKEN -> telegram.token
//   - DEFAULT_WINDOW_SIZE -> window.size
//   - ADMIN_CHAT_IDS -> admin.chat_ids
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
