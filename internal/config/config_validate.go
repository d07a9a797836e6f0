// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/spinwatch/internal/logging"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateFeed(); err != nil {
		return err
	}

	if err := c.validateWindow(); err != nil {
		return err
	}

	if err := c.validatePublisher(); err != nil {
		return err
	}

	if err := c.validateTelegram(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateReport(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateFeed validates the feed endpoint, subscription and backoff
func (c *Config) validateFeed() error {
	if c.Feed.URL == "" {
		return fmt.Errorf("ROULETTE_WS_URL is required")
	}
	if err := validateWebSocketURL(c.Feed.URL, "ROULETTE_WS_URL"); err != nil {
		return fmt.Errorf("ROULETTE_WS_URL is invalid: %w", err)
	}
	if c.Feed.CasinoID == "" {
		return fmt.Errorf("CASINO_ID is required")
	}
	if c.Feed.TableKey <= 0 {
		return fmt.Errorf("TABLE_KEY must be positive, got %d", c.Feed.TableKey)
	}
	if err := validateTimezone(c.Feed.Timezone, "FEED_TIMEZONE"); err != nil {
		return err
	}
	return c.validateBackoff()
}

// validateBackoff validates the reconnect delay bounds
func (c *Config) validateBackoff() error {
	if c.Feed.BackoffFloor <= 0 {
		return fmt.Errorf("FEED_BACKOFF_FLOOR must be positive, got %v", c.Feed.BackoffFloor)
	}
	if c.Feed.BackoffCeiling < c.Feed.BackoffFloor {
		return fmt.Errorf("FEED_BACKOFF_CEILING (%v) must be at least FEED_BACKOFF_FLOOR (%v)",
			c.Feed.BackoffCeiling, c.Feed.BackoffFloor)
	}
	if c.Feed.BackoffFactor < 1 {
		return fmt.Errorf("FEED_BACKOFF_FACTOR must be at least 1, got %v", c.Feed.BackoffFactor)
	}
	return nil
}

// validateWindow validates window size limits and the ledger capacity
func (c *Config) validateWindow() error {
	w := c.Window
	if w.Min < 1 {
		return fmt.Errorf("WINDOW_MIN must be at least 1, got %d", w.Min)
	}
	if w.Max < w.Min {
		return fmt.Errorf("WINDOW_MAX (%d) must be at least WINDOW_MIN (%d)", w.Max, w.Min)
	}
	if w.Size < w.Min || w.Size > w.Max {
		return fmt.Errorf("DEFAULT_WINDOW_SIZE must be between %d and %d, got %d", w.Min, w.Max, w.Size)
	}
	if w.LedgerCap < w.Max {
		return fmt.Errorf("LEDGER_CAP (%d) must be at least WINDOW_MAX (%d)", w.LedgerCap, w.Max)
	}
	return nil
}

// validatePublisher validates the sink selection and throttle
func (c *Config) validatePublisher() error {
	switch c.Publisher.Sink {
	case SinkTelegram, SinkLog:
	default:
		return fmt.Errorf("PUBLISHER_SINK must be %q or %q, got %q", SinkTelegram, SinkLog, c.Publisher.Sink)
	}
	if c.Publisher.MinSecondsBetweenEdits < 0 {
		return fmt.Errorf("MIN_SECONDS_BETWEEN_EDITS must not be negative, got %v", c.Publisher.MinSecondsBetweenEdits)
	}
	if c.Publisher.Autostart && c.Publisher.ChatID == "" {
		return fmt.Errorf("REPORT_CHAT_ID is required when AUTOSTART=true")
	}
	return nil
}

// validateTelegram validates Bot API settings (only when Telegram is used)
func (c *Config) validateTelegram() error {
	if !c.UsesTelegram() {
		return nil
	}
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required when PUBLISHER_SINK=telegram")
	}
	if err := validateHTTPURL(c.Telegram.BaseURL, "TELEGRAM_BASE_URL"); err != nil {
		return fmt.Errorf("TELEGRAM_BASE_URL is invalid: %w", err)
	}
	if c.Telegram.RatePerSecond <= 0 {
		return fmt.Errorf("TELEGRAM_RATE_PER_SECOND must be positive, got %v", c.Telegram.RatePerSecond)
	}
	if c.Telegram.Burst < 1 {
		return fmt.Errorf("TELEGRAM_BURST must be at least 1, got %d", c.Telegram.Burst)
	}
	return nil
}

// UsesTelegram reports whether any component talks to the Bot API.
func (c *Config) UsesTelegram() bool {
	return c.Publisher.Sink == SinkTelegram
}

// validateAPI validates the admin HTTP API (only if enabled)
func (c *Config) validateAPI() error {
	if !c.API.Enabled {
		return nil
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.API.Port)
	}
	if len(c.API.Token) < 16 {
		return fmt.Errorf("API_TOKEN must be at least 16 characters when API_ENABLED=true")
	}
	if c.API.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.API.RateLimitReqs)
	}
	if c.API.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %v", c.API.RateLimitWindow)
	}
	return nil
}

// validateReport validates report rendering settings
func (c *Config) validateReport() error {
	if strings.TrimSpace(c.Report.TableName) == "" {
		return fmt.Errorf("TABLE_NAME must not be empty")
	}
	return validateTimezone(c.Report.Timezone, "REPORT_TIMEZONE")
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

func validateTimezone(name, fieldName string) error {
	if name == "" {
		return nil
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("%s is not a valid timezone: %w", fieldName, err)
	}
	return nil
}
