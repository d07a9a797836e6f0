// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package config

import (
	"fmt"
	"time"
)

// Sink names accepted by PublisherConfig.Sink.
const (
	SinkTelegram = "telegram"
	SinkLog      = "log"
)

// Config holds all application configuration.
type Config struct {
	Feed       FeedConfig       `koanf:"feed"`
	Window     WindowConfig     `koanf:"window"`
	Publisher  PublisherConfig  `koanf:"publisher"`
	Telegram   TelegramConfig   `koanf:"telegram"`
	Admin      AdminConfig      `koanf:"admin"`
	API        APIConfig        `koanf:"api"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
	Logging    LoggingConfig    `koanf:"logging"`
	Report     ReportConfig     `koanf:"report"`
}

// FeedConfig holds the live outcome feed endpoint and connection timing.
//
// Environment Variables:
//   - ROULETTE_WS_URL: Feed websocket URL
//   - CASINO_ID, CURRENCY, TABLE_KEY: Subscription parameters
//   - FEED_BACKOFF_FLOOR, FEED_BACKOFF_CEILING: Reconnect delay bounds
type FeedConfig struct {
	URL      string `koanf:"url"`
	CasinoID string `koanf:"casino_id"`
	Currency string `koanf:"currency"`
	TableKey int    `koanf:"table_key"`

	// Timezone the feed reports outcome times in (IANA name).
	// Default: UTC
	Timezone string `koanf:"timezone"`

	BackoffFloor   time.Duration `koanf:"backoff_floor"`
	BackoffCeiling time.Duration `koanf:"backoff_ceiling"`
	BackoffFactor  float64       `koanf:"backoff_factor"`

	HandshakeTimeout time.Duration `koanf:"handshake_timeout"`
	PingInterval     time.Duration `koanf:"ping_interval"`
	PongTimeout      time.Duration `koanf:"pong_timeout"`
	WriteTimeout     time.Duration `koanf:"write_timeout"`
}

// WindowConfig holds the analysis window limits.
type WindowConfig struct {
	// Size is the initial window size.
	// Default: 40
	Size int `koanf:"size"`

	// Min and Max bound resize requests.
	Min int `koanf:"min"`
	Max int `koanf:"max"`

	// LedgerCap bounds the number of remembered outcome ids.
	// Must be at least Max.
	LedgerCap int `koanf:"ledger_cap"`
}

// PublisherConfig controls where the fixed report message lives.
type PublisherConfig struct {
	// Sink is "telegram" or "log".
	Sink string `koanf:"sink"`

	// ChatID is the chat used when a session is started without one
	// (admin API, or autostart).
	ChatID string `koanf:"chat_id"`

	// MinSecondsBetweenEdits throttles unforced report edits.
	// Default: 0.8
	MinSecondsBetweenEdits float64 `koanf:"min_seconds_between_edits"`

	// Autostart starts the session at boot when ChatID is set.
	Autostart bool `koanf:"autostart"`
}

// MinPushInterval returns MinSecondsBetweenEdits as a duration.
func (p PublisherConfig) MinPushInterval() time.Duration {
	return time.Duration(p.MinSecondsBetweenEdits * float64(time.Second))
}

// TelegramConfig holds Bot API settings.
type TelegramConfig struct {
	Token   string `koanf:"token"`
	BaseURL string `koanf:"base_url"`

	RequestTimeout time.Duration `koanf:"request_timeout"`
	RatePerSecond  float64       `koanf:"rate_per_second"`
	Burst          int           `koanf:"burst"`
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`

	// Commands enables getUpdates long polling for chat commands.
	Commands        bool          `koanf:"commands"`
	LongPollTimeout time.Duration `koanf:"long_poll_timeout"`
	DropPending     bool          `koanf:"drop_pending"`
}

// AdminConfig lists the chats and users allowed to run commands.
// An empty list allows everyone.
type AdminConfig struct {
	ChatIDs []string `koanf:"chat_ids"`
}

// APIConfig holds the admin HTTP API settings.
type APIConfig struct {
	Enabled bool   `koanf:"enabled"`
	Host    string `koanf:"host"`
	Port    int    `koanf:"port"`

	// Token is the bearer token required on mutating endpoints.
	Token string `koanf:"token"`

	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// Addr returns the listen address.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// SupervisorConfig holds the suture tree parameters.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// ReportConfig controls report rendering.
type ReportConfig struct {
	TableName string `koanf:"table_name"`

	// Timezone used for the date and update time lines (IANA name).
	Timezone string `koanf:"timezone"`
}

// Load reads configuration from defaults, the optional config file and the
// environment, in that order of increasing priority.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// FeedLocation returns the parsed feed timezone.
func (c *Config) FeedLocation() *time.Location {
	return mustLocation(c.Feed.Timezone)
}

// ReportLocation returns the parsed report timezone.
func (c *Config) ReportLocation() *time.Location {
	return mustLocation(c.Report.Timezone)
}

// mustLocation falls back to UTC; Validate rejects unknown zones first.
func mustLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
