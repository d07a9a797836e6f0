// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/spinwatch/internal/logging"
	"github.com/tomtom215/spinwatch/internal/metrics"
	"github.com/tomtom215/spinwatch/internal/models"
)

// Config holds the feed endpoint, subscription, and timing settings.
type Config struct {
	URL      string
	CasinoID string
	Currency string
	TableKey int

	// Location is the zone outcome times are reported in.
	Location *time.Location

	BackoffFloor   time.Duration
	BackoffCeiling time.Duration
	BackoffFactor  float64

	HandshakeTimeout time.Duration
	PingInterval     time.Duration
	PongTimeout      time.Duration
	WriteTimeout     time.Duration
}

// DefaultConfig returns the production feed settings.
func DefaultConfig() Config {
	return Config{
		URL:              "wss://dga.pragmaticplaylive.net/ws",
		CasinoID:         "ppcdk00000005349",
		Currency:         "BRL",
		TableKey:         204,
		Location:         time.UTC,
		BackoffFloor:     2 * time.Second,
		BackoffCeiling:   30 * time.Second,
		BackoffFactor:    1.6,
		HandshakeTimeout: 10 * time.Second,
		PingInterval:     20 * time.Second,
		PongTimeout:      20 * time.Second,
		WriteTimeout:     5 * time.Second,
	}
}

// SubscribeRequest is the single outbound message sent after connecting.
type SubscribeRequest struct {
	Type     string `json:"type"`
	CasinoID string `json:"casinoId"`
	Currency string `json:"currency"`
	Key      []int  `json:"key"`
}

// BatchHandler receives each non-empty decoded batch. The client waits for it
// to return before reading the next message. Errors are logged only.
type BatchHandler func(ctx context.Context, batch []models.Outcome) error

// StatusHandler receives connectivity transitions.
type StatusHandler func(models.Connectivity)

// Client owns the websocket lifecycle for one feed subscription.
type Client struct {
	cfg     Config
	decoder *Decoder
	dialer  *websocket.Dialer

	onBatch        BatchHandler
	onStatus       StatusHandler
	shouldContinue func() bool

	now func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithStatusHandler registers a connectivity callback.
func WithStatusHandler(h StatusHandler) Option {
	return func(c *Client) { c.onStatus = h }
}

// WithContinue registers a predicate checked before each connection and each
// read. Returning false ends Run without error.
func WithContinue(fn func() bool) Option {
	return func(c *Client) { c.shouldContinue = fn }
}

// WithClock overrides the time source used for connectivity reports.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a feed client. Zero timing values fall back to DefaultConfig.
func NewClient(cfg Config, onBatch BatchHandler, opts ...Option) *Client {
	def := DefaultConfig()
	if cfg.BackoffFloor <= 0 {
		cfg.BackoffFloor = def.BackoffFloor
	}
	if cfg.BackoffCeiling < cfg.BackoffFloor {
		cfg.BackoffCeiling = max(def.BackoffCeiling, cfg.BackoffFloor)
	}
	if cfg.BackoffFactor < 1 {
		cfg.BackoffFactor = def.BackoffFactor
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = def.HandshakeTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = def.PongTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}

	c := &Client{
		cfg:     cfg,
		decoder: NewDecoder(cfg.Location),
		dialer: &websocket.Dialer{
			HandshakeTimeout:  cfg.HandshakeTimeout,
			EnableCompression: true,
		},
		onBatch:        onBatch,
		shouldContinue: func() bool { return true },
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run connects, subscribes, and delivers batches until ctx is canceled or the
// continue predicate returns false. Connection and protocol failures are
// retried with exponential backoff and never end Run.
//
// Exactly one "stopped" report is emitted on exit. Run returns ctx.Err() when
// canceled and nil when the continue predicate ended it.
func (c *Client) Run(ctx context.Context) error {
	defer c.report(models.StateStopped, "")

	backoff := c.cfg.BackoffFloor
	for c.shouldContinue() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.report(models.StateDisconnected, "")
		err := c.runConnection(ctx, &backoff)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			continue
		}

		c.report(models.StateDisconnected, err.Error())
		logging.Warn().
			Err(err).
			Dur("backoff", backoff).
			Msg("Feed connection lost, reconnecting")
		metrics.FeedBackoffSeconds.Set(backoff.Seconds())

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff = c.nextBackoff(backoff)
	}
	return nil
}

func (c *Client) nextBackoff(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * c.cfg.BackoffFactor)
	return min(next, c.cfg.BackoffCeiling)
}

// runConnection handles one connection from dial to failure. It returns nil
// only when the continue predicate ends the read loop.
func (c *Client) runConnection(ctx context.Context, backoff *time.Duration) error {
	conn, err := c.dial(ctx)
	metrics.RecordConnectAttempt(err)
	if err != nil {
		metrics.FeedDisconnects.WithLabelValues("dial").Inc()
		return err
	}

	// Closing the socket is the only way to unblock ReadMessage.
	stopClose := context.AfterFunc(ctx, func() {
		_ = conn.Close() //nolint:errcheck // best-effort unblock on cancel
	})
	defer func() {
		stopClose()
		_ = conn.Close() //nolint:errcheck // connection is being discarded
		metrics.SetFeedConnected(false)
	}()

	if err := c.subscribe(conn); err != nil {
		metrics.FeedDisconnects.WithLabelValues("subscribe").Inc()
		return err
	}

	c.report(models.StateConnected, "")
	metrics.SetFeedConnected(true)
	*backoff = c.cfg.BackoffFloor
	metrics.FeedBackoffSeconds.Set(0)
	logging.Info().
		Str("url", c.cfg.URL).
		Int("table", c.cfg.TableKey).
		Msg("Feed connected and subscribed")

	done := make(chan struct{})
	defer close(done)
	go c.pingLoop(conn, done)

	if err := c.readLoop(ctx, conn); err != nil {
		metrics.FeedDisconnects.WithLabelValues("read").Inc()
		return err
	}
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if resp != nil && resp.Body != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Debug().Err(cerr).Msg("Failed to close handshake response body")
		}
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial: status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial: %w", err)
	}
	return conn, nil
}

func (c *Client) subscribe(conn *websocket.Conn) error {
	payload, err := json.Marshal(SubscribeRequest{
		Type:     "subscribe",
		CasinoID: c.cfg.CasinoID,
		Currency: c.cfg.Currency,
		Key:      []int{c.cfg.TableKey},
	})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	if err := conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	readWait := c.cfg.PingInterval + c.cfg.PongTimeout
	extend := func() error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	}
	if err := extend(); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	conn.SetPongHandler(func(string) error { return extend() })

	for c.shouldContinue() {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if err := extend(); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		metrics.FeedMessagesReceived.Inc()

		batch, ok := c.extractBatch(data)
		if !ok {
			continue
		}

		start := time.Now()
		if err := c.onBatch(ctx, batch); err != nil {
			logging.Error().Err(err).Int("batch", len(batch)).Msg("Batch handler failed")
		}
		metrics.RecordBatch(time.Since(start))
	}
	return nil
}

// extractBatch decodes the last20Results array of one message.
func (c *Client) extractBatch(data []byte) ([]models.Outcome, bool) {
	if len(data) == 0 {
		metrics.FeedMessagesIgnored.WithLabelValues("empty").Inc()
		return nil, false
	}

	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		metrics.FeedMessagesIgnored.WithLabelValues("unparseable").Inc()
		return nil, false
	}

	items, ok := msg["last20Results"].([]any)
	if !ok || len(items) == 0 {
		metrics.FeedMessagesIgnored.WithLabelValues("no_results").Inc()
		return nil, false
	}

	batch, rejected := c.decoder.DecodeBatch(items)
	if rejected > 0 {
		metrics.FeedRecordsRejected.Add(float64(rejected))
		logging.Debug().Int("rejected", rejected).Int("items", len(items)).Msg("Dropped malformed result items")
	}
	return batch, len(batch) > 0
}

// pingLoop sends websocket pings until done is closed or a write fails.
// WriteControl is safe to call concurrently with the reader.
func (c *Client) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					logging.Debug().Err(err).Msg("Feed ping failed")
				}
				return
			}
		}
	}
}

func (c *Client) report(state models.ConnectionState, lastError string) {
	if c.onStatus == nil {
		return
	}
	c.onStatus(models.Connectivity{State: state, LastError: lastError, Since: c.now()})
}
