// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/spinwatch/internal/analytics"
	"github.com/tomtom215/spinwatch/internal/logging"
	"github.com/tomtom215/spinwatch/internal/metrics"
	"github.com/tomtom215/spinwatch/internal/models"
	"github.com/tomtom215/spinwatch/internal/publisher"
	"github.com/tomtom215/spinwatch/internal/report"
	"github.com/tomtom215/spinwatch/internal/window"
)

// ErrNoChat is returned when an operation needs a chat and none is known.
var ErrNoChat = errors.New("no chat configured for the fixed message")

// Config holds the session limits.
type Config struct {
	WindowSize int
	WindowMin  int
	WindowMax  int
	LedgerCap  int

	// MinPushInterval throttles unforced pushes of the fixed message.
	MinPushInterval time.Duration

	// DefaultChatID is used by Start when the caller has no chat of its own.
	DefaultChatID string
}

// DefaultConfig returns the standard limits.
func DefaultConfig() Config {
	return Config{
		WindowSize:      window.DefaultSize,
		WindowMin:       5,
		WindowMax:       200,
		LedgerCap:       window.DefaultLedgerCap,
		MinPushInterval: 800 * time.Millisecond,
	}
}

// Session is the single coordination point for shared bot state.
//
// mu guards the window, the running flag and connectivity and is never held
// across a sink call. pubMu serializes fixed message updates. When both are
// needed pubMu is taken first, and content is rendered after acquiring it so
// a slow push can never be overtaken by an older report.
type Session struct {
	mu    sync.Mutex
	pubMu sync.Mutex

	cfg      Config
	buffer   *window.Buffer
	pub      *publisher.Publisher
	renderer *report.Renderer

	running bool
	conn    models.Connectivity
}

// New creates a stopped session.
func New(cfg Config, pub *publisher.Publisher, renderer *report.Renderer) *Session {
	def := DefaultConfig()
	if cfg.WindowMin < 1 {
		cfg.WindowMin = def.WindowMin
	}
	if cfg.WindowMax < cfg.WindowMin {
		cfg.WindowMax = max(def.WindowMax, cfg.WindowMin)
	}
	if cfg.WindowSize < 1 {
		cfg.WindowSize = def.WindowSize
	}
	cfg.WindowSize = clamp(cfg.WindowSize, cfg.WindowMin, cfg.WindowMax)
	if cfg.LedgerCap < 1 {
		cfg.LedgerCap = def.LedgerCap
	}
	// Every id still in the window must also be in the ledger.
	cfg.LedgerCap = max(cfg.LedgerCap, cfg.WindowMax)

	s := &Session{
		cfg:      cfg,
		buffer:   window.NewBuffer(cfg.WindowSize, cfg.LedgerCap),
		pub:      pub,
		renderer: renderer,
		conn:     models.Connectivity{State: models.StateDisconnected},
	}
	metrics.SetSessionRunning(false)
	s.recordWindowState()
	return s
}

// HandleBatch applies a feed batch and pushes the refreshed report. Batches
// arriving while the session is stopped are dropped. Only unclassified sink
// errors are returned.
func (s *Session) HandleBatch(ctx context.Context, batch []models.Outcome) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	accepted := s.buffer.Accept(batch)
	metrics.RecordAccept(len(batch), accepted)
	s.recordWindowState()
	s.mu.Unlock()

	if accepted == 0 {
		return nil
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	content, running := s.renderState()
	if !running {
		return nil
	}
	_, err := s.pub.Push(ctx, content, s.cfg.MinPushInterval, false)
	return err
}

// SetConnectivity records a feed connection transition.
func (s *Session) SetConnectivity(c models.Connectivity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = c
}

// Start resumes processing, anchors the fixed message in chatID and pushes the
// current report. An empty chatID reuses the current fixed message chat, then
// the configured default chat.
func (s *Session) Start(ctx context.Context, chatID string) error {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	chatID = s.resolveChat(chatID)
	if chatID == "" {
		s.mu.Unlock()
		return ErrNoChat
	}
	s.running = true
	metrics.SetSessionRunning(true)
	s.conn.LastError = ""
	content := s.render()
	size := s.buffer.Size()
	s.mu.Unlock()

	if err := s.pub.EnsureSink(ctx, chatID, content); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if _, err := s.pub.Push(ctx, content, 0, true); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	logging.Ctx(ctx).Info().Str("chat_id", chatID).Int("window", size).Msg("Session started")
	return nil
}

// Stop pauses processing and replaces the fixed message with the paused
// notice. When the fixed message did not change, the notice is sent to chatID
// as a separate message instead.
func (s *Session) Stop(ctx context.Context, chatID string) error {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.running = false
	metrics.SetSessionRunning(false)
	chatID = s.resolveChat(chatID)
	s.mu.Unlock()

	paused := s.renderer.Paused()
	pushed, err := s.pub.Push(ctx, paused, 0, true)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Could not show paused notice in fixed message")
	}

	logging.Ctx(ctx).Info().Msg("Session stopped")

	if pushed || chatID == "" {
		return nil
	}
	if err := s.pub.Send(ctx, chatID, paused); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	return nil
}

// Resize clamps n to the configured range, resizes the window and refreshes
// the fixed message. It returns the size applied.
func (s *Session) Resize(ctx context.Context, n int) (int, error) {
	s.mu.Lock()
	size := clamp(n, s.cfg.WindowMin, s.cfg.WindowMax)
	s.buffer.Resize(size)
	s.recordWindowState()
	s.mu.Unlock()

	logging.Ctx(ctx).Info().Int("requested", n).Int("size", size).Msg("Window resized")

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	ref, ok := s.pub.Location()
	content, running := s.renderState()
	if !ok || !running {
		return size, nil
	}
	if err := s.pub.EnsureSink(ctx, ref.ChatID, content); err != nil {
		return size, fmt.Errorf("resize: %w", err)
	}
	if _, err := s.pub.Push(ctx, content, 0, true); err != nil {
		return size, fmt.Errorf("resize: %w", err)
	}
	return size, nil
}

// Reset clears the window, the dedup ledger and the counters.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer.Reset()
	s.recordWindowState()
	logging.Ctx(ctx).Info().Msg("Session history reset")
}

// Running reports whether feed batches are being processed.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Limits returns the allowed window size range.
func (s *Session) Limits() (minSize, maxSize int) {
	return s.cfg.WindowMin, s.cfg.WindowMax
}

// Status returns a read-only view of the session.
func (s *Session) Status() models.StatusReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

// StatusText renders Status for chat replies.
func (s *Session) StatusText() string {
	return s.renderer.Status(s.Status())
}

// Reply sends an ephemeral message to chatID.
func (s *Session) Reply(ctx context.Context, chatID, text string) error {
	return s.pub.Send(ctx, chatID, text)
}

// Snapshot computes analytics over the current window.
func (s *Session) Snapshot() analytics.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return analytics.Compute(s.buffer.Snapshot(), s.buffer.Label())
}

func (s *Session) status() models.StatusReport {
	progress := s.buffer.Progress()
	counters := s.buffer.Counters()

	st := models.StatusReport{
		Running:       s.running,
		Feed:          s.conn,
		WindowSize:    s.buffer.Size(),
		WindowLength:  s.buffer.Len(),
		ProgressPct:   progress.Percent,
		LedgerSize:    s.buffer.LedgerLen(),
		TotalAccepted: counters.TotalAccepted,
	}
	if counters.HasLastValue {
		v := counters.LastValue
		st.LastValue = &v
	}
	if ref, ok := s.pub.Location(); ok {
		st.SinkChatID = ref.ChatID
		st.SinkMessageID = ref.MessageID
	}
	if last := s.pub.LastPush(); !last.IsZero() {
		st.LastPushAt = &last
	}
	return st
}

// renderState renders the current report and reports whether the session is
// running.
func (s *Session) renderState() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return "", false
	}
	return s.render(), true
}

func (s *Session) render() string {
	snap := analytics.Compute(s.buffer.Snapshot(), s.buffer.Label())
	return s.renderer.Report(report.Input{
		Snapshot:     snap,
		Progress:     s.buffer.Progress(),
		Connectivity: s.conn,
	})
}

func (s *Session) resolveChat(chatID string) string {
	if chatID != "" {
		return chatID
	}
	if ref, ok := s.pub.Location(); ok {
		return ref.ChatID
	}
	return s.cfg.DefaultChatID
}

func (s *Session) recordWindowState() {
	metrics.SetWindowState(s.buffer.Len(), s.buffer.Size(), s.buffer.LedgerLen())
}

func clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}
