// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/spinwatch/internal/models"
	"github.com/tomtom215/spinwatch/internal/publisher"
	"github.com/tomtom215/spinwatch/internal/report"
)

// recordingSink keeps message texts and counts calls.
type recordingSink struct {
	mu       sync.Mutex
	next     int
	messages map[publisher.Ref]string
	edits    int
	sent     []string
	editErr  error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{messages: make(map[publisher.Ref]string)}
}

func (r *recordingSink) Create(_ context.Context, chatID, text string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := strconv.Itoa(r.next)
	r.messages[publisher.Ref{ChatID: chatID, MessageID: id}] = text
	return id, nil
}

func (r *recordingSink) Edit(_ context.Context, ref publisher.Ref, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.editErr != nil {
		return r.editErr
	}
	if r.messages[ref] == text {
		return publisher.ErrNotModified
	}
	r.messages[ref] = text
	r.edits++
	return nil
}

func (r *recordingSink) Send(_ context.Context, _ string, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, text)
	return nil
}

func (r *recordingSink) text(ref publisher.Ref) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.messages[ref]
}

func (r *recordingSink) editCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.edits
}

// blockingSink holds edits until release is closed once armed.
type blockingSink struct {
	*recordingSink
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingSink() *blockingSink {
	return &blockingSink{
		recordingSink: newRecordingSink(),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
}

func (b *blockingSink) Edit(ctx context.Context, ref publisher.Ref, text string) error {
	if b.armed.Load() {
		b.once.Do(func() { close(b.entered) })
		select {
		case <-b.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return b.recordingSink.Edit(ctx, ref, text)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestSession(t *testing.T, cfg Config) (*Session, *recordingSink, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)}
	sink := newRecordingSink()
	pub := publisher.New(sink, publisher.WithClock(clock.Now))
	renderer := report.NewRenderer(report.DefaultOptions(), clock.Now)
	return New(cfg, pub, renderer), sink, clock
}

func outcomes(start int, values ...int) []models.Outcome {
	base := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	batch := make([]models.Outcome, len(values))
	for i, v := range values {
		n := start + i
		batch[i] = models.Outcome{
			ID:         fmt.Sprintf("spin-%03d", n),
			Value:      v,
			OccurredAt: base.Add(time.Duration(n) * time.Minute),
		}
	}
	return batch
}

func TestNew_ClampsConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      Config
		wantSize int
	}{
		{"defaults", Config{}, 40},
		{"above max", Config{WindowSize: 500, WindowMin: 5, WindowMax: 100}, 100},
		{"below min", Config{WindowSize: 2, WindowMin: 5, WindowMax: 100}, 5},
		{"in range", Config{WindowSize: 12, WindowMin: 5, WindowMax: 100}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, _, _ := newTestSession(t, tt.cfg)
			if got := s.Status().WindowSize; got != tt.wantSize {
				t.Errorf("window size = %d, want %d", got, tt.wantSize)
			}
		})
	}
}

func TestNew_LedgerCoversWindowMax(t *testing.T) {
	cfg := Config{WindowSize: 40, WindowMin: 5, WindowMax: 200, LedgerCap: 10, MinPushInterval: 0}
	s, _, _ := newTestSession(t, cfg)
	ctx := context.Background()

	if err := s.Start(ctx, "100"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	values := make([]int, 40)
	for i := range values {
		values[i] = i % 37
	}
	for range 2 {
		if err := s.HandleBatch(ctx, outcomes(1, values...)); err != nil {
			t.Fatalf("HandleBatch: %v", err)
		}
	}

	st := s.Status()
	if st.TotalAccepted != 40 || st.WindowLength != 40 {
		t.Errorf("ids in the window were accepted twice: %+v", st)
	}
	if st.LedgerSize != 40 {
		t.Errorf("ledger size = %d, want 40", st.LedgerSize)
	}
}

func TestHandleBatch_IgnoredWhileStopped(t *testing.T) {
	s, sink, _ := newTestSession(t, DefaultConfig())

	if err := s.HandleBatch(context.Background(), outcomes(1, 5, 6, 7)); err != nil {
		t.Fatalf("HandleBatch: %v", err)
	}
	st := s.Status()
	if st.WindowLength != 0 || st.TotalAccepted != 0 {
		t.Errorf("expected nothing accepted while stopped, got %+v", st)
	}
	if sink.editCount() != 0 {
		t.Error("expected no sink activity while stopped")
	}
}

func TestStart_NoChat(t *testing.T) {
	s, _, _ := newTestSession(t, DefaultConfig())

	if err := s.Start(context.Background(), ""); !errors.Is(err, ErrNoChat) {
		t.Errorf("expected ErrNoChat, got %v", err)
	}
	if s.Running() {
		t.Error("session must stay stopped without a chat")
	}
}

func TestStart_UsesDefaultChat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultChatID = "-1001"
	s, _, _ := newTestSession(t, cfg)

	if err := s.Start(context.Background(), ""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if st := s.Status(); st.SinkChatID != "-1001" || st.SinkMessageID == "" {
		t.Errorf("expected fixed message in default chat, got %+v", st)
	}
}

func TestSession_BatchFlow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowSize = 5
	s, sink, clock := newTestSession(t, cfg)
	ctx := context.Background()

	if err := s.Start(ctx, "100"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ref := publisher.Ref{ChatID: "100", MessageID: "1"}
	if !strings.Contains(sink.text(ref), "PRE-REPORT") {
		t.Fatalf("expected placeholder report, got %q", sink.text(ref))
	}

	clock.Advance(time.Second)
	if err := s.HandleBatch(ctx, outcomes(1, 0, 14, 23, 7, 36)); err != nil {
		t.Fatalf("HandleBatch: %v", err)
	}
	text := sink.text(ref)
	if !strings.Contains(text, "REPORT: last 5") {
		t.Errorf("expected full report after filling the window, got %q", text)
	}
	if !strings.Contains(text, "Zero: 1") || !strings.Contains(text, "Even: 2") {
		t.Errorf("expected counts in report, got %q", text)
	}

	edits := sink.editCount()
	clock.Advance(time.Second)
	if err := s.HandleBatch(ctx, outcomes(1, 0, 14, 23, 7, 36)); err != nil {
		t.Fatalf("HandleBatch redelivery: %v", err)
	}
	if sink.editCount() != edits {
		t.Error("redelivered batch must not push")
	}

	st := s.Status()
	if st.TotalAccepted != 5 || st.WindowLength != 5 || st.LastValue == nil || *st.LastValue != 36 {
		t.Errorf("unexpected status %+v", st)
	}
	if st.LastPushAt == nil {
		t.Error("expected last push time")
	}
}

func TestHandleBatch_Throttled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinPushInterval = time.Hour
	s, sink, clock := newTestSession(t, cfg)
	ctx := context.Background()

	if err := s.Start(ctx, "100"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clock.Advance(time.Minute)
	if err := s.HandleBatch(ctx, outcomes(1, 3)); err != nil {
		t.Fatalf("HandleBatch: %v", err)
	}
	if sink.editCount() != 0 {
		t.Errorf("expected push to be throttled, got %d edits", sink.editCount())
	}
	if s.Status().WindowLength != 1 {
		t.Error("throttling must not drop accepted outcomes")
	}
}

func TestHandleBatch_SinkError(t *testing.T) {
	s, sink, clock := newTestSession(t, DefaultConfig())
	ctx := context.Background()

	if err := s.Start(ctx, "100"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	sink.editErr = errors.New("connection reset")
	clock.Advance(time.Second)

	if err := s.HandleBatch(ctx, outcomes(1, 9)); err == nil {
		t.Error("expected transport error to propagate")
	}
	if s.Status().WindowLength != 1 {
		t.Error("outcome must stay accepted after a failed push")
	}
}

func TestStop(t *testing.T) {
	s, sink, _ := newTestSession(t, DefaultConfig())
	ctx := context.Background()

	if err := s.Start(ctx, "100"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(ctx, "100"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.Running() {
		t.Error("expected session to be stopped")
	}
	if text := sink.text(publisher.Ref{ChatID: "100", MessageID: "1"}); !strings.Contains(text, "Bot paused") {
		t.Errorf("expected paused notice in fixed message, got %q", text)
	}
	if len(sink.sent) != 0 {
		t.Errorf("expected no ephemeral message, got %v", sink.sent)
	}

	// Already paused: the edit is a no-op, so the notice goes out separately.
	if err := s.Stop(ctx, "100"); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if len(sink.sent) != 1 || !strings.Contains(sink.sent[0], "Bot paused") {
		t.Errorf("expected ephemeral paused notice, got %v", sink.sent)
	}
}

func TestStop_WithoutFixedMessage(t *testing.T) {
	s, sink, _ := newTestSession(t, DefaultConfig())

	if err := s.Stop(context.Background(), "100"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(sink.sent) != 1 {
		t.Errorf("expected paused notice sent to the caller, got %v", sink.sent)
	}
}

func TestResize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowSize = 40
	s, sink, clock := newTestSession(t, cfg)
	ctx := context.Background()

	if err := s.Start(ctx, "100"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	values := make([]int, 40)
	for i := range values {
		values[i] = i % 37
	}
	clock.Advance(time.Second)
	if err := s.HandleBatch(ctx, outcomes(1, values...)); err != nil {
		t.Fatalf("HandleBatch: %v", err)
	}

	tests := []struct {
		requested int
		want      int
	}{
		{10, 10},
		{1, 5},
		{1000, 200},
	}
	for _, tt := range tests {
		edits := sink.editCount()
		got, err := s.Resize(ctx, tt.requested)
		if err != nil {
			t.Fatalf("Resize(%d): %v", tt.requested, err)
		}
		if got != tt.want {
			t.Errorf("Resize(%d) = %d, want %d", tt.requested, got, tt.want)
		}
		st := s.Status()
		if st.WindowSize != tt.want || st.WindowLength > st.WindowSize {
			t.Errorf("after Resize(%d): %+v", tt.requested, st)
		}
		if sink.editCount() <= edits {
			t.Errorf("Resize(%d) should refresh the fixed message", tt.requested)
		}
	}

	// The ledger still remembers ids evicted by shrinking.
	clock.Advance(time.Second)
	if err := s.HandleBatch(ctx, outcomes(1, values...)); err != nil {
		t.Fatalf("HandleBatch: %v", err)
	}
	if st := s.Status(); st.TotalAccepted != 40 {
		t.Errorf("expected no re-acceptance after resize, total %d", st.TotalAccepted)
	}
}

func TestReset(t *testing.T) {
	s, _, _ := newTestSession(t, DefaultConfig())
	ctx := context.Background()

	if err := s.Start(ctx, "100"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.HandleBatch(ctx, outcomes(1, 1, 2, 3)); err != nil {
		t.Fatalf("HandleBatch: %v", err)
	}
	s.Reset(ctx)

	st := s.Status()
	if st.WindowLength != 0 || st.LedgerSize != 0 || st.TotalAccepted != 0 || st.LastValue != nil {
		t.Errorf("expected cleared state, got %+v", st)
	}
	if !st.Running {
		t.Error("reset must not stop the session")
	}

	if err := s.HandleBatch(ctx, outcomes(1, 1, 2, 3)); err != nil {
		t.Fatalf("HandleBatch: %v", err)
	}
	if s.Status().TotalAccepted != 3 {
		t.Error("expected ids to be accepted again after reset")
	}
}

func TestConnectivity(t *testing.T) {
	s, sink, clock := newTestSession(t, DefaultConfig())
	ctx := context.Background()

	if err := s.Start(ctx, "100"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.SetConnectivity(models.Connectivity{State: models.StateDisconnected, LastError: "dial: refused"})

	if st := s.Status(); st.Feed.LastError != "dial: refused" || st.Feed.Connected() {
		t.Errorf("unexpected feed status %+v", st.Feed)
	}
	clock.Advance(time.Second)
	if err := s.HandleBatch(ctx, outcomes(1, 4)); err != nil {
		t.Fatalf("HandleBatch: %v", err)
	}
	if text := sink.text(publisher.Ref{ChatID: "100", MessageID: "1"}); !strings.Contains(text, "Feed offline: dial: refused") {
		t.Errorf("expected offline notice, got %q", text)
	}

	if !strings.Contains(s.StatusText(), "Last error: dial: refused") {
		t.Errorf("expected last error in status text: %q", s.StatusText())
	}

	// Starting again clears the error.
	if err := s.Start(ctx, "100"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Status().Feed.LastError != "" {
		t.Error("expected start to clear the last error")
	}
}

func TestSession_ConcurrentAccess(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinPushInterval = 0
	s, _, _ := newTestSession(t, cfg)
	ctx := context.Background()

	if err := s.Start(ctx, "100"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := range 50 {
			_ = s.HandleBatch(ctx, outcomes(i*2, i%37, (i+1)%37))
		}
	}()
	go func() {
		defer wg.Done()
		for i := range 50 {
			_, _ = s.Resize(ctx, 5+i%20)
		}
	}()
	go func() {
		defer wg.Done()
		for range 50 {
			st := s.Status()
			if st.WindowLength > st.WindowSize {
				t.Errorf("window bound violated: %+v", st)
			}
		}
	}()
	wg.Wait()
}

func TestSession_SlowPushDoesNotBlockState(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)}
	sink := newBlockingSink()
	pub := publisher.New(sink, publisher.WithClock(clock.Now))
	cfg := DefaultConfig()
	cfg.MinPushInterval = 0
	s := New(cfg, pub, report.NewRenderer(report.DefaultOptions(), clock.Now))
	ctx := context.Background()

	if err := s.Start(ctx, "100"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	sink.armed.Store(true)

	batchDone := make(chan error, 1)
	go func() { batchDone <- s.HandleBatch(ctx, outcomes(1, 7, 8, 9)) }()

	select {
	case <-sink.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("edit never reached the sink")
	}

	stateDone := make(chan struct{})
	go func() {
		defer close(stateDone)
		s.SetConnectivity(models.Connectivity{State: models.StateConnected})
		if st := s.Status(); st.TotalAccepted != 3 {
			t.Errorf("expected 3 accepted during the push, got %d", st.TotalAccepted)
		}
		_ = s.Snapshot()
		s.Reset(ctx)
	}()
	select {
	case <-stateDone:
	case <-time.After(time.Second):
		t.Fatal("state operations waited on an in-flight edit")
	}

	resizeDone := make(chan struct{})
	go func() {
		defer close(resizeDone)
		_, _ = s.Resize(ctx, 10)
	}()
	deadline := time.Now().Add(time.Second)
	for s.Status().WindowSize != 10 {
		if time.Now().After(deadline) {
			t.Fatal("resize was not applied while an edit was in flight")
		}
		time.Sleep(5 * time.Millisecond)
	}

	close(sink.release)
	if err := <-batchDone; err != nil {
		t.Fatalf("HandleBatch: %v", err)
	}
	<-resizeDone

	if st := s.Status(); st.WindowLength != 0 || st.WindowSize != 10 {
		t.Errorf("unexpected state after release: %+v", st)
	}
}
