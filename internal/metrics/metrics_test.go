// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// histogramCount reads the sample count of one histogram series.
func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	var m dto.Metric
	if err := o.(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordConnectAttempt(t *testing.T) {
	successBefore := testutil.ToFloat64(FeedConnectAttempts.WithLabelValues("success"))
	failureBefore := testutil.ToFloat64(FeedConnectAttempts.WithLabelValues("failure"))

	RecordConnectAttempt(nil)
	RecordConnectAttempt(errors.New("dial tcp: connection refused"))
	RecordConnectAttempt(errors.New("handshake timeout"))

	if got := testutil.ToFloat64(FeedConnectAttempts.WithLabelValues("success")) - successBefore; got != 1 {
		t.Errorf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(FeedConnectAttempts.WithLabelValues("failure")) - failureBefore; got != 2 {
		t.Errorf("expected 2 failures, got %v", got)
	}
}

func TestSetFeedConnected(t *testing.T) {
	SetFeedConnected(true)
	if got := testutil.ToFloat64(FeedConnected); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
	SetFeedConnected(false)
	if got := testutil.ToFloat64(FeedConnected); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestRecordAccept(t *testing.T) {
	tests := []struct {
		name          string
		batch         int
		accepted      int
		wantAccepted  float64
		wantDuplicate float64
	}{
		{"all new", 5, 5, 5, 0},
		{"all duplicates", 20, 0, 0, 20},
		{"mixed", 20, 1, 1, 19},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accBefore := testutil.ToFloat64(WindowAccepted)
			dupBefore := testutil.ToFloat64(WindowDuplicates)

			RecordAccept(tt.batch, tt.accepted)

			if got := testutil.ToFloat64(WindowAccepted) - accBefore; got != tt.wantAccepted {
				t.Errorf("accepted delta = %v, want %v", got, tt.wantAccepted)
			}
			if got := testutil.ToFloat64(WindowDuplicates) - dupBefore; got != tt.wantDuplicate {
				t.Errorf("duplicate delta = %v, want %v", got, tt.wantDuplicate)
			}
		})
	}
}

func TestSetWindowState(t *testing.T) {
	SetWindowState(12, 40, 300)

	if got := testutil.ToFloat64(WindowLength); got != 12 {
		t.Errorf("window length = %v, want 12", got)
	}
	if got := testutil.ToFloat64(WindowSize); got != 40 {
		t.Errorf("window size = %v, want 40", got)
	}
	if got := testutil.ToFloat64(LedgerSize); got != 300 {
		t.Errorf("ledger size = %v, want 300", got)
	}
}

func TestRecordPublish(t *testing.T) {
	before := testutil.ToFloat64(PublishAttempts.WithLabelValues("throttled"))
	RecordPublish("throttled")
	if got := testutil.ToFloat64(PublishAttempts.WithLabelValues("throttled")) - before; got != 1 {
		t.Errorf("expected throttled delta 1, got %v", got)
	}
}

func TestRecordBatchAndRequests(t *testing.T) {
	before := testutil.ToFloat64(FeedBatches)
	RecordBatch(15 * time.Millisecond)
	if got := testutil.ToFloat64(FeedBatches) - before; got != 1 {
		t.Errorf("expected batch delta 1, got %v", got)
	}

	RecordSinkRequest("telegram", "edit", 120*time.Millisecond)
	RecordAPIRequest("GET", "/api/v1/status", "200", 3*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/status", "200")); got < 1 {
		t.Errorf("expected api request recorded, got %v", got)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("test")
	if got := testutil.CollectAndCount(AppInfo); got < 1 {
		t.Errorf("expected app info series, got %d", got)
	}
}

func TestLatencyHistograms(t *testing.T) {
	sinkBefore := histogramCount(t, SinkRequestDuration.WithLabelValues("log", "create"))
	apiBefore := histogramCount(t, APIRequestDuration.WithLabelValues("POST", "/api/v1/window"))

	RecordSinkRequest("log", "create", time.Millisecond)
	RecordSinkRequest("log", "create", 2*time.Millisecond)
	RecordAPIRequest("POST", "/api/v1/window", "400", time.Millisecond)

	if got := histogramCount(t, SinkRequestDuration.WithLabelValues("log", "create")) - sinkBefore; got != 2 {
		t.Errorf("sink samples delta = %d, want 2", got)
	}
	if got := histogramCount(t, APIRequestDuration.WithLabelValues("POST", "/api/v1/window")) - apiBefore; got != 1 {
		t.Errorf("api samples delta = %d, want 1", got)
	}
}
