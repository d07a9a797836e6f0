// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package telegram

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/tomtom215/spinwatch/internal/publisher"
)

func TestSink_CreateEditSend(t *testing.T) {
	api := newFakeBotAPI(t, func(method string, body map[string]any) (int, string) {
		switch method {
		case "sendMessage":
			return http.StatusOK, `{"ok":true,"result":{"message_id":9,"chat":{"id":100}}}`
		case "editMessageText":
			if body["message_id"] != float64(9) {
				return http.StatusBadRequest, `{"ok":false,"error_code":400,"description":"Bad Request: message to edit not found"}`
			}
			return http.StatusOK, `{"ok":true,"result":{"message_id":9,"chat":{"id":100}}}`
		}
		return http.StatusNotFound, `{"ok":false,"error_code":404,"description":"Not Found"}`
	})
	sink := NewSink(api.client())
	ctx := context.Background()

	id, err := sink.Create(ctx, "100", "report")
	if err != nil || id != "9" {
		t.Fatalf("Create = (%q, %v), want (\"9\", nil)", id, err)
	}
	if err := sink.Edit(ctx, publisher.Ref{ChatID: "100", MessageID: id}, "report v2"); err != nil {
		t.Errorf("Edit: %v", err)
	}
	if err := sink.Edit(ctx, publisher.Ref{ChatID: "100", MessageID: "10"}, "x"); !errors.Is(err, publisher.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := sink.Edit(ctx, publisher.Ref{ChatID: "100"}, "x"); !errors.Is(err, publisher.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing id, got %v", err)
	}
	if err := sink.Edit(ctx, publisher.Ref{ChatID: "100", MessageID: "abc"}, "x"); err == nil {
		t.Error("expected error for malformed id")
	}
	if err := sink.Send(ctx, "100", "hello"); err != nil {
		t.Errorf("Send: %v", err)
	}
}

func TestSink_WithPublisherRecovers(t *testing.T) {
	next := int64(0)
	deleted := map[float64]bool{1: true}
	api := newFakeBotAPI(t, func(method string, body map[string]any) (int, string) {
		switch method {
		case "sendMessage":
			next++
			return http.StatusOK, `{"ok":true,"result":{"message_id":` + strconv.FormatInt(next, 10) + `,"chat":{"id":100}}}`
		default:
			if deleted[body["message_id"].(float64)] {
				return http.StatusBadRequest, `{"ok":false,"error_code":400,"description":"Bad Request: message to edit not found"}`
			}
			return http.StatusOK, `{"ok":true,"result":true}`
		}
	})

	clock := time.Date(2026, 1, 12, 14, 0, 0, 0, time.UTC)
	p := publisher.New(NewSink(api.client()), publisher.WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	if err := p.EnsureSink(ctx, "100", "v0"); err != nil {
		t.Fatalf("EnsureSink: %v", err)
	}
	clock = clock.Add(time.Second)
	pushed, err := p.Push(ctx, "v1", 800*time.Millisecond, false)
	if err != nil || !pushed {
		t.Fatalf("expected recreate push, got (%v, %v)", pushed, err)
	}
	ref, _ := p.Location()
	if ref.MessageID != "2" {
		t.Errorf("expected new message id 2, got %q", ref.MessageID)
	}
}
