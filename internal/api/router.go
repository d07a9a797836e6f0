// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/spinwatch/internal/analytics"
	"github.com/tomtom215/spinwatch/internal/models"
)

// Controller is the session surface driven by the admin API.
type Controller interface {
	Start(ctx context.Context, chatID string) error
	Stop(ctx context.Context, chatID string) error
	Resize(ctx context.Context, n int) (int, error)
	Reset(ctx context.Context)
	Limits() (minSize, maxSize int)
	Status() models.StatusReport
	Snapshot() analytics.Snapshot
}

// Config holds router settings.
type Config struct {
	Token           string
	RateLimitReqs   int
	RateLimitWindow time.Duration
	Version         string
}

// NewRouter builds the admin API handler tree.
func NewRouter(ctl Controller, cfg Config) http.Handler {
	h := &Handler{ctl: ctl, version: cfg.Version}

	r := chi.NewRouter()
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(APIMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusNotFound, ErrCodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(cfg.RateLimitReqs, cfg.RateLimitWindow))
		r.Use(APISecurityHeaders())
		r.Use(RequireToken(cfg.Token))

		r.Get("/status", h.Status)
		r.Get("/snapshot", h.Snapshot)
		r.Post("/start", h.Start)
		r.Post("/stop", h.Stop)
		r.Post("/window", h.Window)
		r.Post("/reset", h.Reset)
	})

	return r
}
