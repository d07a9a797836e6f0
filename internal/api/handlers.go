// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spinwatch/internal/logging"
	"github.com/tomtom215/spinwatch/internal/metrics"
	"github.com/tomtom215/spinwatch/internal/session"
	"github.com/tomtom215/spinwatch/internal/validation"
)

const maxBodyBytes = 4 << 10

// StartRequest is the optional body of /start and /stop.
type StartRequest struct {
	ChatID string `json:"chat_id,omitempty" validate:"omitempty,max=64"`
}

// WindowRequest is the body of /window. The upper bound here only rejects
// nonsense; the session clamps to its configured range.
type WindowRequest struct {
	Size int `json:"size" validate:"required,gte=1,lte=100000"`
}

// WindowResponse reports the size actually applied.
type WindowResponse struct {
	Requested int `json:"requested"`
	Applied   int `json:"applied"`
	Min       int `json:"min"`
	Max       int `json:"max"`
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Running   bool   `json:"running"`
	Feed      string `json:"feed"`
	LastError string `json:"last_error,omitempty"`
}

// Handler holds the admin endpoint implementations.
type Handler struct {
	ctl     Controller
	version string
}

// Health reports liveness. It never fails while the process serves HTTP.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.ctl.Status()
	NewResponseWriter(w, r).Success(HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Running:   st.Running,
		Feed:      string(st.Feed.State),
		LastError: st.Feed.LastError,
	})
}

// Status returns the session status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.ctl.Status())
}

// Snapshot returns the statistics of the current window.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.ctl.Snapshot())
}

// Start resumes processing and anchors the fixed message.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req StartRequest
	if !decodeAndValidate(w, r, rw, &req, true) {
		return
	}
	if err := h.ctl.Start(r.Context(), req.ChatID); err != nil {
		h.sessionError(rw, err)
		return
	}
	h.handled(r, "start")
	rw.Success(h.ctl.Status())
}

// Stop pauses processing.
func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req StartRequest
	if !decodeAndValidate(w, r, rw, &req, true) {
		return
	}
	if err := h.ctl.Stop(r.Context(), req.ChatID); err != nil {
		h.sessionError(rw, err)
		return
	}
	h.handled(r, "stop")
	rw.Success(h.ctl.Status())
}

// Window resizes the analysis window.
func (h *Handler) Window(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req WindowRequest
	if !decodeAndValidate(w, r, rw, &req, false) {
		return
	}
	applied, err := h.ctl.Resize(r.Context(), req.Size)
	if err != nil {
		h.sessionError(rw, err)
		return
	}
	h.handled(r, "window")

	minSize, maxSize := h.ctl.Limits()
	rw.Success(WindowResponse{
		Requested: req.Size,
		Applied:   applied,
		Min:       minSize,
		Max:       maxSize,
	})
}

// Reset clears the window and the ledger.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.ctl.Reset(r.Context())
	h.handled(r, "reset")
	NewResponseWriter(w, r).Success(h.ctl.Status())
}

func (h *Handler) handled(r *http.Request, command string) {
	metrics.CommandsHandled.WithLabelValues(command, "api").Inc()
	logging.Ctx(r.Context()).Info().Str("command", command).Msg("Admin command handled")
}

func (h *Handler) sessionError(rw *ResponseWriter, err error) {
	if errors.Is(err, session.ErrNoChat) {
		rw.Conflict("No chat configured: pass chat_id or set REPORT_CHAT_ID")
		return
	}
	rw.ExternalServiceError("sink", err)
}

// decodeAndValidate decodes a JSON body into dst and validates it. An empty
// body is accepted when optional is set.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, rw *ResponseWriter, dst any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if !errors.Is(err, io.EOF) || !optional {
			rw.BadRequest("Invalid JSON body")
			return false
		}
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		rw.ValidationError(verr.Error(), verr.Fields())
		return false
	}
	return true
}
