// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

/*
Package api serves the admin HTTP API, an operator surface parallel to the
chat commands.

Routes:

	GET  /health              liveness and feed state (no auth)
	GET  /metrics             Prometheus exposition (no auth)
	GET  /api/v1/status       session status
	GET  /api/v1/snapshot     statistics for the current window
	POST /api/v1/start        {"chat_id": "..."} optional
	POST /api/v1/stop         {"chat_id": "..."} optional
	POST /api/v1/window       {"size": 40}
	POST /api/v1/reset

Every /api/v1 route requires "Authorization: Bearer <API_TOKEN>" and is rate
limited per client IP with go-chi/httprate. Responses use the APIResponse
envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "UNAUTHORIZED", "message": "..."}}
*/
package api
