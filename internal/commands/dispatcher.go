// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

// Package commands maps chat commands onto session operations.
package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/spinwatch/internal/logging"
	"github.com/tomtom215/spinwatch/internal/metrics"
)

const source = "telegram"

// Reply texts.
const (
	textStarted     = "✅ Bot started. The report will update in the fixed message."
	textWindowUsage = "⚙️ Usage:\n\n/window 40\n\nTypical values: 20, 40, 60, 80, 100"
	textNotANumber  = "❌ That is not a number. Example: /window 80"
	textHelp        = "🧾 COMMANDS\n\n" +
		"/start - start the bot\n\n" +
		"/stop - pause the bot\n\n" +
		"/status - show status\n\n" +
		"/window N - set the window size (e.g. 40, 80, 100)\n\n" +
		"/reset - clear the collected history\n\n" +
		"/id - show your chat_id\n"
	textReset = "🧹 History cleared. The window is filling again."
)

// Controller is the session surface the dispatcher drives.
type Controller interface {
	Start(ctx context.Context, chatID string) error
	Stop(ctx context.Context, chatID string) error
	Resize(ctx context.Context, n int) (int, error)
	Reset(ctx context.Context)
	StatusText() string
	Reply(ctx context.Context, chatID, text string) error
}

// Request is one incoming chat message.
type Request struct {
	ChatID string
	UserID string
	Text   string
}

// Dispatcher routes requests from authorized chats to a Controller.
type Dispatcher struct {
	ctl    Controller
	admins map[string]struct{}
}

// NewDispatcher creates a dispatcher. Requests match admins by chat id or user
// id. An empty admin list authorizes everyone.
func NewDispatcher(ctl Controller, admins []string) *Dispatcher {
	set := make(map[string]struct{}, len(admins))
	for _, id := range admins {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return &Dispatcher{ctl: ctl, admins: set}
}

// Authorized reports whether req comes from an admin chat or user.
func (d *Dispatcher) Authorized(req Request) bool {
	if len(d.admins) == 0 {
		return true
	}
	if _, ok := d.admins[req.ChatID]; ok {
		return true
	}
	_, ok := d.admins[req.UserID]
	return ok && req.UserID != ""
}

// Handle executes one request. Non-command text is ignored, as is anything
// but /id from unauthorized callers.
func (d *Dispatcher) Handle(ctx context.Context, req Request) {
	name, args, ok := Parse(req.Text)
	if !ok {
		return
	}

	ctx = logging.ContextWithNewCorrelationID(ctx)
	log := logging.Ctx(ctx).With().Str("command", name).Str("chat_id", req.ChatID).Logger()

	if name != "id" && !d.Authorized(req) {
		metrics.CommandsRejected.WithLabelValues(source).Inc()
		log.Debug().Str("user_id", req.UserID).Msg("Ignoring command from unauthorized caller")
		return
	}

	start := time.Now()
	var err error
	switch name {
	case "start":
		err = d.start(ctx, req)
	case "stop":
		err = d.ctl.Stop(ctx, req.ChatID)
	case "status":
		err = d.ctl.Reply(ctx, req.ChatID, d.ctl.StatusText())
	case "window", "configurar_janela":
		name = "window"
		err = d.window(ctx, req, args)
	case "reset":
		d.ctl.Reset(ctx)
		err = d.ctl.Reply(ctx, req.ChatID, textReset)
	case "help":
		err = d.ctl.Reply(ctx, req.ChatID, textHelp)
	case "id":
		err = d.ctl.Reply(ctx, req.ChatID, "🆔 chat_id: "+req.ChatID)
	default:
		return
	}

	metrics.CommandsHandled.WithLabelValues(name, source).Inc()
	if err != nil {
		log.Error().Err(err).Msg("Command failed")
		return
	}
	log.Info().Dur("duration", time.Since(start)).Msg("Command handled")
}

func (d *Dispatcher) start(ctx context.Context, req Request) error {
	if err := d.ctl.Start(ctx, req.ChatID); err != nil {
		return err
	}
	return d.ctl.Reply(ctx, req.ChatID, textStarted)
}

func (d *Dispatcher) window(ctx context.Context, req Request, args []string) error {
	if len(args) == 0 {
		return d.ctl.Reply(ctx, req.ChatID, textWindowUsage)
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return d.ctl.Reply(ctx, req.ChatID, textNotANumber)
	}
	size, err := d.ctl.Resize(ctx, n)
	if err != nil {
		return err
	}
	return d.ctl.Reply(ctx, req.ChatID, fmt.Sprintf("✅ Window set to %d. Working with the last %d results.", size, size))
}

// Parse splits "/name@bot arg1 arg2" into a lower-case command name and its
// arguments. ok is false for text that is not a command.
func Parse(text string) (name string, args []string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	name = strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return "", nil, false
	}
	return strings.ToLower(name), fields[1:], true
}
