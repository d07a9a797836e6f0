// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/spinwatch/internal/logging"
	"github.com/tomtom215/spinwatch/internal/metrics"
	"github.com/tomtom215/spinwatch/internal/publisher"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// MaxMessageLength is the Bot API limit for message text.
const MaxMessageLength = 4096

const breakerName = "telegram-api"

// Config holds Bot API client settings.
type Config struct {
	Token   string
	BaseURL string

	// RequestTimeout bounds every call except long polls.
	RequestTimeout time.Duration

	// RatePerSecond and Burst limit outbound message calls.
	RatePerSecond float64
	Burst         int

	BreakerTimeout time.Duration
}

// DefaultConfig returns conservative limits for a single chat.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		RequestTimeout: 15 * time.Second,
		RatePerSecond:  1,
		Burst:          3,
		BreakerTimeout: 30 * time.Second,
	}
}

// APIError is a non-ok Bot API answer.
type APIError struct {
	Method      string
	Code        int
	Description string
	RetryAfter  time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// Unwrap maps well-known descriptions onto publisher sentinel errors.
func (e *APIError) Unwrap() error {
	desc := strings.ToLower(e.Description)
	switch {
	case strings.Contains(desc, "message is not modified"):
		return publisher.ErrNotModified
	case strings.Contains(desc, "message to edit not found"),
		strings.Contains(desc, "message identifier is not specified"):
		return publisher.ErrNotFound
	default:
		return nil
	}
}

// Transient reports whether retrying later may succeed.
func (e *APIError) Transient() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

// Client calls the Telegram Bot API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	timeout time.Duration
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a Bot API client. Zero values fall back to DefaultConfig.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = def.RatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = def.BreakerTimeout
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return &Client{
		// No client-wide timeout: long polls set their own deadline.
		http:    &http.Client{},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		timeout: cfg.RequestTimeout,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		breaker: newBreaker(cfg.BreakerTimeout),
	}
}

func newBreaker(timeout time.Duration) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= 5
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// Answers about the request itself prove the API is reachable.
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.Transient()
			}
			return err == nil
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

type editMessageTextRequest struct {
	ChatID                string `json:"chat_id"`
	MessageID             int64  `json:"message_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

type getUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Timeout        int      `json:"timeout"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after,omitempty"`
	} `json:"parameters,omitempty"`
}

// Message is the subset of a Bot API message the bot reads.
type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text,omitempty"`
	Chat      struct {
		ID   int64  `json:"id"`
		Type string `json:"type,omitempty"`
	} `json:"chat"`
	From *struct {
		ID       int64  `json:"id"`
		Username string `json:"username,omitempty"`
	} `json:"from,omitempty"`
}

// Update is one getUpdates entry.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// SendMessage posts text to chatID and returns the new message id.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) (int64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("telegram sendMessage: %w", err)
	}
	var msg Message
	err := c.call(ctx, "sendMessage", c.timeout, sendMessageRequest{
		ChatID:                chatID,
		Text:                  truncate(text),
		DisableWebPagePreview: true,
	}, &msg)
	if err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// EditMessageText replaces the text of an existing message.
func (c *Client) EditMessageText(ctx context.Context, chatID string, messageID int64, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram editMessageText: %w", err)
	}
	return c.call(ctx, "editMessageText", c.timeout, editMessageTextRequest{
		ChatID:                chatID,
		MessageID:             messageID,
		Text:                  truncate(text),
		DisableWebPagePreview: true,
	}, nil)
}

// GetUpdates long-polls for new updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	var updates []Update
	err := c.call(ctx, "getUpdates", timeout+c.timeout, getUpdatesRequest{
		Offset:         offset,
		Timeout:        int(timeout.Seconds()),
		AllowedUpdates: []string{"message"},
	}, &updates)
	return updates, err
}

func (c *Client) call(ctx context.Context, method string, timeout time.Duration, payload, result any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, method, payload)
	})
	metrics.RecordSinkRequest("telegram", method, time.Since(start))

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		return fmt.Errorf("telegram %s: %w", method, err)
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("telegram %s: decode result: %w", method, err)
	}
	return nil
}

// do performs one request and returns the raw result field.
func (c *Client) do(ctx context.Context, method string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("telegram %s: marshal: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("telegram %s: create request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error would embed the token.
		return nil, fmt.Errorf("telegram %s: request failed: %w", method, redact(err, c.token))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("telegram %s: read response: %w", method, err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, &APIError{Method: method, Code: resp.StatusCode, Description: http.StatusText(resp.StatusCode)}
	}
	if !apiResp.OK {
		apiErr := &APIError{Method: method, Code: apiResp.ErrorCode, Description: apiResp.Description}
		if apiErr.Code == 0 {
			apiErr.Code = resp.StatusCode
		}
		if apiResp.Parameters != nil && apiResp.Parameters.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(apiResp.Parameters.RetryAfter) * time.Second
		}
		return nil, apiErr
	}
	return apiResp.Result, nil
}

// redact strips the bot token from transport errors.
func redact(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "<token>"))
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxMessageLength {
		return text
	}
	return string(runes[:MaxMessageLength-1]) + "…"
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
