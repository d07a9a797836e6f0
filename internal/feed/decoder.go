// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package feed

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spinwatch/internal/models"
)

// Time layouts accepted in the "time" field, in the order they are tried.
const (
	// CanonicalTimeLayout is interpreted in the configured location.
	CanonicalTimeLayout = "2006-01-02 15:04:05"

	// VerboseTimeLayout is the provider's native form, interpreted as UTC.
	VerboseTimeLayout = "Jan 2, 2006 3:04:05 PM"
)

// Decoder errors. Each one drops a single record.
var (
	ErrNotObject    = errors.New("result item is not an object")
	ErrMissingID    = errors.New("result item has no gameId")
	ErrMissingValue = errors.New("result item has no result or number")
	ErrInvalidValue = errors.New("result value is not an integer")
)

// Decoder normalizes raw result items into outcomes.
type Decoder struct {
	loc *time.Location
}

// NewDecoder creates a decoder that reports times in loc. A nil loc means UTC.
func NewDecoder(loc *time.Location) *Decoder {
	if loc == nil {
		loc = time.UTC
	}
	return &Decoder{loc: loc}
}

// Location returns the time zone outcomes are reported in.
func (d *Decoder) Location() *time.Location {
	return d.loc
}

// Decode converts one result item.
func (d *Decoder) Decode(item map[string]any) (models.Outcome, error) {
	id := strings.TrimSpace(scalarString(item["gameId"]))
	if id == "" {
		return models.Outcome{}, ErrMissingID
	}

	raw, ok := item["result"]
	if !ok || raw == nil {
		raw, ok = item["number"]
	}
	if !ok || raw == nil {
		return models.Outcome{}, ErrMissingValue
	}
	value, err := parseValue(raw)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("game %s: %w", id, err)
	}

	o := models.Outcome{ID: id, Value: value}
	if rawTime := strings.TrimSpace(scalarString(item["time"])); rawTime != "" {
		if t, ok := d.parseTime(rawTime); ok {
			o.OccurredAt = t
		} else {
			o.RawTime = rawTime
		}
	}
	return o, nil
}

// DecodeBatch decodes every item it can and reports how many were rejected.
func (d *Decoder) DecodeBatch(items []any) ([]models.Outcome, int) {
	batch := make([]models.Outcome, 0, len(items))
	rejected := 0
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			rejected++
			continue
		}
		o, err := d.Decode(item)
		if err != nil {
			rejected++
			continue
		}
		batch = append(batch, o)
	}
	return batch, rejected
}

func (d *Decoder) parseTime(s string) (time.Time, bool) {
	if t, err := time.ParseInLocation(CanonicalTimeLayout, s, d.loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(VerboseTimeLayout, s); err == nil {
		return t.In(d.loc), true
	}
	return time.Time{}, false
}

// maxRawValue bounds numeric results before conversion to int. Anything
// beyond it is garbage, not a wheel value.
const maxRawValue = 1_000_000_000

func parseValue(raw any) (int, error) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) || math.Abs(v) > maxRawValue {
			return 0, ErrInvalidValue
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil || n > maxRawValue || n < -maxRawValue {
			return 0, ErrInvalidValue
		}
		return int(n), nil
	case int:
		return v, nil
	case int64:
		if v > maxRawValue || v < -maxRawValue {
			return 0, ErrInvalidValue
		}
		return int(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, ErrMissingValue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n > maxRawValue || n < -maxRawValue {
			return 0, ErrInvalidValue
		}
		return n, nil
	default:
		return 0, ErrInvalidValue
	}
}

// scalarString renders ids and times that may arrive as strings or numbers.
func scalarString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
