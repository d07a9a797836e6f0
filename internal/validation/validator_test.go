// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package validation

import (
	"strings"
	"testing"
)

type windowRequest struct {
	Size int `json:"size" validate:"required,gte=1,lte=500"`
}

type startRequest struct {
	ChatID string `json:"chat_id,omitempty" validate:"omitempty,max=8"`
	Mode   string `validate:"omitempty,oneof=fixed ephemeral"`
	Hidden int    `json:"-" validate:"min=0"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     any
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{name: "valid window", input: &windowRequest{Size: 40}},
		{name: "valid start", input: &startRequest{ChatID: "-100", Mode: "fixed"}},
		{name: "missing size", input: &windowRequest{}, wantField: "size", wantTag: "required", wantMsg: "size is required"},
		{name: "size too large", input: &windowRequest{Size: 501}, wantField: "size", wantTag: "lte", wantMsg: "size must be less than or equal to 500"},
		{name: "negative size", input: &windowRequest{Size: -3}, wantField: "size", wantTag: "gte", wantMsg: "size must be greater than or equal to 1"},
		{name: "long chat id", input: &startRequest{ChatID: "123456789"}, wantField: "chat_id", wantTag: "max", wantMsg: "chat_id must be at most 8 characters"},
		{name: "unknown mode", input: &startRequest{Mode: "loud"}, wantField: "Mode", wantTag: "oneof", wantMsg: "Mode must be one of: fixed ephemeral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("unexpected validation error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			fields := verr.Fields()
			if len(fields) != 1 {
				t.Fatalf("expected 1 field error, got %d: %v", len(fields), fields)
			}
			if fields[0].Field != tt.wantField || fields[0].Tag != tt.wantTag {
				t.Errorf("got field=%s tag=%s, want field=%s tag=%s", fields[0].Field, fields[0].Tag, tt.wantField, tt.wantTag)
			}
			if verr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&startRequest{ChatID: "123456789", Mode: "loud"})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Fields()) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(verr.Fields()))
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("expected joined messages, got %q", verr.Error())
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(42)
	if verr == nil {
		t.Fatal("expected error for non-struct input")
	}
	if verr.Fields()[0].Field != "unknown" {
		t.Errorf("expected unknown field, got %q", verr.Fields()[0].Field)
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	t.Parallel()

	if got := (&RequestValidationError{}).Error(); got != "validation failed" {
		t.Errorf("Error() = %q", got)
	}
}
