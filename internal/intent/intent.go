// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package intent maps free-text owner messages to a small closed set of
// structured intents.
//
// Two interchangeable classifiers exist: a deterministic pattern-matching
// [Parser] recognizing a fixed command grammar, and a delegated [OpenAI]
// classifier. Callers depend only on the output contract, not on which one
// is active.
package intent

import (
	"context"

	"go.astrophena.name/nooti/internal/hours"
)

// Type identifies an intent.
type Type string

// The closed set of intents.
const (
	// TypeSetHours sets the hours or closed status of one or more day ranges.
	TypeSetHours Type = "set_hours"
	// TypeSetAddress sets the address and city.
	TypeSetAddress Type = "set_address"
	// TypeSetName sets the display name.
	TypeSetName Type = "set_name"
	// TypeSetBackground sets the background image reference.
	TypeSetBackground Type = "set_bg"
	// TypeSetNote sets the free-text weekly note.
	TypeSetNote Type = "set_note"
	// TypePush triggers a push to the remote mirror.
	TypePush Type = "push"
	// TypeUnknown means no actionable intent was recognized.
	TypeUnknown Type = "unknown"
)

// Intent is the structured result of interpreting an owner message. Only the
// fields relevant to Type are set.
type Intent struct {
	Type    Type          `json:"type"`
	Hours   []HoursUpdate `json:"hours,omitempty"`
	Address string        `json:"address,omitempty"`
	City    string        `json:"city,omitempty"`
	Name    string        `json:"name,omitempty"`
	URL     string        `json:"url,omitempty"`
	Note    string        `json:"note,omitempty"`
}

// HoursUpdate is one day-range edit within a TypeSetHours intent.
type HoursUpdate struct {
	Days   string `json:"days"` // "Mon", "Mon–Fri" or "Mon-Fri"
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// Unknown is the intent returned when nothing was recognized.
var Unknown = Intent{Type: TypeUnknown}

// Classifier maps a free-text message, given the current hours as context,
// to exactly one intent.
type Classifier interface {
	Classify(ctx context.Context, text string, current []hours.DayHours) (Intent, error)
}
