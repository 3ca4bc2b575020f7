// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package shopinfo owns the shop-info document: the single JSON record
// describing the cafe's name, location, weekly hours, background image and
// weekly note, plus the store that loads, mutates and persists it.
package shopinfo

import (
	"cmp"
	"encoding/json"
	"slices"
	"time"

	"go.astrophena.name/nooti/internal/hours"
)

// Info is the whole persisted shop-info document.
//
// Hours need not contain all seven days; a missing day is treated as closed
// when rendering. The document is created from [Default] on first access,
// mutated field-by-field and never deleted.
type Info struct {
	Name          string           `json:"name"`
	Address       string           `json:"address"`
	City          string           `json:"city"`
	Hours         []hours.DayHours `json:"hours"`
	BackgroundURL string           `json:"backgroundUrl"`
	WeeklyNote    string           `json:"weeklyNote,omitempty"`
	UpdatedAt     time.Time        `json:"updatedAt,omitzero"`
}

// Default returns the hard-coded default document.
func Default() *Info {
	return &Info{
		Name:    "Nooti Coffee",
		Address: "123 Groove St",
		City:    "Helsinki",
		Hours: hours.Expand([]hours.Range{
			{From: hours.Mon, To: hours.Fri, Open: "08:00", Close: "18:00"},
			{From: hours.Sat, To: hours.Sat, Open: "09:00", Close: "17:00"},
			{From: hours.Sun, To: hours.Sun, Open: "10:00", Close: "16:00"},
		}),
		BackgroundURL: "https://images.unsplash.com/photo-1504754524776-8f4f37790ca0?auto=format&fit=crop&w=1600&q=60",
	}
}

// rawInfo is the loosely typed on-disk shape. Hours is kept raw because two
// generations of the document exist: canonical per-day entries and the
// legacy grouped shape.
type rawInfo struct {
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	Hours         json.RawMessage `json:"hours"`
	BackgroundURL string          `json:"backgroundUrl"`
	WeeklyNote    string          `json:"weeklyNote"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Normalize decodes a document of unknown generation into the canonical
// shape. Top-level fields missing from the input default to the values of
// [Default]; an hours field that isn't an array at all is replaced by the
// default hours list. A structurally odd document never produces an error,
// only malformed JSON does.
func Normalize(b []byte) (*Info, error) {
	var raw rawInfo
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}

	def := Default()
	info := &Info{
		Name:          cmp.Or(raw.Name, def.Name),
		Address:       cmp.Or(raw.Address, def.Address),
		City:          cmp.Or(raw.City, def.City),
		Hours:         normalizeHours(raw.Hours, def.Hours),
		BackgroundURL: cmp.Or(raw.BackgroundURL, def.BackgroundURL),
		WeeklyNote:    raw.WeeklyNote,
		UpdatedAt:     raw.UpdatedAt,
	}
	return info, nil
}

func normalizeHours(raw json.RawMessage, def []hours.DayHours) []hours.DayHours {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// Not an array: treat as no hours data.
		return def
	}

	// A non-empty list whose first element carries a day attribute is already
	// canonical.
	if len(items) > 0 {
		var probe struct {
			Day string `json:"day"`
		}
		if err := json.Unmarshal(items[0], &probe); err == nil && probe.Day != "" {
			var hh []hours.DayHours
			if err := json.Unmarshal(raw, &hh); err == nil {
				return hh
			}
			return def
		}
	}

	var legacy []hours.LegacyGroup
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return def
	}
	return hours.ExpandLegacy(legacy)
}

// Clone returns a deep copy of the document.
func (i *Info) Clone() *Info {
	c := *i
	c.Hours = slices.Clone(i.Hours)
	return &c
}

// SetHours sets the schedule for every day from one day to another,
// replacing any existing entries for those days. Existing entries for other
// days are preserved in order.
func (i *Info) SetHours(from, to hours.Day, open, close string, closed bool) bool {
	days, ok := hours.Span(from, to)
	if !ok {
		return false
	}

	isSet := func(d hours.Day) bool {
		for _, sd := range days {
			if sd == d {
				return true
			}
		}
		return false
	}

	var next []hours.DayHours
	for _, h := range i.Hours {
		if !isSet(h.Day) {
			next = append(next, h)
		}
	}
	for _, d := range days {
		next = append(next, hours.DayHours{
			Day:    d,
			Open:   open,
			Close:  close,
			Closed: closed,
		})
	}
	i.Hours = next
	return true
}

// SetAddress updates the address and city, keeping the current value for
// either part that is empty.
func (i *Info) SetAddress(address, city string) {
	i.Address = cmp.Or(address, i.Address)
	i.City = cmp.Or(city, i.City)
}
