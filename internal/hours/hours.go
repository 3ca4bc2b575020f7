// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package hours models a coffee shop's weekly opening hours.
//
// The week is flat: one optional entry per day, no dates, no timezones.
// Days follow a fixed Monday-first order that all grouping and display
// logic iterates in. The package migrates the older grouped representation
// ("Mon–Fri"/"Sat"/"Sun") into per-day entries and compresses per-day
// entries back into maximal runs of consecutive days sharing an identical
// schedule for display.
package hours

import "strings"

// Day is one of the seven fixed day labels.
type Day string

// The seven days, in canonical order.
const (
	Mon Day = "Mon"
	Tue Day = "Tue"
	Wed Day = "Wed"
	Thu Day = "Thu"
	Fri Day = "Fri"
	Sat Day = "Sat"
	Sun Day = "Sun"
)

// Week is the canonical Monday-first ordering of the week. All grouping
// depends on iterating days in this exact sequence.
var Week = [7]Day{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

func dayIndex(d Day) int {
	for i, wd := range Week {
		if wd == d {
			return i
		}
	}
	return -1
}

// DayHours is the canonical per-day opening hours record.
//
// If Closed is true, Open and Close are not meaningful. Otherwise both hold
// a wall-clock time in 24-hour "HH:MM" form. Times are not validated; an
// inverted open/close pair passes through unchecked.
type DayHours struct {
	Day    Day    `json:"day"`
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

func (h DayHours) scheduleKey() string {
	if h.Closed {
		return "closed"
	}
	return h.Open + "–" + h.Close
}

// LegacyGroup is an entry of the older grouped on-disk shape, using labels
// like "Mon–Fri" instead of per-day entries. It exists only as an input
// format to be migrated away from and is never written going forward.
type LegacyGroup struct {
	Days   string `json:"days"`
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// ExpandLegacy expands grouped entries into per-day entries, preserving
// expansion order. An unrecognized group label expands to itself as a single
// day label rather than being dropped.
//
// Duplicate days from overlapping groups are not filtered here; consumers
// resolve them last-wins (see Group) or pre-filter by day.
func ExpandLegacy(groups []LegacyGroup) []DayHours {
	var hh []DayHours
	for _, g := range groups {
		for _, d := range expandLabel(g.Days) {
			hh = append(hh, DayHours{
				Day:    d,
				Open:   g.Open,
				Close:  g.Close,
				Closed: g.Closed,
			})
		}
	}
	return hh
}

func expandLabel(label string) []Day {
	if from, to, ok := ParseDays(label); ok {
		if days, ok := Span(from, to); ok {
			return days
		}
	}
	return []Day{Day(label)}
}

// ParseDays parses a day or day-range label: "Mon", "Mon–Fri" or "Mon-Fri"
// (both dash styles are accepted). For a single day, from == to.
func ParseDays(s string) (from, to Day, ok bool) {
	s = strings.TrimSpace(s)
	var parts []string
	switch {
	case strings.Contains(s, "–"):
		parts = strings.SplitN(s, "–", 2)
	case strings.Contains(s, "-"):
		parts = strings.SplitN(s, "-", 2)
	default:
		parts = []string{s, s}
	}
	from = Day(strings.TrimSpace(parts[0]))
	to = Day(strings.TrimSpace(parts[1]))
	if dayIndex(from) == -1 || dayIndex(to) == -1 {
		return "", "", false
	}
	return from, to, true
}

// Span returns the consecutive canonical days from one day to another,
// inclusive. It reports false if either day is unknown or the range is
// inverted.
func Span(from, to Day) ([]Day, bool) {
	i, j := dayIndex(from), dayIndex(to)
	if i == -1 || j == -1 || i > j {
		return nil, false
	}
	return Week[i : j+1], true
}

// Range is a maximal run of consecutive days (in canonical order) sharing an
// identical schedule. It is derived for display and never persisted.
type Range struct {
	From   Day    `json:"from"`
	To     Day    `json:"to"`
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// Days returns the display label of the range: the day name alone for a
// single-day range, "<from>–<to>" otherwise.
func (r Range) Days() string {
	if r.From == r.To {
		return string(r.From)
	}
	return string(r.From) + "–" + string(r.To)
}

// Schedule returns the display form of the range's schedule: "Closed", or
// "<open> – <close>".
func (r Range) Schedule() string {
	if r.Closed {
		return "Closed"
	}
	return r.Open + " – " + r.Close
}

func (r Range) scheduleKey() string {
	return DayHours{Open: r.Open, Close: r.Close, Closed: r.Closed}.scheduleKey()
}

// Group compresses a per-day hours list into the minimal ordered list of
// ranges covering all seven canonical days. A day without an entry is
// treated as closed. When a day appears more than once, the last entry wins.
//
// Two days are groupable only when their schedules match by exact string
// equality; no semantic time comparison is performed.
//
// Group is a pure function: the output has between 1 and 7 ranges, covers
// each day exactly once and follows canonical week order.
func Group(hh []DayHours) []Range {
	var groups []Range
	for _, d := range Week {
		h := DayHours{Day: d, Closed: true}
		for _, e := range hh {
			if e.Day == d {
				h = e
			}
		}

		if len(groups) > 0 {
			last := &groups[len(groups)-1]
			if last.scheduleKey() == h.scheduleKey() {
				last.To = d
				continue
			}
		}
		groups = append(groups, Range{
			From:   d,
			To:     d,
			Open:   h.Open,
			Close:  h.Close,
			Closed: h.Closed,
		})
	}
	return groups
}

// Expand is the inverse of [Group]: it replays each range across its day
// span, producing one entry per day of the week.
func Expand(groups []Range) []DayHours {
	var hh []DayHours
	for _, g := range groups {
		days, ok := Span(g.From, g.To)
		if !ok {
			continue
		}
		for _, d := range days {
			hh = append(hh, DayHours{
				Day:    d,
				Open:   g.Open,
				Close:  g.Close,
				Closed: g.Closed,
			})
		}
	}
	return hh
}
