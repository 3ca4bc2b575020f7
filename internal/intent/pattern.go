// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package intent

import (
	"context"
	"regexp"
	"strings"

	"go.astrophena.name/nooti/internal/hours"
)

// Parser is a deterministic [Classifier] recognizing a fixed command
// grammar:
//
//	set hours <days> <HH:MM>-<HH:MM>[; <days> <HH:MM>-<HH:MM>...]
//	set hours <days> closed
//	set address <address>, <city>
//	set name <name>
//	set bg <url>
//	set note <text>
//	push
//
// It is used when no language model is configured, and in tests.
type Parser struct{}

var hoursRe = regexp.MustCompile(`^(.+?)\s+(\d{2}:\d{2})-(\d{2}:\d{2})$`)

// Classify implements the [Classifier] interface. It never returns an error.
func (Parser) Classify(_ context.Context, text string, _ []hours.DayHours) (Intent, error) {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)

	switch {
	case strings.HasPrefix(lower, "set hours "):
		return parseHours(text[len("set hours "):]), nil
	case strings.HasPrefix(lower, "set address "):
		addr, city, _ := strings.Cut(text[len("set address "):], ",")
		return Intent{
			Type:    TypeSetAddress,
			Address: strings.TrimSpace(addr),
			City:    strings.TrimSpace(city),
		}, nil
	case strings.HasPrefix(lower, "set name "):
		return Intent{Type: TypeSetName, Name: strings.TrimSpace(text[len("set name "):])}, nil
	case strings.HasPrefix(lower, "set bg "):
		return Intent{Type: TypeSetBackground, URL: strings.TrimSpace(text[len("set bg "):])}, nil
	case strings.HasPrefix(lower, "set note "):
		return Intent{Type: TypeSetNote, Note: strings.TrimSpace(text[len("set note "):])}, nil
	case lower == "push":
		return Intent{Type: TypePush}, nil
	}
	return Unknown, nil
}

// parseHours parses one or more semicolon-separated day-range edits, like
// "Mon–Fri 09:00-19:00; Sat 10:00-16:00; Sun closed".
func parseHours(s string) Intent {
	var updates []HoursUpdate
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.HasSuffix(strings.ToLower(part), " closed") {
			days := strings.TrimSpace(part[:len(part)-len(" closed")])
			if _, _, ok := hours.ParseDays(days); !ok {
				return Unknown
			}
			updates = append(updates, HoursUpdate{Days: days, Closed: true})
			continue
		}

		m := hoursRe.FindStringSubmatch(part)
		if m == nil {
			return Unknown
		}
		if _, _, ok := hours.ParseDays(m[1]); !ok {
			return Unknown
		}
		updates = append(updates, HoursUpdate{Days: strings.TrimSpace(m[1]), Open: m[2], Close: m[3]})
	}
	if len(updates) == 0 {
		return Unknown
	}
	return Intent{Type: TypeSetHours, Hours: updates}
}
