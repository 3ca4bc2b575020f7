// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package intent

import (
	"context"
	"testing"

	"go.astrophena.name/nooti/internal/testutil"
)

func TestParser(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		text string
		want Intent
	}{
		"set hours": {
			text: "set hours Mon–Fri 09:00-19:00",
			want: Intent{Type: TypeSetHours, Hours: []HoursUpdate{
				{Days: "Mon–Fri", Open: "09:00", Close: "19:00"},
			}},
		},
		"set hours, plain dash": {
			text: "set hours Mon-Fri 09:00-19:00",
			want: Intent{Type: TypeSetHours, Hours: []HoursUpdate{
				{Days: "Mon-Fri", Open: "09:00", Close: "19:00"},
			}},
		},
		"set hours closed": {
			text: "set hours Sun closed",
			want: Intent{Type: TypeSetHours, Hours: []HoursUpdate{
				{Days: "Sun", Closed: true},
			}},
		},
		"set hours bulk": {
			text: "set hours Mon–Fri 09:00-18:00; Sat 10:00-16:00; Sun closed",
			want: Intent{Type: TypeSetHours, Hours: []HoursUpdate{
				{Days: "Mon–Fri", Open: "09:00", Close: "18:00"},
				{Days: "Sat", Open: "10:00", Close: "16:00"},
				{Days: "Sun", Closed: true},
			}},
		},
		"set hours, bad day": {
			text: "set hours Monday 09:00-19:00",
			want: Unknown,
		},
		"set hours, bad time": {
			text: "set hours Mon 9:00-19:00",
			want: Unknown,
		},
		"set address": {
			text: "set address 45 Vinyl Ave, Helsinki",
			want: Intent{Type: TypeSetAddress, Address: "45 Vinyl Ave", City: "Helsinki"},
		},
		"set address without city": {
			text: "set address 45 Vinyl Ave",
			want: Intent{Type: TypeSetAddress, Address: "45 Vinyl Ave"},
		},
		"set name": {
			text: "set name Nooti Coffee",
			want: Intent{Type: TypeSetName, Name: "Nooti Coffee"},
		},
		"set bg": {
			text: "set bg https://example.com/bg.jpg",
			want: Intent{Type: TypeSetBackground, URL: "https://example.com/bg.jpg"},
		},
		"set note": {
			text: "set note Live jazz on Friday!",
			want: Intent{Type: TypeSetNote, Note: "Live jazz on Friday!"},
		},
		"push": {
			text: "push",
			want: Intent{Type: TypePush},
		},
		"push, mixed case": {
			text: "Push",
			want: Intent{Type: TypePush},
		},
		"chatter": {
			text: "hello there",
			want: Unknown,
		},
		"empty": {
			text: "",
			want: Unknown,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Parser{}.Classify(context.Background(), tc.text, nil)
			if err != nil {
				t.Fatal(err)
			}
			testutil.AssertEqual(t, got, tc.want)
		})
	}
}
