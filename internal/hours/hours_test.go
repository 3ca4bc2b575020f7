// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package hours

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.astrophena.name/nooti/internal/testutil"
)

var update = flag.Bool("update", false, "update golden files")

func open(d Day, open, close string) DayHours {
	return DayHours{Day: d, Open: open, Close: close}
}

func closed(d Day) DayHours {
	return DayHours{Day: d, Closed: true}
}

func TestGroupSingleRunPerSchedule(t *testing.T) {
	t.Parallel()

	hh := []DayHours{
		open(Mon, "09:00", "18:00"),
		open(Tue, "09:00", "18:00"),
		open(Wed, "09:00", "18:00"),
		open(Thu, "09:00", "18:00"),
		open(Fri, "09:00", "18:00"),
		open(Sat, "10:00", "17:00"),
		closed(Sun),
	}

	testutil.AssertEqual(t, Group(hh), []Range{
		{From: Mon, To: Fri, Open: "09:00", Close: "18:00"},
		{From: Sat, To: Sat, Open: "10:00", Close: "17:00"},
		{From: Sun, To: Sun, Closed: true},
	})
}

func TestGroupSparseDefaultsToClosed(t *testing.T) {
	t.Parallel()

	hh := []DayHours{open(Wed, "12:00", "20:00")}

	testutil.AssertEqual(t, Group(hh), []Range{
		{From: Mon, To: Tue, Closed: true},
		{From: Wed, To: Wed, Open: "12:00", Close: "20:00"},
		{From: Thu, To: Sun, Closed: true},
	})
}

func TestGroupEmptyInput(t *testing.T) {
	t.Parallel()

	testutil.AssertEqual(t, Group(nil), []Range{
		{From: Mon, To: Sun, Closed: true},
	})
}

func TestGroupPartitionsWeek(t *testing.T) {
	t.Parallel()

	cases := map[string][]DayHours{
		"empty":  nil,
		"sparse": {open(Wed, "12:00", "20:00"), closed(Sat)},
		"full week, same schedule": Expand([]Range{
			{From: Mon, To: Sun, Open: "08:00", Close: "18:00"},
		}),
		"alternating": {
			open(Mon, "08:00", "18:00"),
			closed(Tue),
			open(Wed, "08:00", "18:00"),
			closed(Thu),
			open(Fri, "08:00", "18:00"),
			closed(Sat),
			open(Sun, "08:00", "18:00"),
		},
		"exact string equality, no time normalization": {
			open(Mon, "09:00", "18:00"),
			open(Tue, "9:00", "18:00"), // different string, same wall time
		},
	}

	for name, hh := range cases {
		t.Run(name, func(t *testing.T) {
			groups := Group(hh)

			if len(groups) < 1 || len(groups) > 7 {
				t.Fatalf("got %d groups, want between 1 and 7", len(groups))
			}

			// Groups must cover Mon..Sun exactly once each, in order.
			var covered []Day
			for _, g := range groups {
				days, ok := Span(g.From, g.To)
				if !ok {
					t.Fatalf("invalid range %v", g)
				}
				covered = append(covered, days...)
			}
			testutil.AssertEqual(t, covered, Week[:])
		})
	}
}

func TestGroupIdempotent(t *testing.T) {
	t.Parallel()

	cases := [][]DayHours{
		nil,
		{open(Wed, "12:00", "20:00")},
		{
			open(Mon, "09:00", "18:00"),
			open(Tue, "09:00", "18:00"),
			closed(Wed),
			open(Thu, "09:00", "18:00"),
			open(Fri, "09:00", "21:00"),
			open(Sat, "10:00", "16:00"),
			open(Sun, "10:00", "16:00"),
		},
	}

	for _, hh := range cases {
		first := Group(hh)
		second := Group(Expand(first))
		testutil.AssertEqual(t, second, first)
	}
}

func TestGroupDuplicateDayLastWins(t *testing.T) {
	t.Parallel()

	hh := []DayHours{
		open(Mon, "08:00", "18:00"),
		open(Mon, "10:00", "14:00"),
	}

	groups := Group(hh)
	testutil.AssertEqual(t, groups[0], Range{From: Mon, To: Mon, Open: "10:00", Close: "14:00"})
}

func TestExpandLegacy(t *testing.T) {
	t.Parallel()

	got := ExpandLegacy([]LegacyGroup{
		{Days: "Mon–Fri", Open: "09:00", Close: "18:00"},
		{Days: "Sat", Open: "10:00", Close: "16:00"},
		{Days: "Sun", Closed: true},
	})

	want := []DayHours{
		open(Mon, "09:00", "18:00"),
		open(Tue, "09:00", "18:00"),
		open(Wed, "09:00", "18:00"),
		open(Thu, "09:00", "18:00"),
		open(Fri, "09:00", "18:00"),
		open(Sat, "10:00", "16:00"),
		closed(Sun),
	}
	testutil.AssertEqual(t, got, want)
}

func TestExpandLegacyUnknownLabelPassesThrough(t *testing.T) {
	t.Parallel()

	got := ExpandLegacy([]LegacyGroup{
		{Days: "Holidays", Closed: true},
	})
	testutil.AssertEqual(t, got, []DayHours{{Day: "Holidays", Closed: true}})
}

func TestExpandLegacyInvertedRangePassesThrough(t *testing.T) {
	t.Parallel()

	// "Fri–Mon" parses as two valid days but spans an inverted range; it must
	// pass through as a single label, not vanish.
	got := ExpandLegacy([]LegacyGroup{
		{Days: "Fri–Mon", Open: "09:00", Close: "18:00"},
	})
	testutil.AssertEqual(t, got, []DayHours{{Day: "Fri–Mon", Open: "09:00", Close: "18:00"}})
}

func TestExpandLegacyKeepsDuplicates(t *testing.T) {
	t.Parallel()

	got := ExpandLegacy([]LegacyGroup{
		{Days: "Mon", Open: "08:00", Close: "18:00"},
		{Days: "Mon–Tue", Open: "09:00", Close: "17:00"},
	})

	// Overlapping groups are not deduplicated at this layer.
	testutil.AssertEqual(t, got, []DayHours{
		open(Mon, "08:00", "18:00"),
		open(Mon, "09:00", "17:00"),
		open(Tue, "09:00", "17:00"),
	})
}

func TestGroupGolden(t *testing.T) {
	testutil.RunGolden(t, filepath.Join("testdata", "*.json"), func(t *testing.T, match string) []byte {
		b, err := os.ReadFile(match)
		if err != nil {
			t.Fatal(err)
		}
		var sb strings.Builder
		for _, r := range Group(testutil.UnmarshalJSON[[]DayHours](t, b)) {
			sb.WriteString(r.Days())
			sb.WriteString(": ")
			sb.WriteString(r.Schedule())
			sb.WriteString("\n")
		}
		return []byte(sb.String())
	}, *update)
}

func TestParseDays(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in       string
		from, to Day
		ok       bool
	}{
		{"Mon", Mon, Mon, true},
		{"Mon–Fri", Mon, Fri, true},
		{"Mon-Fri", Mon, Fri, true},
		{" Sat ", Sat, Sat, true},
		{"Tue - Thu", Tue, Thu, true},
		{"Monday", "", "", false},
		{"", "", "", false},
	}

	for _, tc := range cases {
		from, to, ok := ParseDays(tc.in)
		if from != tc.from || to != tc.to || ok != tc.ok {
			t.Errorf("ParseDays(%q) = %q, %q, %v; want %q, %q, %v", tc.in, from, to, ok, tc.from, tc.to, tc.ok)
		}
	}
}

func TestRangeLabels(t *testing.T) {
	t.Parallel()

	r := Range{From: Mon, To: Fri, Open: "09:00", Close: "18:00"}
	testutil.AssertEqual(t, r.Days(), "Mon–Fri")
	testutil.AssertEqual(t, r.Schedule(), "09:00 – 18:00")

	r = Range{From: Sun, To: Sun, Closed: true}
	testutil.AssertEqual(t, r.Days(), "Sun")
	testutil.AssertEqual(t, r.Schedule(), "Closed")
}
