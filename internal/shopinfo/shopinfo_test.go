// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package shopinfo

import (
	"testing"

	"go.astrophena.name/nooti/internal/hours"
	"go.astrophena.name/nooti/internal/testutil"
)

func TestNormalizeLegacyDocument(t *testing.T) {
	t.Parallel()

	const doc = `{
  "name": "Nooti Coffee",
  "address": "123 Groove St",
  "city": "Helsinki",
  "hours": [
    {"days": "Mon–Fri", "open": "09:00", "close": "18:00"},
    {"days": "Sat", "open": "10:00", "close": "16:00"},
    {"days": "Sun", "closed": true}
  ],
  "backgroundUrl": "/retro-fallback"
}`

	info, err := Normalize([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	want := []hours.DayHours{
		{Day: hours.Mon, Open: "09:00", Close: "18:00"},
		{Day: hours.Tue, Open: "09:00", Close: "18:00"},
		{Day: hours.Wed, Open: "09:00", Close: "18:00"},
		{Day: hours.Thu, Open: "09:00", Close: "18:00"},
		{Day: hours.Fri, Open: "09:00", Close: "18:00"},
		{Day: hours.Sat, Open: "10:00", Close: "16:00"},
		{Day: hours.Sun, Closed: true},
	}
	testutil.AssertEqual(t, info.Hours, want)
	testutil.AssertEqual(t, info.BackgroundURL, "/retro-fallback")
}

func TestNormalizeCanonicalPassthrough(t *testing.T) {
	t.Parallel()

	const doc = `{
  "name": "Nooti Coffee",
  "hours": [
    {"day": "Wed", "open": "12:00", "close": "20:00"},
    {"day": "Sun", "closed": true}
  ]
}`

	info, err := Normalize([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	testutil.AssertEqual(t, info.Hours, []hours.DayHours{
		{Day: hours.Wed, Open: "12:00", Close: "20:00"},
		{Day: hours.Sun, Closed: true},
	})
}

func TestNormalizeDefaultsMissingFields(t *testing.T) {
	t.Parallel()

	info, err := Normalize([]byte(`{"name": "Corner Cafe"}`))
	if err != nil {
		t.Fatal(err)
	}

	def := Default()
	testutil.AssertEqual(t, info.Name, "Corner Cafe")
	testutil.AssertEqual(t, info.Address, def.Address)
	testutil.AssertEqual(t, info.City, def.City)
	testutil.AssertEqual(t, info.Hours, def.Hours)
	testutil.AssertEqual(t, info.BackgroundURL, def.BackgroundURL)
}

func TestNormalizeHoursNotAnArray(t *testing.T) {
	t.Parallel()

	info, err := Normalize([]byte(`{"hours": "whenever"}`))
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, info.Hours, Default().Hours)
}

func TestNormalizeMalformedJSON(t *testing.T) {
	t.Parallel()

	if _, err := Normalize([]byte(`{`)); err == nil {
		t.Fatal("want error for malformed JSON")
	}
}

func TestSetHoursReplacesDays(t *testing.T) {
	t.Parallel()

	info := &Info{Hours: []hours.DayHours{
		{Day: hours.Mon, Open: "08:00", Close: "18:00"},
		{Day: hours.Tue, Open: "08:00", Close: "18:00"},
		{Day: hours.Sat, Open: "10:00", Close: "16:00"},
	}}

	if !info.SetHours(hours.Mon, hours.Tue, "09:00", "19:00", false) {
		t.Fatal("SetHours failed")
	}

	// Entries for other days keep their position; edited days are appended,
	// one entry per day.
	testutil.AssertEqual(t, info.Hours, []hours.DayHours{
		{Day: hours.Sat, Open: "10:00", Close: "16:00"},
		{Day: hours.Mon, Open: "09:00", Close: "19:00"},
		{Day: hours.Tue, Open: "09:00", Close: "19:00"},
	})
}

func TestSetHoursClosed(t *testing.T) {
	t.Parallel()

	info := Default()
	if !info.SetHours(hours.Sun, hours.Sun, "", "", true) {
		t.Fatal("SetHours failed")
	}

	groups := hours.Group(info.Hours)
	last := groups[len(groups)-1]
	testutil.AssertEqual(t, last, hours.Range{From: hours.Sun, To: hours.Sun, Closed: true})
}

func TestSetHoursInvalidRange(t *testing.T) {
	t.Parallel()

	info := Default()
	if info.SetHours("Funday", "Funday", "09:00", "17:00", false) {
		t.Fatal("SetHours accepted an unknown day")
	}
	testutil.AssertEqual(t, info.Hours, Default().Hours)
}

func TestSetAddressKeepsCurrentOnEmpty(t *testing.T) {
	t.Parallel()

	info := Default()
	info.SetAddress("45 Vinyl Ave", "")
	testutil.AssertEqual(t, info.Address, "45 Vinyl Ave")
	testutil.AssertEqual(t, info.City, "Helsinki")
}
