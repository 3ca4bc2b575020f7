// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.astrophena.name/nooti/internal/shopinfo"
	"go.astrophena.name/nooti/internal/testutil"
)

func get(t *testing.T, e *engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestIndexPage(t *testing.T) {
	t.Parallel()

	tm := newTestMux(t)
	e := testEngine(t, tm, nil)

	w := get(t, e, "/")
	testutil.AssertEqual(t, w.Code, http.StatusOK)

	body := w.Body.String()
	// The default document, with hours compressed into day ranges.
	for _, want := range []string{
		"Nooti Coffee",
		"123 Groove St, Helsinki",
		"Mon–Fri",
		"08:00 – 18:00",
		"Sun",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page doesn't contain %q", want)
		}
	}
}

func TestIndexPageShowsNote(t *testing.T) {
	t.Parallel()

	tm := newTestMux(t)
	e := testEngine(t, tm, nil)

	info, err := e.store.Read(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	info.WeeklyNote = "Live jazz on Friday!"
	if err := e.store.Write(context.Background(), info); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(get(t, e, "/").Body.String(), "Live jazz on Friday!") {
		t.Fatal("page doesn't show the weekly note")
	}
}

func TestInfoGet(t *testing.T) {
	t.Parallel()

	tm := newTestMux(t)
	e := testEngine(t, tm, nil)

	w := get(t, e, "/api/info")
	testutil.AssertEqual(t, w.Code, http.StatusOK)

	info := testutil.UnmarshalJSON[*shopinfo.Info](t, w.Body.Bytes())
	testutil.AssertEqual(t, info.Name, "Nooti Coffee")
	testutil.AssertEqual(t, len(info.Hours), 7)
}

func TestInfoSetRequiresSecret(t *testing.T) {
	t.Parallel()

	tm := newTestMux(t)
	e := testEngine(t, tm, nil)

	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/info", strings.NewReader(`{"name":"Evil Cafe"}`)))
	testutil.AssertEqual(t, w.Code, http.StatusUnauthorized)
}

func TestInfoSet(t *testing.T) {
	t.Parallel()

	tm := newTestMux(t)
	e := testEngine(t, tm, nil)

	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/info?secret="+tgSecret, strings.NewReader(`{"name":"Corner Cafe"}`)))
	testutil.AssertEqual(t, w.Code, http.StatusOK)

	info, err := e.store.Read(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, info.Name, "Corner Cafe")
	// Missing fields were defaulted by normalization.
	testutil.AssertEqual(t, info.Address, "123 Groove St")
	testutil.AssertEqual(t, tm.puts.Load(), int64(1))
}

func TestInfoSetRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	tm := newTestMux(t)
	e := testEngine(t, tm, nil)

	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/info?secret="+tgSecret, strings.NewReader(`{`)))
	testutil.AssertEqual(t, w.Code, http.StatusBadRequest)
}
