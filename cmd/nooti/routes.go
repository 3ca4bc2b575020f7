// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"net/http"

	"go.astrophena.name/nooti/internal/hours"
	"go.astrophena.name/nooti/internal/shopinfo"
	"go.astrophena.name/nooti/internal/web"

	"github.com/benbjohnson/hashfs"
)

//go:embed static templates
var embedFS embed.FS

var staticFS = hashfs.NewFS(embedFS)

var indexTmpl = template.Must(template.New("index.tmpl").Funcs(template.FuncMap{
	"static": func(name string) string { return "/" + staticFS.HashName(name) },
}).ParseFS(embedFS, "templates/index.tmpl"))

func (e *engine) initRoutes() {
	e.mux = http.NewServeMux()

	e.mux.HandleFunc("GET /{$}", e.handleIndex)
	e.mux.HandleFunc("GET /api/info", e.handleInfoGet)
	e.mux.HandleFunc("POST /api/info", e.handleInfoSet)
	e.mux.HandleFunc("POST /telegram", e.handleTelegramWebhook)

	// Debug routes protected by ListenAndServeConfig.DebugAuth.
	e.mux.Handle("GET /debug/log", e.logStream)
}

// indexData is what the landing page template renders.
type indexData struct {
	*shopinfo.Info
	Ranges []hours.Range
}

func (e *engine) handleIndex(w http.ResponseWriter, r *http.Request) {
	info, err := e.store.Read(r.Context())
	if err != nil {
		web.RespondError(e.logf, w, err)
		return
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, indexData{
		Info:   info,
		Ranges: hours.Group(info.Hours),
	}); err != nil {
		web.RespondError(e.logf, w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (e *engine) handleInfoGet(w http.ResponseWriter, r *http.Request) {
	info, err := e.store.Read(r.Context())
	if err != nil {
		web.RespondJSONError(e.logf, w, err)
		return
	}
	web.RespondJSON(w, info)
}

// handleInfoSet replaces the document wholesale. The body passes through the
// same normalization as any other read, so pushing a legacy-shaped document
// here is fine.
func (e *engine) handleInfoSet(w http.ResponseWriter, r *http.Request) {
	if !e.authorized(r) {
		web.RespondJSONError(e.logf, w, web.ErrUnauthorized)
		return
	}

	b, err := io.ReadAll(r.Body)
	if err != nil {
		web.RespondJSONError(e.logf, w, err)
		return
	}
	info, err := shopinfo.Normalize(b)
	if err != nil {
		web.RespondJSONError(e.logf, w, web.ErrBadRequest)
		return
	}
	if err := e.store.Write(r.Context(), info); err != nil {
		web.RespondJSONError(e.logf, w, err)
		return
	}
	web.RespondJSON(w, info)
}

// authorized reports whether a request to a protected endpoint carries the
// shared secret, either as a ?secret= query parameter or in the header the
// Telegram Bot API sends it in. An unset secret locks everything out instead
// of letting everything in.
func (e *engine) authorized(r *http.Request) bool {
	if e.tgSecret == "" {
		return false
	}
	if r.URL.Query().Get("secret") == e.tgSecret {
		return true
	}
	return r.Header.Get("X-Telegram-Bot-Api-Secret-Token") == e.tgSecret
}
