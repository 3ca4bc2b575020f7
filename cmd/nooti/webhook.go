// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"slices"
	"strings"

	"go.astrophena.name/nooti/internal/hours"
	"go.astrophena.name/nooti/internal/intent"
	"go.astrophena.name/nooti/internal/shopinfo"
	"go.astrophena.name/nooti/internal/web"
)

var errNoHost = errors.New("HOST must be set to register the webhook")

func (e *engine) registerWebhook(ctx context.Context) error {
	if e.host == "" {
		return errNoHost
	}
	return e.tg.SetWebhook(ctx, "https://"+e.host+"/telegram", e.tgSecret)
}

// update is the part of a Telegram Bot API update the bot looks at.
type update struct {
	Message struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// handleTelegramWebhook handles incoming updates from the Telegram Bot API.
//
// Everything past authentication is acknowledged with 200, whatever happens
// while processing: Telegram retries non-2xx deliveries and a retried edit
// is worse than a lost one.
func (e *engine) handleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	if !e.authorized(r) {
		web.RespondJSONError(e.logf, w, web.ErrUnauthorized)
		return
	}

	var u update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		e.logf("webhook: malformed update: %v", err)
		e.ack(w)
		return
	}

	chatID := u.Message.Chat.ID
	text := strings.TrimSpace(u.Message.Text)
	if chatID == 0 || text == "" {
		e.ack(w)
		return
	}

	ctx := r.Context()
	if len(e.adminChats) > 0 && !slices.Contains(e.adminChats, chatID) {
		e.reply(ctx, chatID, "Sorry, you are not allowed to edit this page.")
		e.ack(w)
		return
	}

	if err := e.processMessage(ctx, chatID, text); err != nil {
		e.logf("webhook: processing message from chat %d failed: %v", chatID, err)
	}
	e.ack(w)
}

func (e *engine) ack(w http.ResponseWriter) {
	web.RespondJSON(w, map[string]bool{"ok": true})
}

func (e *engine) reply(ctx context.Context, chatID int64, text string) {
	if err := e.tg.SendMessage(ctx, chatID, text); err != nil {
		e.logf("webhook: reply to chat %d failed: %v", chatID, err)
	}
}

const helpReply = `I didn't catch that. I understand:

set hours Mon–Fri 09:00-19:00; Sun closed
set address 45 Vinyl Ave, Helsinki
set name Nooti Coffee
set bg https://example.com/bg.jpg
set note Live jazz on Friday!
push`

func (e *engine) processMessage(ctx context.Context, chatID int64, text string) error {
	if strings.EqualFold(text, "yes") {
		return e.applyPending(ctx, chatID)
	}

	info, err := e.store.Read(ctx)
	if err != nil {
		return err
	}

	in, err := e.classifier.Classify(ctx, text, info.Hours)
	if err != nil {
		e.reply(ctx, chatID, "I couldn't interpret that right now, please try again later.")
		return err
	}

	switch in.Type {
	case intent.TypeUnknown:
		e.reply(ctx, chatID, helpReply)
		return nil
	case intent.TypePush:
		if err := e.store.Push(ctx); err != nil {
			e.reply(ctx, chatID, "Push failed: "+html.EscapeString(err.Error()))
			return err
		}
		e.reply(ctx, chatID, "Pushed the current page content to the mirror.")
		return nil
	}

	if !e.autoApply {
		// Dry-run the edit on a copy, stash it and ask for confirmation.
		summary, ok := applyIntent(info.Clone(), in)
		if !ok {
			e.reply(ctx, chatID, "I understood the request but couldn't apply it. Check the days and times.")
			return nil
		}
		e.pending.Access(func(m map[int64]intent.Intent) { m[chatID] = in })
		e.reply(ctx, chatID, summary+"\n\nReply \"yes\" to apply.")
		return nil
	}

	return e.apply(ctx, chatID, info, in)
}

func (e *engine) applyPending(ctx context.Context, chatID int64) error {
	var (
		in intent.Intent
		ok bool
	)
	e.pending.Access(func(m map[int64]intent.Intent) {
		in, ok = m[chatID]
		delete(m, chatID)
	})
	if !ok {
		e.reply(ctx, chatID, "Nothing to confirm.")
		return nil
	}

	info, err := e.store.Read(ctx)
	if err != nil {
		return err
	}
	return e.apply(ctx, chatID, info, in)
}

func (e *engine) apply(ctx context.Context, chatID int64, info *shopinfo.Info, in intent.Intent) error {
	summary, ok := applyIntent(info, in)
	if !ok {
		e.reply(ctx, chatID, "I understood the request but couldn't apply it. Check the days and times.")
		return nil
	}
	if err := e.store.Write(ctx, info); err != nil {
		e.reply(ctx, chatID, "Saved locally, but the mirror push failed. Send \"push\" to retry.")
		return err
	}
	e.reply(ctx, chatID, summary)
	return nil
}

// applyIntent mutates info according to a recognized intent and returns an
// HTML-formatted summary of the change. It reports false when the intent's
// payload doesn't hold up (unknown days, inverted ranges, missing values);
// info may be partially modified in that case, so apply to a copy first when
// that matters.
func applyIntent(info *shopinfo.Info, in intent.Intent) (summary string, ok bool) {
	switch in.Type {
	case intent.TypeSetHours:
		if len(in.Hours) == 0 {
			return "", false
		}
		for _, u := range in.Hours {
			from, to, ok := hours.ParseDays(u.Days)
			if !ok {
				return "", false
			}
			if !info.SetHours(from, to, u.Open, u.Close, u.Closed) {
				return "", false
			}
		}
		return "Updated hours:\n" + formatHours(info.Hours), true
	case intent.TypeSetAddress:
		if in.Address == "" && in.City == "" {
			return "", false
		}
		info.SetAddress(in.Address, in.City)
		return "Updated address: " + html.EscapeString(info.Address+", "+info.City), true
	case intent.TypeSetName:
		if in.Name == "" {
			return "", false
		}
		info.Name = in.Name
		return "Updated name: " + html.EscapeString(in.Name), true
	case intent.TypeSetBackground:
		if in.URL == "" {
			return "", false
		}
		info.BackgroundURL = in.URL
		return "Updated the background image.", true
	case intent.TypeSetNote:
		info.WeeklyNote = in.Note
		if in.Note == "" {
			return "Cleared the weekly note.", true
		}
		return "Updated the weekly note: " + html.EscapeString(in.Note), true
	}
	return "", false
}

// formatHours renders hours as the compressed day ranges the landing page
// shows, one per line.
func formatHours(hh []hours.DayHours) string {
	var sb strings.Builder
	for _, r := range hours.Group(hh) {
		sb.WriteString(r.Days())
		sb.WriteString(": ")
		sb.WriteString(r.Schedule())
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
