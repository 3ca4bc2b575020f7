// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package telegram provides a minimal client for the Telegram Bot API,
// covering only what the bot needs: sending messages and registering a
// webhook.
package telegram

import (
	"context"
	"net/http"
	"strings"

	"go.astrophena.name/nooti/internal/request"
)

const api = "https://api.telegram.org"

// Client represents a Telegram Bot API client.
//
// A client with an empty token degrades to a no-op: calls succeed without
// doing anything, so a missing chat credential doesn't break the flow that
// triggers a reply.
type Client struct {
	// Token is the bot token used for authentication.
	Token string
	// HTTPClient is an optional custom HTTP client object to use for requests.
	// If not provided, request.DefaultClient will be used.
	HTTPClient *http.Client
	// Scrubber is an optional strings.Replacer that scrubs unwanted data from
	// error messages.
	Scrubber *strings.Replacer
}

func (c *Client) call(ctx context.Context, method string, body any) error {
	if c.Token == "" {
		return nil
	}
	_, err := request.Make[request.IgnoreResponse](ctx, request.Params{
		Method:     http.MethodPost,
		URL:        api + "/bot" + c.Token + "/" + method,
		Body:       body,
		HTTPClient: c.HTTPClient,
		Scrubber:   c.Scrubber,
	})
	return err
}

// SendMessage sends an HTML-formatted message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "sendMessage", map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	})
}

// SetWebhook registers webhookURL to receive bot updates, with secret sent
// back by Telegram in the X-Telegram-Bot-Api-Secret-Token header of every
// delivery.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	return c.call(ctx, "setWebhook", map[string]string{
		"url":          webhookURL,
		"secret_token": secret,
	})
}
