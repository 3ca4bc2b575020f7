// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Nooti serves the Nooti Coffee landing page and a Telegram bot through
which the shop owner edits the page content.

The page content lives in a single JSON document. It is cached on local
disk and mirrored to a GitHub repository, which serves as the durable
source of truth when the service runs on a host with an ephemeral disk.
Owner messages are interpreted either by a fixed command grammar or, when
an OpenAI API key is configured, by a language model:

	set hours Mon–Fri 09:00-19:00; Sun closed
	set address 45 Vinyl Ave, Helsinki
	set name Nooti Coffee
	set bg https://example.com/bg.jpg
	set note Live jazz on Friday!
	push

# Usage

	$ nooti [flags...]

Nooti is configured through environment variables (a .env file is loaded
when present):

	TG_TOKEN      Telegram bot token.
	TG_SECRET     Shared secret protecting the webhook and admin endpoints.
	ADMIN_CHATS   Comma-separated chat IDs allowed to edit (empty allows all).
	AUTO_APPLY    Set to "false" to require a "yes" confirmation per edit.
	GH_REPO       Mirror repository as owner/repo[@branch].
	GH_TOKEN      GitHub token used for mirror pushes.
	OPENAI_KEY    OpenAI API key; without it the fixed grammar is used.
	DATA_DIR      Directory of the local cache (default "data").
	DEPLOY_HOOK_URL  Optional URL POSTed to after each successful edit.
	HOST          Public hostname, used to register the Telegram webhook.
	PING_URL      Optional URL to ping periodically to keep the host awake.
	RENDER        Set to "true" by Render; enables production mode.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/nooti/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
