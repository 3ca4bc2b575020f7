// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"cmp"
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.astrophena.name/nooti/internal/api/telegram"
	"go.astrophena.name/nooti/internal/cli"
	"go.astrophena.name/nooti/internal/intent"
	"go.astrophena.name/nooti/internal/logger"
	"go.astrophena.name/nooti/internal/request"
	"go.astrophena.name/nooti/internal/shopinfo"
	"go.astrophena.name/nooti/internal/util/syncx"
	"go.astrophena.name/nooti/internal/version"
	"go.astrophena.name/nooti/internal/web"

	"github.com/joho/godotenv"
)

func main() { cli.Main(new(engine)) }

func (e *engine) Flags(fs *flag.FlagSet) {
	fs.StringVar(&e.addr, "addr", "localhost:3000", "Listen on `host:port`.")
	fs.BoolVar(&e.prod, "prod", false, "Run in production mode.")
}

func (e *engine) Run(ctx context.Context, env *cli.Env) error {
	// Load a .env file, if present. The environment itself wins.
	godotenv.Load()

	// Load configuration from environment variables.
	e.adminChats = parseChatIDs(env.Getenv("ADMIN_CHATS"))
	e.autoApply = env.Getenv("AUTO_APPLY") != "false"
	e.dataDir = cmp.Or(e.dataDir, env.Getenv("DATA_DIR"), "data")
	e.deployHookURL = cmp.Or(e.deployHookURL, env.Getenv("DEPLOY_HOOK_URL"))
	e.ghRepo = cmp.Or(e.ghRepo, env.Getenv("GH_REPO"))
	e.ghToken = cmp.Or(e.ghToken, env.Getenv("GH_TOKEN"))
	e.host = cmp.Or(e.host, env.Getenv("HOST"))
	e.onRender = env.Getenv("RENDER") == "true"
	e.openaiKey = cmp.Or(e.openaiKey, env.Getenv("OPENAI_KEY"))
	e.pingURL = cmp.Or(e.pingURL, env.Getenv("PING_URL"))
	e.tgSecret = cmp.Or(e.tgSecret, env.Getenv("TG_SECRET"))
	e.tgToken = cmp.Or(e.tgToken, env.Getenv("TG_TOKEN"))

	if e.stderr == nil {
		e.stderr = env.Stderr
	}

	// Initialize internal state.
	if err := e.init.Get(e.doInit); err != nil {
		return err
	}

	// Used in tests.
	if e.noServerStart {
		return nil
	}

	// If running on Render, look up the port to listen on.
	if e.onRender {
		e.logf("Running on Render: enabling production mode.")
		e.prod = true
		// https://docs.render.com/environment-variables#all-runtimes-1
		if port := env.Getenv("PORT"); port != "" {
			e.addr = ":" + port
		}
	}

	if e.pingURL != "" {
		go e.ping(ctx, selfPingInterval)
	}

	// If running in production mode, register the webhook in Telegram Bot API.
	if e.prod {
		if err := e.registerWebhook(ctx); err != nil {
			return err
		}
		e.logf("Running in production mode.")
	} else {
		e.logf("Running in development mode.")
	}

	return web.ListenAndServe(ctx, &web.ListenAndServeConfig{
		Addr:      e.addr,
		Mux:       e.mux,
		Logf:      e.logf,
		StaticFS:  staticFS,
		DebugAuth: e.debugAuth,
		Ready:     e.ready,
	})
}

type engine struct {
	init syncx.Lazy[error] // main initialization

	// initialized by doInit
	classifier intent.Classifier
	logStream  logger.Streamer
	logf       logger.Logf
	mux        *http.ServeMux
	pending    *syncx.Protected[map[int64]intent.Intent]
	scrubber   *strings.Replacer
	store      *shopinfo.Store
	tg         *telegram.Client

	// configuration, read-only after initialization
	addr          string
	adminChats    []int64
	autoApply     bool
	dataDir       string
	deployHookURL string
	ghRepo        string
	ghToken       string
	host          string
	httpc         *http.Client
	onRender      bool
	openaiKey     string
	pingURL       string
	prod          bool
	stderr        io.Writer
	tgSecret      string
	tgToken       string

	// for tests
	noServerStart bool
	ready         func() // see web.ListenAndServeConfig.Ready
}

const (
	logLineLimit     = 300
	selfPingInterval = 10 * time.Minute
)

func (e *engine) doInit() error {
	if e.httpc == nil {
		e.httpc = &http.Client{
			// Give the OpenAI API room to respond.
			Timeout: 60 * time.Second,
		}
	}
	if e.stderr == nil {
		e.stderr = os.Stderr
	}

	e.logStream = logger.NewStreamer(logLineLimit)
	e.logf = log.New(io.MultiWriter(e.stderr, &timestampWriter{e.logStream}), "", 0).Printf

	var scrubPairs []string
	for _, val := range []string{
		e.ghToken,
		e.openaiKey,
		e.tgSecret,
		e.tgToken,
	} {
		if val != "" {
			scrubPairs = append(scrubPairs, val, "[EXPUNGED]")
		}
	}
	if len(scrubPairs) > 0 {
		e.scrubber = strings.NewReplacer(scrubPairs...)
	}

	owner, repo, branch := splitRepo(e.ghRepo)
	e.store = shopinfo.NewStore(shopinfo.Config{
		Dir:           e.dataDir,
		Owner:         owner,
		Repo:          repo,
		Branch:        branch,
		Token:         e.ghToken,
		Hosted:        e.onRender,
		DeployHookURL: e.deployHookURL,
		HTTPClient:    e.httpc,
		Logf:          e.logf,
		Scrubber:      e.scrubber,
	})

	e.tg = &telegram.Client{
		Token:      e.tgToken,
		HTTPClient: e.httpc,
		Scrubber:   e.scrubber,
	}

	if e.openaiKey != "" {
		e.classifier = intent.NewOpenAI(e.openaiKey, e.httpc)
	} else {
		e.classifier = intent.Parser{}
	}

	e.pending = syncx.Protect(make(map[int64]intent.Intent))

	e.initRoutes()
	return nil
}

func (e *engine) ping(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, err := request.Make[request.IgnoreResponse](ctx, request.Params{
				Method: http.MethodGet,
				URL:    e.pingURL,
				Headers: map[string]string{
					"User-Agent": version.UserAgent(),
				},
				HTTPClient: e.httpc,
			})
			if err != nil {
				e.logf("ping: failed to send heartbeat: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// splitRepo parses a mirror repository location in the owner/repo[@branch]
// form.
func splitRepo(s string) (owner, repo, branch string) {
	s, branch, _ = strings.Cut(s, "@")
	owner, repo, _ = strings.Cut(s, "/")
	return
}

func parseChatIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err == nil && id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// timestampWriter is an io.Writer that prefixes each line with the current
// date and time.
type timestampWriter struct {
	w io.Writer
}

func (tw *timestampWriter) Write(p []byte) (n int, err error) {
	for _, line := range bytes.SplitAfter(p, []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		timestamp := time.Now().Format(time.DateTime + "\t")
		if _, err := tw.w.Write([]byte(timestamp)); err != nil {
			return n, err
		}
		nn, err := tw.w.Write(line)
		n += nn
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (e *engine) debugAuth(r *http.Request) bool {
	if !e.prod {
		return true
	}
	return e.tgSecret != "" && r.URL.Query().Get("secret") == e.tgSecret
}
