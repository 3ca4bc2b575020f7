// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package shopinfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.astrophena.name/nooti/internal/api/github/contents"
	"go.astrophena.name/nooti/internal/atomicio"
	"go.astrophena.name/nooti/internal/logger"
	"go.astrophena.name/nooti/internal/request"
)

const infoFile = "info.json"

// Config configures a [Store]. It replaces hidden reads of process-wide
// environment state: the caller decides what the environment looks like and
// passes it in.
type Config struct {
	// Dir is the directory holding the local on-disk cache.
	Dir string

	// Owner, Repo and Branch locate the remote mirror, a version-controlled
	// file store used as the durable source of truth when the serving
	// environment's local disk is ephemeral. Path is the file path inside it.
	// An empty Owner disables the mirror entirely.
	Owner  string
	Repo   string
	Branch string
	Path   string

	// Token is the write credential for the remote mirror. Without it, mirror
	// pushes degrade to a no-op.
	Token string

	// Hosted reports whether the service runs in a network-hosted execution
	// context with an ephemeral disk; reads then prefer the remote mirror.
	Hosted bool

	// DeployHookURL, if set, receives a fire-and-forget POST after every
	// successful mutation. Failures are ignored.
	DeployHookURL string

	// HTTPClient is an optional custom HTTP client object to use for requests.
	HTTPClient *http.Client
	// Logf specifies a logger to use. If nil, logging is disabled.
	Logf logger.Logf
	// Scrubber is an optional strings.Replacer that scrubs unwanted data from
	// error messages.
	Scrubber *strings.Replacer
}

// Store reads and writes the shop-info document.
//
// Reads select their source based on the deployment environment and always
// pass the document through [Normalize], so callers see the canonical shape
// regardless of which generation wrote the file. Writes go to the local
// cache first (the primary guarantee), then through an ordered list of
// post-commit hooks: the remote mirror push, whose failure is reported to
// the caller, and the deploy hook, whose failure is ignored.
//
// There is no locking: concurrent writers race and the last writer wins,
// both locally and on the mirror.
type Store struct {
	cfg Config
	gh  *contents.Client
}

// NewStore returns a new Store for the given configuration.
func NewStore(cfg Config) *Store {
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	if cfg.Path == "" {
		cfg.Path = "data/" + infoFile
	}
	if cfg.Logf == nil {
		cfg.Logf = func(format string, args ...any) {}
	}
	return &Store{
		cfg: cfg,
		gh: &contents.Client{
			Token:      cfg.Token,
			HTTPClient: cfg.HTTPClient,
			Scrubber:   cfg.Scrubber,
		},
	}
}

func (s *Store) localPath() string { return filepath.Join(s.cfg.Dir, infoFile) }

func (s *Store) mirrored() bool { return s.cfg.Owner != "" && s.cfg.Repo != "" }

// Read returns the current document.
//
// In a hosted environment it fetches the raw mirror file first and falls
// back to the local cache if that fails; otherwise it reads the local cache,
// seeding it with the default document on first use.
func (s *Store) Read(ctx context.Context) (*Info, error) {
	if s.cfg.Hosted && s.mirrored() {
		b, err := request.Make[[]byte](ctx, request.Params{
			Method:     http.MethodGet,
			URL:        contents.RawURL(s.cfg.Owner, s.cfg.Repo, s.cfg.Branch, s.cfg.Path),
			HTTPClient: s.cfg.HTTPClient,
			Scrubber:   s.cfg.Scrubber,
		})
		if err == nil {
			var info *Info
			info, err = Normalize(b)
			if err == nil {
				return info, nil
			}
		}
		s.cfg.Logf("shopinfo: mirror read failed, falling back to local cache: %v", err)
	}

	if err := s.seed(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.localPath())
	if err != nil {
		return nil, err
	}
	return Normalize(b)
}

// seed creates the local cache with the default document if it doesn't exist
// yet.
func (s *Store) seed() error {
	_, err := os.Stat(s.localPath())
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return err
	}
	b, err := marshal(Default())
	if err != nil {
		return err
	}
	return atomicio.WriteFile(s.localPath(), b, 0o644)
}

func marshal(info *Info) ([]byte, error) {
	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Write persists the document, stamping it with the current time. The local
// write is the operation's primary guarantee; post-commit hooks run
// afterwards and a mirror push failure is returned to the caller even though
// the local write already succeeded.
func (s *Store) Write(ctx context.Context, info *Info) error {
	info.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	b, err := marshal(info)
	if err != nil {
		return err
	}
	if err := s.seed(); err != nil {
		return err
	}
	if err := atomicio.WriteFile(s.localPath(), b, 0o644); err != nil {
		return err
	}

	// Post-commit hooks, in order. Only the local write above is required for
	// the operation to be considered successful.
	var errs []error
	for _, h := range []struct {
		name     string
		run      func(context.Context) error
		required bool
	}{
		{"mirror push", func(ctx context.Context) error { return s.push(ctx, b) }, true},
		{"deploy hook", s.triggerDeploy, false},
	} {
		err := h.run(ctx)
		if err == nil {
			continue
		}
		s.cfg.Logf("shopinfo: %s failed: %v", h.name, err)
		if h.required {
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
		}
	}
	return errors.Join(errs...)
}

// Push pushes the current local document to the remote mirror.
func (s *Store) Push(ctx context.Context) error {
	if err := s.seed(); err != nil {
		return err
	}
	b, err := os.ReadFile(s.localPath())
	if err != nil {
		return err
	}
	if !s.mirrored() || s.cfg.Token == "" {
		return errors.New("shopinfo: no mirror write credential configured")
	}
	return s.push(ctx, b)
}

// push writes b to the mirror, reading the file's current revision marker
// immediately before the write.
func (s *Store) push(ctx context.Context, b []byte) error {
	if !s.mirrored() || s.cfg.Token == "" {
		return nil
	}

	var sha string
	f, err := s.gh.Get(ctx, s.cfg.Owner, s.cfg.Repo, s.cfg.Path, s.cfg.Branch)
	switch {
	case err == nil:
		sha = f.SHA
	case errors.Is(err, contents.ErrNotFound):
		// First push creates the file.
	default:
		return err
	}

	return s.gh.Put(ctx, s.cfg.Owner, s.cfg.Repo, s.cfg.Path, contents.PutParams{
		Message: "chore: update shop info " + time.Now().UTC().Format(time.RFC3339),
		Content: b,
		Branch:  s.cfg.Branch,
		SHA:     sha,
	})
}

// triggerDeploy fires the deploy hook so the hosting platform picks up the
// new document.
func (s *Store) triggerDeploy(ctx context.Context) error {
	if s.cfg.DeployHookURL == "" {
		return nil
	}
	_, err := request.Make[request.IgnoreResponse](ctx, request.Params{
		Method:     http.MethodPost,
		URL:        s.cfg.DeployHookURL,
		HTTPClient: s.cfg.HTTPClient,
		Scrubber:   s.cfg.Scrubber,
	})
	return err
}
