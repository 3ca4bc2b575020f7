// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package contents provides a client for the file-content part of the
// GitHub repository contents API.
//
// Writes follow the API's optimistic concurrency model: the file's current
// revision marker (blob SHA) is read immediately before each write and sent
// along with the new content to avoid blind overwrites.
package contents

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.astrophena.name/nooti/internal/request"
)

const ghAPI = "https://api.github.com"

// Client represents a GitHub repository contents API client.
type Client struct {
	// Token is the GitHub access token used for authentication.
	Token string
	// HTTPClient is an optional custom HTTP client object to use for requests.
	// If not provided, request.DefaultClient will be used.
	HTTPClient *http.Client
	// Scrubber is an optional strings.Replacer that scrubs unwanted data from
	// error messages.
	Scrubber *strings.Replacer
}

// File is a file retrieved from a repository.
type File struct {
	// Content is the decoded file content.
	Content []byte
	// SHA is the file's revision marker, passed back on writes.
	SHA string
}

// ErrNotFound is returned by [Client.Get] when the file doesn't exist.
var ErrNotFound = errors.New("contents: file not found")

func (c *Client) headers() map[string]string {
	h := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if c.Token != "" {
		h["Authorization"] = "Bearer " + c.Token
	}
	return h
}

func fileURL(owner, repo, path, ref string) string {
	u := ghAPI + "/repos/" + owner + "/" + repo + "/contents/" + path
	if ref != "" {
		u += "?ref=" + url.QueryEscape(ref)
	}
	return u
}

// Get retrieves a file from the given branch of a repository. It returns
// [ErrNotFound] if the file doesn't exist.
func (c *Client) Get(ctx context.Context, owner, repo, path, branch string) (*File, error) {
	resp, err := request.Make[struct {
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}](ctx, request.Params{
		Method:     http.MethodGet,
		URL:        fileURL(owner, repo, path, branch),
		Headers:    c.headers(),
		HTTPClient: c.HTTPClient,
		Scrubber:   c.Scrubber,
	})
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// The API wraps base64 content across lines.
	content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("contents: decoding %s: %w", path, err)
	}

	return &File{Content: content, SHA: resp.SHA}, nil
}

// PutParams defines the parameters of [Client.Put].
type PutParams struct {
	// Message is the commit message.
	Message string
	// Content is the raw new file content; it is base64-encoded on the wire.
	Content []byte
	// Branch is the target branch.
	Branch string
	// SHA is the revision marker of the file being replaced. Leave empty when
	// creating a new file.
	SHA string
}

// Put creates or updates a file in a repository.
func (c *Client) Put(ctx context.Context, owner, repo, path string, p PutParams) error {
	body := map[string]string{
		"message": p.Message,
		"content": base64.StdEncoding.EncodeToString(p.Content),
	}
	if p.Branch != "" {
		body["branch"] = p.Branch
	}
	if p.SHA != "" {
		body["sha"] = p.SHA
	}

	_, err := request.Make[request.IgnoreResponse](ctx, request.Params{
		Method:     http.MethodPut,
		URL:        fileURL(owner, repo, path, ""),
		Headers:    c.headers(),
		Body:       body,
		HTTPClient: c.HTTPClient,
		Scrubber:   c.Scrubber,
	})
	return err
}

// RawURL returns the URL serving the raw content of a file, suitable for
// unauthenticated reads of public repositories.
func RawURL(owner, repo, branch, path string) string {
	return "https://raw.githubusercontent.com/" + owner + "/" + repo + "/" + branch + "/" + path
}
