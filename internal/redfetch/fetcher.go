package redfetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// Sentinel errors callers branch on.
var (
	ErrUserNotFound = errors.New("reddit user not found")
	ErrAuthFailed   = errors.New("reddit authentication failed (check REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET)")
)

// Fetcher retrieves a user's recent submissions and comments.
type Fetcher struct {
	client      *http.Client
	baseURL     string
	maxPosts    int
	maxComments int
}

// NewFetcher returns a Fetcher authenticated as a script-type app.
// The context scopes the token source; use the same one passed to Fetch.
func NewFetcher(ctx context.Context, clientID, clientSecret, userAgent string, maxPosts, maxComments int) *Fetcher {
	return &Fetcher{
		client:      newRedditClient(ctx, clientID, clientSecret, userAgent),
		baseURL:     apiBase,
		maxPosts:    maxPosts,
		maxComments: maxComments,
	}
}

// ExtractUsername accepts a bare username, a u/ or /u/ prefixed one,
// or a full profile URL, and returns the username.
func ExtractUsername(input string) (string, error) {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		u, err := url.Parse(input)
		if err != nil {
			return "", fmt.Errorf("parsing profile URL: %w", err)
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i, p := range parts {
			if (p == "user" || p == "u") && i+1 < len(parts) {
				return parts[i+1], nil
			}
		}
		return "", fmt.Errorf("could not extract username from URL %q", input)
	}
	input = strings.TrimPrefix(input, "/")
	input = strings.TrimPrefix(input, "u/")
	if input == "" {
		return "", errors.New("empty username")
	}
	return input, nil
}

// Fetch retrieves up to the configured number of the user's newest
// submissions and comments, in the order Reddit returns them
// (newest first, no re-sorting).
func (f *Fetcher) Fetch(ctx context.Context, username string) (*Result, error) {
	result := &Result{Username: username}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		posts, err := f.fetchListing(gCtx, username, "submitted", f.maxPosts)
		if err != nil {
			return fmt.Errorf("fetching submissions: %w", err)
		}
		result.Posts = posts
		return nil
	})
	g.Go(func() error {
		comments, err := f.fetchListing(gCtx, username, "comments", f.maxComments)
		if err != nil {
			return fmt.Errorf("fetching comments: %w", err)
		}
		result.Comments = comments
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// fetchListing pages through /user/<name>/<feed> until limit items
// are collected or the listing ends.
func (f *Fetcher) fetchListing(ctx context.Context, username, feed string, limit int) ([]Item, error) {
	var items []Item
	after := ""
	for len(items) < limit {
		page := min(limit-len(items), 100)
		reqURL := fmt.Sprintf("%s/user/%s/%s?limit=%d&sort=new&raw_json=1",
			f.baseURL, url.PathEscape(username), feed, page)
		if after != "" {
			reqURL += "&after=" + url.QueryEscape(after)
		}

		l, err := f.getListing(ctx, reqURL)
		if err != nil {
			return nil, err
		}
		for _, child := range l.Data.Children {
			items = append(items, child.toItem())
			if len(items) == limit {
				break
			}
		}
		if l.Data.After == "" || len(l.Data.Children) == 0 {
			break
		}
		after = l.Data.After
	}
	return items, nil
}

func (f *Fetcher) getListing(ctx context.Context, rawURL string) (*listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return nil, fmt.Errorf("%w: token endpoint returned status %d", ErrAuthFailed, rerr.Response.StatusCode)
		}
		return nil, fmt.Errorf("reddit request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrUserNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("reddit returned status %d: %s", resp.StatusCode, string(body))
	}

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, fmt.Errorf("decoding reddit listing: %w", err)
	}
	return &l, nil
}
