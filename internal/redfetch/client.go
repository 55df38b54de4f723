package redfetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	tokenURL = "https://www.reddit.com/api/v1/access_token"
	apiBase  = "https://oauth.reddit.com"
)

// newRedditClient returns an http.Client that authenticates with
// Reddit's script-app client-credentials flow. The configured user
// agent goes on every request, token requests included; Reddit
// rejects library-default agents.
func newRedditClient(ctx context.Context, clientID, clientSecret, userAgent string) *http.Client {
	base := &userAgentTransport{agent: userAgent, base: http.DefaultTransport}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
		Transport: base,
		Timeout:   30 * time.Second,
	})
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	return &http.Client{
		Transport: &rateLimitTransport{
			base: &oauth2.Transport{
				Source: conf.TokenSource(ctx),
				Base:   base,
			},
		},
		Timeout: 30 * time.Second,
	}
}

type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.agent)
	return t.base.RoundTrip(clone)
}

// rateLimitTransport wraps an http.RoundTripper and pauses when
// Reddit's per-window quota runs out.
type rateLimitTransport struct {
	base http.RoundTripper
}

const maxRetries = 3

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := range maxRetries {
		resp, err = t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			// Proactively pause when the window is nearly spent.
			// Reddit reports the remaining quota as a float string.
			if remaining := resp.Header.Get("X-Ratelimit-Remaining"); remaining != "" {
				rem, parseErr := strconv.ParseFloat(remaining, 64)
				if parseErr == nil && rem <= 1 {
					resetSecs, parseErr := strconv.ParseFloat(resp.Header.Get("X-Ratelimit-Reset"), 64)
					if parseErr == nil && resetSecs > 0 && resetSecs < 600 {
						wait := time.Duration(resetSecs * float64(time.Second))
						slog.Warn("approaching reddit rate limit, pausing",
							"remaining", rem, "wait", wait.Round(time.Second))
						if err := sleepContext(req.Context(), wait+time.Second); err != nil {
							resp.Body.Close()
							return nil, err
						}
					}
				}
			}
			return resp, nil
		}

		secs, parseErr := strconv.Atoi(resp.Header.Get("Retry-After"))
		if parseErr != nil || secs <= 0 || secs >= 600 {
			return resp, nil
		}

		slog.Warn("rate limited by reddit, retrying", "retry_after", secs, "attempt", attempt+1)
		resp.Body.Close()
		if err := sleepContext(req.Context(), time.Duration(secs)*time.Second); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("reddit rate limit: retries exhausted after %d attempts", maxRetries)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
