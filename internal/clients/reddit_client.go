package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"redditpulse/internal/models"
)

const REDDIT_AUTH_URL = "https://www.reddit.com/api/v1/access_token"

var (
	redditClientInstance *RedditClient
	redditClientOnce     sync.Once
)

// RetrievalError means every URL variation and every retry pass failed for
// one candidate link. The pipeline catches it per item and skips the item.
type RetrievalError struct {
	Link            string
	VariationsTried int
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to fetch Reddit data for %s after trying %d URL variations", e.Link, e.VariationsTried)
}

type RedditClient struct {
	Client *http.Client

	// UserAgent pins the client identity; empty means rotate USER_AGENTS.
	UserAgent string

	// Jitter before each dispatch and between URL variations, to keep a
	// human-looking request cadence.
	MinPace           time.Duration
	MaxPace           time.Duration
	MinVariationPause time.Duration
	MaxVariationPause time.Duration

	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration

	authenticated bool
}

func GetRedditClient() *RedditClient {
	redditClientOnce.Do(func() {
		redditClientInstance = NewRedditClient()
	})
	return redditClientInstance
}

// NewRedditClient builds a client from the environment. When Reddit OAuth
// client credentials are present the transport is an oauth2 client; the
// fetch logic is identical either way.
func NewRedditClient() *RedditClient {
	rc := &RedditClient{
		Client:            &http.Client{},
		UserAgent:         os.Getenv("OUTBOUND_USER_AGENT"),
		MinPace:           500 * time.Millisecond,
		MaxPace:           1500 * time.Millisecond,
		MinVariationPause: 1 * time.Second,
		MaxVariationPause: 2 * time.Second,
		RetryBackoff:      INITIAL_BACKOFF,
		MaxRetryBackoff:   MAX_BACKOFF,
	}

	clientID := os.Getenv("REDDIT_CLIENT_ID")
	clientSecret := os.Getenv("REDDIT_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		oauthConf := &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     REDDIT_AUTH_URL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		rc.Client = oauthConf.Client(context.Background())
		rc.authenticated = true
		slog.Info("[RedditClient] Using authenticated Reddit client")
	}

	return rc
}

func (rc *RedditClient) Authenticated() bool {
	return rc.authenticated
}

// IsRedditLink reports whether raw is a well-formed URL on reddit.com or
// one of its subdomains.
func IsRedditLink(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "reddit.com" || strings.HasSuffix(host, ".reddit.com")
}

// urlVariations lists the JSON endpoints tried for one thread link, in
// order: canonical, old-reddit mirror, raw_json, comment limit, mobile
// mirror. Host-side bot defenses rarely cover all of them at once.
func urlVariations(link string) []string {
	trimmed := strings.TrimRight(link, "/")
	return []string{
		trimmed + "/.json",
		strings.Replace(trimmed, "www.reddit.com", "old.reddit.com", 1) + "/.json",
		trimmed + "/.json?raw_json=1",
		trimmed + "/.json?limit=100",
		strings.Replace(trimmed, "www.reddit.com", "i.reddit.com", 1) + "/.json",
	}
}

func (rc *RedditClient) userAgent() string {
	if rc.UserAgent != "" {
		return rc.UserAgent
	}
	return USER_AGENTS[rand.Intn(len(USER_AGENTS))]
}

func sleepJitter(min, max time.Duration) {
	if max <= min {
		if min > 0 {
			time.Sleep(min)
		}
		return
	}
	time.Sleep(min + time.Duration(rand.Int63n(int64(max-min))))
}

// FetchPostJSON retrieves a thread's listings, walking the URL variations
// until one parses. Any non-2xx status, transport error, or JSON decode
// failure advances to the next variation.
func (rc *RedditClient) FetchPostJSON(ctx context.Context, link string) ([]models.RedditListing, error) {
	variations := urlVariations(link)

	for i, u := range variations {
		if i > 0 {
			sleepJitter(rc.MinVariationPause, rc.MaxVariationPause)
		}
		sleepJitter(rc.MinPace, rc.MaxPace)

		listings, err := rc.fetchOnce(ctx, u)
		if err != nil {
			slog.Warn("[RedditClient] Variation failed, trying next",
				slog.String("url", u),
				slog.String("error", err.Error()))
			continue
		}

		slog.Info("[RedditClient] Successfully fetched post JSON", slog.String("url", u))
		return listings, nil
	}

	return nil, &RetrievalError{Link: link, VariationsTried: len(variations)}
}

func (rc *RedditClient) fetchOnce(ctx context.Context, u string) ([]models.RedditListing, error) {
	ctx, cancel := context.WithTimeout(ctx, FETCH_TIMEOUT)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	rc.setBrowserHeaders(req)

	res, err := rc.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	// Reddit sometimes mislabels the content type, so the body is parsed
	// as JSON regardless of what the response declares.
	var listings []models.RedditListing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("parse body as JSON: %w", err)
	}

	return listings, nil
}

func (rc *RedditClient) setBrowserHeaders(req *http.Request) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("User-Agent", rc.userAgent())
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")
	req.Header.Set("Cache-Control", "max-age=0")
}

// FetchPostJSONWithRetry adds exponential backoff passes on top of the
// per-call variation loop.
func (rc *RedditClient) FetchPostJSONWithRetry(ctx context.Context, link string) ([]models.RedditListing, error) {
	var lastErr error
	backoff := rc.RetryBackoff

	for attempt := 0; attempt <= MAX_RETRIES; attempt++ {
		if attempt > 0 {
			slog.Warn("[RedditClient] Retrying fetch",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff))
			time.Sleep(backoff)
			backoff *= 2
			if backoff > rc.MaxRetryBackoff {
				backoff = rc.MaxRetryBackoff
			}
		}

		listings, err := rc.FetchPostJSON(ctx, link)
		if err == nil {
			return listings, nil
		}
		lastErr = err
	}

	return nil, lastErr
}
