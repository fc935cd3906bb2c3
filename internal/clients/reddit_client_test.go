package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingBody = `[
	{"kind":"Listing","data":{"children":[{"kind":"t3","data":{"title":"Great product","selftext":"Works well"}}]}},
	{"kind":"Listing","data":{"children":[{"kind":"t1","data":{"body":"Love it","score":10}}]}}
]`

func newTestRedditClient() *RedditClient {
	return &RedditClient{Client: &http.Client{}}
}

func TestIsRedditLink(t *testing.T) {
	assert.True(t, IsRedditLink("https://www.reddit.com/r/x/comments/abc/title/"))
	assert.True(t, IsRedditLink("https://old.reddit.com/r/x/comments/abc/title/"))
	assert.True(t, IsRedditLink("https://reddit.com/r/x"))
	assert.False(t, IsRedditLink("https://notreddit.com/r/x"))
	assert.False(t, IsRedditLink("https://reddit.com.evil.com/r/x"))
	assert.False(t, IsRedditLink("https://example.com/reddit.com"))
	assert.False(t, IsRedditLink("::not a url::"))
	assert.False(t, IsRedditLink(""))
}

func TestFetchPostJSON_FirstVariationSucceeds(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		// Mislabeled content type; the body must still be parsed as JSON.
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(listingBody))
	}))
	defer server.Close()

	listings, err := newTestRedditClient().FetchPostJSON(context.Background(), server.URL+"/r/x/comments/abc/title/")

	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())
	require.Len(t, listings, 2)
	assert.Equal(t, "Great product", listings[0].Data.Children[0].Data.Title)
}

func TestFetchPostJSON_AdvancesPastBadStatus(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			http.Error(w, "blocked", http.StatusForbidden)
			return
		}
		w.Write([]byte(listingBody))
	}))
	defer server.Close()

	listings, err := newTestRedditClient().FetchPostJSON(context.Background(), server.URL+"/r/x/comments/abc/title/")

	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load())
	require.Len(t, listings, 2)
}

func TestFetchPostJSON_AdvancesPastUnparseableBody(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("<html>rate limited</html>"))
			return
		}
		w.Write([]byte(listingBody))
	}))
	defer server.Close()

	listings, err := newTestRedditClient().FetchPostJSON(context.Background(), server.URL+"/r/x/comments/abc/title/")

	require.NoError(t, err)
	require.Len(t, listings, 2)
}

func TestFetchPostJSON_AllVariationsFail(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestRedditClient().FetchPostJSON(context.Background(), server.URL+"/r/x/comments/abc/title/")

	var retrievalErr *RetrievalError
	require.ErrorAs(t, err, &retrievalErr)
	assert.Equal(t, 5, retrievalErr.VariationsTried)
	assert.Equal(t, int32(5), requests.Load())
}

func TestFetchPostJSONWithRetry_RetriesFullVariationPass(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	rc := newTestRedditClient()
	_, err := rc.FetchPostJSONWithRetry(context.Background(), server.URL+"/r/x/comments/abc/title/")

	var retrievalErr *RetrievalError
	require.ErrorAs(t, err, &retrievalErr)
	// Initial pass plus MAX_RETRIES extra passes over all five variations.
	assert.Equal(t, int32(5*(MAX_RETRIES+1)), requests.Load())
}

func TestFetchPostJSONWithRetry_SucceedsOnSecondPass(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) <= 5 {
			http.Error(w, "blocked", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(listingBody))
	}))
	defer server.Close()

	listings, err := newTestRedditClient().FetchPostJSONWithRetry(context.Background(), server.URL+"/r/x/comments/abc/title/")

	require.NoError(t, err)
	require.Len(t, listings, 2)
}

func TestFetchPostJSON_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestRedditClient().FetchPostJSON(context.Background(), server.URL+"/r/x/comments/abc/title/")

	var retrievalErr *RetrievalError
	require.True(t, errors.As(err, &retrievalErr))
}

func TestURLVariations(t *testing.T) {
	variations := urlVariations("https://www.reddit.com/r/x/comments/abc/title/")

	require.Len(t, variations, 5)
	assert.Equal(t, "https://www.reddit.com/r/x/comments/abc/title/.json", variations[0])
	assert.Equal(t, "https://old.reddit.com/r/x/comments/abc/title/.json", variations[1])
	assert.Equal(t, "https://www.reddit.com/r/x/comments/abc/title/.json?raw_json=1", variations[2])
	assert.Equal(t, "https://www.reddit.com/r/x/comments/abc/title/.json?limit=100", variations[3])
	assert.Equal(t, "https://i.reddit.com/r/x/comments/abc/title/.json", variations[4])
}

func TestUserAgent_OverrideWins(t *testing.T) {
	rc := &RedditClient{UserAgent: "custom-agent/1.0"}
	assert.Equal(t, "custom-agent/1.0", rc.userAgent())
}

func TestUserAgent_RotatesFromPool(t *testing.T) {
	rc := &RedditClient{}
	assert.Contains(t, USER_AGENTS, rc.userAgent())
}
