package pipeline

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"redditpulse/internal/clients"
	"redditpulse/internal/extraction"
	"redditpulse/internal/models"
	"redditpulse/internal/sentiment"
)

type Searcher interface {
	Search(ctx context.Context, query string) []models.CandidateLink
}

type Fetcher interface {
	FetchPostJSONWithRetry(ctx context.Context, link string) ([]models.RedditListing, error)
}

// Pipeline wires discovery, retrieval, extraction, and sentiment scoring
// into the two entry points the orchestration layer consumes. Neither
// entry point ever returns an error; failures degrade to placeholder data.
type Pipeline struct {
	search   Searcher
	reddit   Fetcher
	analyzer *sentiment.Analyzer

	// Jitter between successive candidate fetches.
	minItemPause time.Duration
	maxItemPause time.Duration
}

func New(search Searcher, reddit Fetcher, analyzer *sentiment.Analyzer) *Pipeline {
	return &Pipeline{
		search:       search,
		reddit:       reddit,
		analyzer:     analyzer,
		minItemPause: 2 * time.Second,
		maxItemPause: 4 * time.Second,
	}
}

func placeholderPosts() []models.CanonicalPost {
	return []models.CanonicalPost{{
		Title:    "No posts found",
		Post:     "No posts found",
		Comments: []string{"No posts found"},
	}}
}

// FetchRedditPosts discovers candidate threads for the query and fetches
// and extracts each one in turn. Candidates are processed strictly
// sequentially with jittered pacing; a candidate that exhausts all URL
// variations and retries is skipped, never fatal.
func (p *Pipeline) FetchRedditPosts(ctx context.Context, query string) []models.CanonicalPost {
	slog.Info("[Pipeline] Starting Reddit search", slog.String("query", query))

	var candidates []models.CandidateLink
	for _, link := range p.search.Search(ctx, query) {
		if clients.IsRedditLink(link.URL) {
			candidates = append(candidates, link)
		}
	}

	if len(candidates) == 0 {
		slog.Warn("[Pipeline] No Reddit candidates found", slog.String("query", query))
		return placeholderPosts()
	}

	slog.Info("[Pipeline] Processing Reddit links", slog.Int("count", len(candidates)))

	var posts []models.CanonicalPost
	for i, candidate := range candidates {
		if i > 0 {
			pause(p.minItemPause, p.maxItemPause)
		}

		listings, err := p.reddit.FetchPostJSONWithRetry(ctx, candidate.URL)
		if err != nil {
			slog.Warn("[Pipeline] Skipping candidate after failed retrieval",
				slog.String("url", candidate.URL),
				slog.String("error", err.Error()))
			continue
		}

		post := extraction.ExtractPostCore(listings)
		posts = append(posts, post)
		slog.Info("[Pipeline] Processed Reddit post", slog.String("title", post.Title))
	}

	if len(posts) == 0 {
		slog.Warn("[Pipeline] No Reddit posts could be processed", slog.String("query", query))
		return placeholderPosts()
	}

	slog.Info("[Pipeline] Finished processing posts",
		slog.Int("processed", len(posts)),
		slog.Int("candidates", len(candidates)))
	return posts
}

// SentimentSeries scores the posts for the charting surface.
func (p *Pipeline) SentimentSeries(posts []models.CanonicalPost) []models.SentimentPoint {
	return p.analyzer.Series(posts)
}

func pause(min, max time.Duration) {
	if max <= min {
		if min > 0 {
			time.Sleep(min)
		}
		return
	}
	time.Sleep(min + time.Duration(rand.Int63n(int64(max-min))))
}
