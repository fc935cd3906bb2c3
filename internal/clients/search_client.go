package clients

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"

	"redditpulse/internal/models"
)

const (
	GOOGLE_CSE_ENDPOINT = "https://www.googleapis.com/customsearch/v1"
	MAX_SEARCH_RESULTS  = 5
)

var (
	searchClientInstance *SearchClient
	searchClientOnce     sync.Once
)

type SearchClient struct {
	Client   *http.Client
	Endpoint string
	APIKey   string
	EngineID string
}

func GetSearchClient() *SearchClient {
	searchClientOnce.Do(func() {
		searchClientInstance = &SearchClient{
			Client:   &http.Client{},
			Endpoint: GOOGLE_CSE_ENDPOINT,
			APIKey:   os.Getenv("GOOGLE_API_KEY"),
			EngineID: os.Getenv("GOOGLE_CSE_ID"),
		}
	})
	return searchClientInstance
}

// Search asks Google CSE for Reddit threads discussing the query. It fails
// soft: missing credentials, transport errors, bad statuses, and decode
// failures all produce an empty slice so the pipeline can degrade to its
// placeholder instead of aborting.
func (s *SearchClient) Search(ctx context.Context, query string) []models.CandidateLink {
	if s.APIKey == "" || s.EngineID == "" {
		slog.Warn("[SearchClient] Missing Google CSE credentials, skipping search")
		return []models.CandidateLink{}
	}

	u, err := url.Parse(s.Endpoint)
	if err != nil {
		slog.Error("[SearchClient] Failed to parse endpoint", slog.String("error", err.Error()))
		return []models.CandidateLink{}
	}
	params := u.Query()
	params.Set("key", s.APIKey)
	params.Set("cx", s.EngineID)
	params.Set("q", query+" site:reddit.com")
	params.Set("num", strconv.Itoa(MAX_SEARCH_RESULTS))
	u.RawQuery = params.Encode()

	ctx, cancel := context.WithTimeout(ctx, SEARCH_TIMEOUT)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		slog.Error("[SearchClient] Failed to build request", slog.String("error", err.Error()))
		return []models.CandidateLink{}
	}

	slog.Info("[SearchClient] Searching Google CSE", slog.String("query", query))
	res, err := s.Client.Do(req)
	if err != nil {
		slog.Warn("[SearchClient] Search request failed", slog.String("error", err.Error()))
		return []models.CandidateLink{}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		slog.Warn("[SearchClient] Search request returned bad status",
			slog.Int("status", res.StatusCode))
		return []models.CandidateLink{}
	}

	var response models.GoogleSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		slog.Warn("[SearchClient] Failed to decode search response", slog.String("error", err.Error()))
		return []models.CandidateLink{}
	}

	items := response.Items
	if len(items) > MAX_SEARCH_RESULTS {
		items = items[:MAX_SEARCH_RESULTS]
	}

	links := make([]models.CandidateLink, 0, len(items))
	for _, item := range items {
		links = append(links, models.CandidateLink{Title: item.Title, URL: item.Link})
	}

	slog.Info("[SearchClient] Search complete", slog.Int("results", len(links)))
	return links
}
