package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/openai/openai-go"

	"redditpulse/config"
	"redditpulse/internal/clients"
	"redditpulse/internal/logging"
	"redditpulse/internal/models"
	"redditpulse/internal/pipeline"
	"redditpulse/internal/review"
	"redditpulse/internal/sentiment"
)

type output struct {
	Query     string                  `json:"query"`
	Posts     []models.CanonicalPost  `json:"posts"`
	Sentiment []models.SentimentPoint `json:"sentiment"`
	Review    *models.ProductReview   `json:"review,omitempty"`
}

func main() {
	query := flag.String("query", "", "product to search Reddit for")
	env := flag.String("env", "development", "environment name")
	withReview := flag.Bool("review", false, "generate a product review with OpenAI")
	model := flag.String("model", string(openai.ChatModelGPT4oMini), "model used for review generation")
	flag.Parse()

	logging.InitLogger()
	config.LoadEnv(*env)

	if *query == "" {
		fmt.Fprintln(os.Stderr, "usage: redditpulse -query <product> [-review] [-model <model>]")
		os.Exit(2)
	}

	ctx := context.Background()
	p := pipeline.New(clients.GetSearchClient(), clients.GetRedditClient(), sentiment.NewAnalyzer())

	posts := p.FetchRedditPosts(ctx, *query)
	series := p.SentimentSeries(posts)

	out := output{Query: *query, Posts: posts, Sentiment: series}

	if *withReview {
		generator := review.NewGenerator(clients.GetAIClient().Client, p, *model)
		r, err := generator.GenerateReview(ctx, *query)
		if err != nil {
			slog.Error("[Main] Review generation failed", slog.String("error", err.Error()))
		} else {
			out.Review = r
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		slog.Error("[Main] Failed to encode output", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
