package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"

	"redditpulse/internal/models"
)

const (
	redditSearchToolName = "redditSearch"

	// Bounds the tool-call loop; mirrors the retry discipline used by the
	// HTTP clients.
	maxToolSteps         = 5
	completionRetries    = 3
	completionRetryPause = 2 * time.Second
)

const reviewSystemPrompt = `You are an expert product reviewer. You will be presented with reddit posts and comments about a product. Analyze them and produce a single JSON object only (no markdown, no code fences, no additional commentary) with the following exact schema:
{
  "rating": number (integer 1-10),
  "pros": string[],
  "cons": string[],
  "description": string
}
Rules:
- rating must be an integer between 1 and 10
- pros and cons should be concise bullet-style phrases (5-8 items combined preferred)
- description is a brief 2-3 sentence summary
Respond with JSON only.`

// PostFetcher is the pipeline entry point the redditSearch tool executes.
type PostFetcher interface {
	FetchRedditPosts(ctx context.Context, query string) []models.CanonicalPost
}

type Generator struct {
	client *openai.Client
	posts  PostFetcher
	model  string
}

func NewGenerator(client *openai.Client, posts PostFetcher, model string) *Generator {
	return &Generator{client: client, posts: posts, model: model}
}

var redditSearchTool = openai.ChatCompletionToolParam{
	Type: openai.F(openai.ChatCompletionToolTypeFunction),
	Function: openai.F(openai.FunctionDefinitionParam{
		Name:        openai.String(redditSearchToolName),
		Description: openai.String("Gets reddit posts and comments for a given query"),
		Parameters: openai.F(openai.FunctionParameters{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The product to search for",
				},
			},
			"required": []string{"query"},
		}),
	}),
}

// GenerateReview drives a bounded tool-calling chat loop: the model may
// call redditSearch (served by the pipeline) before emitting the strict
// JSON review object.
func (g *Generator) GenerateReview(ctx context.Context, productQuery string) (*models.ProductReview, error) {
	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(reviewSystemPrompt),
			openai.UserMessage(fmt.Sprintf("Write a review of %q based on recent Reddit discussion.", productQuery)),
		}),
		Model:       openai.F(openai.ChatModel(g.model)),
		Tools:       openai.F([]openai.ChatCompletionToolParam{redditSearchTool}),
		Temperature: openai.Float(0.5),
	}

	for step := 0; step < maxToolSteps; step++ {
		completion, err := g.complete(ctx, params)
		if err != nil {
			return nil, err
		}

		message := completion.Choices[0].Message
		if len(message.ToolCalls) == 0 {
			return parseReview(message.Content)
		}

		params.Messages.Value = append(params.Messages.Value, message)
		for _, call := range message.ToolCalls {
			params.Messages.Value = append(params.Messages.Value,
				openai.ToolMessage(call.ID, g.runTool(ctx, call)))
		}
	}

	return nil, errors.New("[ReviewGenerator] tool loop exhausted without a final review")
}

func (g *Generator) complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	var lastErr error
	for attempt := 1; attempt <= completionRetries; attempt++ {
		completion, err := g.client.Chat.Completions.New(ctx, params)
		if err == nil && len(completion.Choices) > 0 {
			return completion, nil
		}
		if err == nil {
			err = errors.New("empty completion response")
		}
		lastErr = err
		slog.Warn("[ReviewGenerator] Completion failed, retrying",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		time.Sleep(completionRetryPause)
	}
	return nil, fmt.Errorf("[ReviewGenerator] completion failed after %d attempts: %w", completionRetries, lastErr)
}

func (g *Generator) runTool(ctx context.Context, call openai.ChatCompletionMessageToolCall) string {
	if call.Function.Name != redditSearchToolName {
		slog.Warn("[ReviewGenerator] Model requested unknown tool", slog.String("tool", call.Function.Name))
		return `{"error":"unknown tool"}`
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil || args.Query == "" {
		slog.Warn("[ReviewGenerator] Bad tool arguments, ignoring call",
			slog.String("arguments", call.Function.Arguments))
		return `{"error":"missing query argument"}`
	}

	slog.Info("[ReviewGenerator] Executing redditSearch tool", slog.String("query", args.Query))
	posts := g.posts.FetchRedditPosts(ctx, args.Query)

	payload, err := json.Marshal(map[string]interface{}{
		"query": args.Query,
		"posts": posts,
	})
	if err != nil {
		return `{"error":"failed to encode posts"}`
	}
	return string(payload)
}

// cleanResponse strips markdown code fences the model sometimes wraps
// around its JSON despite instructions.
func cleanResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}

	return strings.TrimSpace(cleaned)
}

func parseReview(content string) (*models.ProductReview, error) {
	cleaned := cleanResponse(content)
	if !strings.HasPrefix(cleaned, "{") || !strings.HasSuffix(cleaned, "}") {
		return nil, fmt.Errorf("[ReviewGenerator] response is not a JSON object: %.100s", cleaned)
	}

	var r models.ProductReview
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return nil, fmt.Errorf("[ReviewGenerator] failed to unmarshal review: %w", err)
	}
	if r.Rating < 1 || r.Rating > 10 {
		return nil, fmt.Errorf("[ReviewGenerator] rating %d outside 1-10", r.Rating)
	}
	return &r, nil
}
