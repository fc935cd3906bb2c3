package clients

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openAIRequestTimeout = 60 * time.Second

var (
	aiClientInstance *AIClient
	aiClientOnce     sync.Once
)

type AIClient struct {
	Client *openai.Client
}

func GetAIClient() *AIClient {
	aiClientOnce.Do(func() {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			slog.Warn("[AIClient] OPENAI_API_KEY not set, review generation will fail")
		}
		aiClientInstance = &AIClient{
			Client: openai.NewClient(
				option.WithAPIKey(apiKey),
				option.WithRequestTimeout(openAIRequestTimeout),
			),
		}
	})
	return aiClientInstance
}
