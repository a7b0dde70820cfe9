// Package service orchestrates chat turns: history persistence, prompt
// assembly and the retrying completion call.
package service

import (
	"golang.org/x/sync/semaphore"

	"github.com/xiaot623/docchat/config"
	"github.com/xiaot623/docchat/internal/adapter/llm"
	"github.com/xiaot623/docchat/internal/store"
)

// contextWindow is the number of stored messages included in each prompt.
const contextWindow = 5

type Service struct {
	history   *store.History
	llmClient llm.CompletionClient
	search    llm.SearchConfig
	retrier   Retrier

	// completions caps concurrent upstream calls. Retry delays do not
	// hold a slot.
	completions *semaphore.Weighted
}

func New(history *store.History, llmClient llm.CompletionClient, cfg *config.Config) *Service {
	maxConcurrent := cfg.LLMMaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &Service{
		history:   history,
		llmClient: llmClient,
		search: llm.SearchConfig{
			Endpoint:          cfg.SearchEndpoint,
			IndexName:         cfg.IndexName,
			Key:               cfg.SearchKey,
			EmbeddingEndpoint: cfg.EmbeddingEndpoint,
			SubscriptionKey:   cfg.AzureOpenAIAPIKey,
		},
		retrier: Retrier{
			MaxAttempts: cfg.LLMMaxRetries,
			Delay:       cfg.LLMRetryDelay,
		},
		completions: semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// StoreEnabled reports whether message persistence is active.
func (s *Service) StoreEnabled() bool {
	return s.history.Enabled()
}
