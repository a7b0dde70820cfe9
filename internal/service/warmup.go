package service

import (
	"context"
	"log"

	"github.com/xiaot623/docchat/internal/adapter/llm"
)

const (
	warmUpQuestion = "What is this document about?"
	warmUpSession  = "warmup-session"
)

// WarmUp primes the retrieval and completion path with one synthetic
// turn. Nothing is persisted and a single attempt is made; failures are
// logged and reported as false rather than propagated.
func (s *Service) WarmUp(ctx context.Context) bool {
	req := llm.NewDocumentRequest(s.buildPrompt(ctx, warmUpSession, warmUpQuestion), s.search)

	retrier := s.retrier
	retrier.MaxAttempts = 1

	if _, err := retrier.Run(ctx, func(ctx context.Context) (string, error) {
		return s.completeOnce(ctx, req)
	}); err != nil {
		log.Printf("WARN: warm-up failed: %v", err)
		return false
	}
	return true
}
