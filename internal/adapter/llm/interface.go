package llm

import "context"

// CompletionClient defines the interface for chat completion calls. The
// client performs no retries of its own; retry policy lives with the
// caller.
type CompletionClient interface {
	// CreateChatCompletion sends a chat completion request (non-streaming).
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// Ensure Client implements CompletionClient interface.
var _ CompletionClient = (*Client)(nil)
