package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "DOCCHAT_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewCompletionClient creates a completion client based on the
// DOCCHAT_MODE environment variable. If DOCCHAT_MODE=MOCK, returns a
// MockClient; otherwise returns a real Client.
func NewCompletionClient(endpoint, deployment, apiVersion, apiKey string, timeout time.Duration) CompletionClient {
	mode := os.Getenv(EnvMode)

	if mode == ModeMock {
		log.Println("DOCCHAT_MODE=MOCK detected, using mock completion client")
		return NewMockClient()
	}

	return NewClient(endpoint, deployment, apiVersion, apiKey, timeout)
}
