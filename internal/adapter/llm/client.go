// Package llm provides the Azure OpenAI chat completions client used to
// answer document questions grounded on a search index.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// semanticConfiguration is the semantic ranking configuration of the
// search index.
const semanticConfiguration = "pr1semantic"

// Fixed sampling parameters for document answers.
const (
	defaultMaxTokens   = 1000
	defaultTemperature = 0.7
	defaultTopP        = 0.95
)

// Client calls the Azure OpenAI chat completions API for one deployment.
type Client struct {
	endpoint   string
	deployment string
	apiVersion string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the given deployment.
func NewClient(endpoint, deployment, apiVersion, apiKey string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		deployment: deployment,
		apiVersion: apiVersion,
		apiKey:     apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ChatCompletionRequest represents the chat completion request body.
type ChatCompletionRequest struct {
	Messages         []ChatMessage `json:"messages"`
	MaxTokens        *int          `json:"max_tokens,omitempty"`
	Temperature      *float64      `json:"temperature,omitempty"`
	TopP             *float64      `json:"top_p,omitempty"`
	FrequencyPenalty *float64      `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64      `json:"presence_penalty,omitempty"`
	Stop             interface{}   `json:"stop,omitempty"`
	Stream           bool          `json:"stream"`
	DataSources      []DataSource  `json:"data_sources,omitempty"`
}

// ChatMessage represents a chat message. Context carries the citations
// attached to answers grounded on the search index; it is forwarded
// opaquely and never interpreted here.
type ChatMessage struct {
	Role    string          `json:"role"`
	Content string          `json:"content"`
	Context json.RawMessage `json:"context,omitempty"`
}

// DataSource attaches a retrieval source to the completion request.
type DataSource struct {
	Type       string                `json:"type"`
	Parameters AzureSearchParameters `json:"parameters"`
}

// AzureSearchParameters configures retrieval from the search index. The
// service interprets these; this client only serializes them.
type AzureSearchParameters struct {
	Filter                *string              `json:"filter"`
	Endpoint              string               `json:"endpoint"`
	IndexName             string               `json:"index_name"`
	SemanticConfiguration string               `json:"semantic_configuration"`
	Authentication        Authentication       `json:"authentication"`
	EmbeddingDependency   *EmbeddingDependency `json:"embedding_dependency,omitempty"`
	QueryType             string               `json:"query_type"`
	InScope               bool                 `json:"in_scope"`
	Strictness            int                  `json:"strictness"`
	TopNDocuments         int                  `json:"top_n_documents"`
}

// Authentication is an api-key credential for a retrieval source.
type Authentication struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

// EmbeddingDependency points vector retrieval at an embeddings endpoint.
type EmbeddingDependency struct {
	Type           string         `json:"type"`
	Endpoint       string         `json:"endpoint"`
	Authentication Authentication `json:"authentication"`
}

// ChatCompletionResponse represents the chat completion response.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice represents a completion choice.
type Choice struct {
	Index        int          `json:"index"`
	Message      *ChatMessage `json:"message,omitempty"`
	FinishReason string       `json:"finish_reason,omitempty"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// APIError represents the error details.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}

// SearchConfig identifies the search index that completions are grounded
// on. SubscriptionKey authenticates the embedding dependency; it is the
// same key the completion endpoint uses.
type SearchConfig struct {
	Endpoint          string
	IndexName         string
	Key               string
	EmbeddingEndpoint string
	SubscriptionKey   string
}

// NewDocumentRequest builds a completion request with the fixed sampling
// parameters and the search index attached as a data source.
func NewDocumentRequest(messages []ChatMessage, search SearchConfig) *ChatCompletionRequest {
	maxTokens := defaultMaxTokens
	temperature := defaultTemperature
	topP := defaultTopP
	noPenalty := 0.0

	return &ChatCompletionRequest{
		Messages:         messages,
		MaxTokens:        &maxTokens,
		Temperature:      &temperature,
		TopP:             &topP,
		FrequencyPenalty: &noPenalty,
		PresencePenalty:  &noPenalty,
		DataSources: []DataSource{
			{
				Type: "azure_search",
				Parameters: AzureSearchParameters{
					Filter:                nil,
					Endpoint:              search.Endpoint,
					IndexName:             search.IndexName,
					SemanticConfiguration: semanticConfiguration,
					Authentication: Authentication{
						Type: "api_key",
						Key:  search.Key,
					},
					EmbeddingDependency: &EmbeddingDependency{
						Type:     "endpoint",
						Endpoint: search.EmbeddingEndpoint,
						Authentication: Authentication{
							Type: "api_key",
							Key:  search.SubscriptionKey,
						},
					},
					QueryType:     "semantic",
					InScope:       true,
					Strictness:    1,
					TopNDocuments: 15,
				},
			},
		},
	}
}

// CreateChatCompletion sends a chat completion request (non-streaming).
func (c *Client) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	req.Stream = false

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s", c.endpoint, c.deployment, c.apiVersion)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return nil, fmt.Errorf("completion API error [%d]: %s (type: %s)", resp.StatusCode, errResp.Error.Message, errResp.Error.Type)
		}
		return nil, fmt.Errorf("completion API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result, nil
}

// setHeaders sets common request headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
}
