// Package config provides configuration for the document assistant service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort       int
	AllowedOrigins []string

	// Completion endpoint
	EndpointURL       string
	DeploymentName    string
	APIVersion        string
	AzureOpenAIAPIKey string
	LLMTimeout        time.Duration
	LLMMaxConcurrent  int
	LLMMaxRetries     int
	LLMRetryDelay     time.Duration

	// Search index
	SearchEndpoint    string
	SearchKey         string
	IndexName         string
	EmbeddingEndpoint string

	// Message store
	StoreDriver            string
	CosmosConnectionString string
	CosmosDatabase         string
	CosmosContainer        string
	SQLiteDSN              string

	// Startup behavior
	WarmUpOnStart bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:       getEnvInt("HTTP_PORT", 8000),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		EndpointURL:       getEnv("ENDPOINT_URL", ""),
		DeploymentName:    getEnv("DEPLOYMENT_NAME", ""),
		APIVersion:        getEnv("API_VERSION", "2024-05-01-preview"),
		AzureOpenAIAPIKey: getEnv("AZURE_OPENAI_API_KEY", ""),
		LLMTimeout:        time.Duration(getEnvInt("LLM_TIMEOUT_MS", 120000)) * time.Millisecond,
		LLMMaxConcurrent:  getEnvInt("LLM_MAX_CONCURRENT", 8),
		LLMMaxRetries:     getEnvInt("LLM_MAX_RETRIES", 3),
		LLMRetryDelay:     time.Duration(getEnvInt("LLM_RETRY_DELAY_MS", 2000)) * time.Millisecond,

		SearchEndpoint:    getEnv("SEARCH_ENDPOINT", ""),
		SearchKey:         getEnv("SEARCH_KEY", ""),
		IndexName:         getEnv("INDEX_NAME", ""),
		EmbeddingEndpoint: getEnv("EMBEDDING_ENDPOINT", ""),

		StoreDriver:            getEnv("STORE_DRIVER", "cosmos"),
		CosmosConnectionString: getEnv("COSMOS_CONNECTION_STRING", ""),
		CosmosDatabase:         getEnv("COSMOS_DB_NAME", "chatdb"),
		CosmosContainer:        getEnv("COSMOS_CONTAINER_NAME", "messages"),
		SQLiteDSN:              getEnv("SQLITE_DSN", "file:docchat.db?cache=shared&mode=rwc"),

		WarmUpOnStart: getEnvBool("WARM_UP_ON_START", false),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
