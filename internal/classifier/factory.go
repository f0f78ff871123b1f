package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/agrisight/paddy/internal/config"
)

// NewClient builds the configured classifier provider. "mock" needs no
// credentials and is the default for local development.
func NewClient(ctx context.Context, cfg config.ClassifierConfig) (Client, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "", "mock":
		return NewMockClient(), nil

	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "claude":
		return NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)

	case "ollama":
		// Ollama speaks the OpenAI-compatible API under /v1.
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama" // required by the client, ignored by Ollama
		}
		return NewOpenAIClient(apiKey, cfg.Model, baseURL), nil

	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", provider)
	}
}
