package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/refinery/internal/config"
)

// NewClient builds the completion client for the resolved provider in cfg.
// cfg.Provider must already be concrete ("auto" is resolved by config.Load);
// an unknown provider is an error the caller treats as fatal.
func NewClient(ctx context.Context, cfg config.LLMConfig) (CompletionClient, error) {
	models := Models{
		Fast:    cfg.FastModel,
		Capable: cfg.CapableModel,
		Vision:  cfg.VisionModel,
	}

	switch strings.ToLower(cfg.Provider) {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, models), nil

	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg.AnthropicAPIKey, models), nil

	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, models)

	case config.ProviderOllama:
		return NewOllamaClient(cfg.OllamaURL, cfg.OllamaAPIKey, cfg.OpenAIAPIKey, models), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
