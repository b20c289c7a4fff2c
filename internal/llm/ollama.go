package llm

import (
	"fmt"
	"strings"
)

// NewOllamaClient builds a client for a local OpenAI-compatible Ollama
// server. It is the remote OpenAI client with a different endpoint and
// credential resolution: prefer the dedicated Ollama key, then the OpenAI
// key, then a placeholder. Local servers usually ignore the credential,
// but the client config requires one, so construction never fails.
func NewOllamaClient(baseURL string, apiKey string, fallbackAPIKey string, models Models) *OpenAIClient {
	key := apiKey
	if key == "" {
		key = fallbackAPIKey
	}
	if key == "" {
		key = "not-required"
	}
	return NewOpenAIClient(key, normalizeOllamaBaseURL(baseURL), models)
}

// normalizeOllamaBaseURL ensures the URL points at the OpenAI-compatible
// /v1 endpoint.
func normalizeOllamaBaseURL(url string) string {
	stripped := strings.TrimRight(url, "/")
	if strings.HasSuffix(stripped, "/v1") {
		return stripped
	}
	return fmt.Sprintf("%s/v1", stripped)
}
