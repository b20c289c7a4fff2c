package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Provider names accepted in LLMConfig.Provider. "auto" resolves to a
// concrete provider at load time based on which credentials are present.
const (
	ProviderAuto      = "auto"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

type LLMConfig struct {
	Provider        string `toml:"provider"`
	FastModel       string `toml:"fast_model"`
	CapableModel    string `toml:"capable_model"`
	VisionModel     string `toml:"vision_model"`
	MaxOutputTokens int    `toml:"max_output_tokens"`

	OpenAIAPIKey    string `toml:"openai_api_key"`
	OpenAIBaseURL   string `toml:"openai_base_url"`
	AnthropicAPIKey string `toml:"anthropic_api_key"`
	GeminiAPIKey    string `toml:"gemini_api_key"`
	OllamaURL       string `toml:"ollama_url"`
	OllamaAPIKey    string `toml:"ollama_api_key"`

	// Sustained request rate applied across all completion calls.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

type APIConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

type WorkerConfig struct {
	Concurrency  int    `toml:"concurrency"`
	MaxRetries   int    `toml:"max_retries"`
	QueueName    string `toml:"queue_name"`
	PollInterval int    `toml:"poll_interval_seconds"`
	HealthAddr   string `toml:"health_addr"`
}

type Config struct {
	LLM    LLMConfig    `toml:"llm"`
	API    APIConfig    `toml:"api"`
	Worker WorkerConfig `toml:"worker"`
}

// Load reads the TOML config at path (a missing file is not an error),
// applies environment overrides, fills defaults, and resolves the LLM
// provider. An invalid explicit provider is returned as an error so the
// caller can treat it as fatal.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config '%s': %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	provider, err := resolveProvider(cfg.LLM)
	if err != nil {
		return nil, err
	}
	cfg.LLM.Provider = provider

	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrideString(&c.LLM.Provider, "EXTRACTOR_PROVIDER")
	overrideString(&c.LLM.FastModel, "EXTRACTOR_MODEL_FAST")
	overrideString(&c.LLM.CapableModel, "EXTRACTOR_MODEL_CAPABLE")
	overrideString(&c.LLM.VisionModel, "EXTRACTOR_MODEL_VISION")
	overrideInt(&c.LLM.MaxOutputTokens, "EXTRACTOR_MAX_OUTPUT_TOKENS")

	overrideString(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	overrideString(&c.LLM.OpenAIBaseURL, "OPENAI_BASE_URL")
	overrideString(&c.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	overrideString(&c.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	overrideString(&c.LLM.OllamaURL, "OLLAMA_URL")
	overrideString(&c.LLM.OllamaAPIKey, "OLLAMA_API_KEY")

	overrideString(&c.API.URL, "API_URL")
	overrideString(&c.API.Token, "API_TOKEN")

	overrideInt(&c.Worker.Concurrency, "WORKER_CONCURRENCY")
	overrideInt(&c.Worker.MaxRetries, "WORKER_MAX_RETRIES")
	overrideString(&c.Worker.QueueName, "WORKER_QUEUE")
	overrideString(&c.Worker.HealthAddr, "WORKER_HEALTH_ADDR")
}

func (c *Config) applyDefaults() {
	if c.LLM.FastModel == "" {
		c.LLM.FastModel = "gpt-4.1-mini"
	}
	if c.LLM.CapableModel == "" {
		c.LLM.CapableModel = "gpt-4.1-mini"
	}
	if c.LLM.VisionModel == "" {
		c.LLM.VisionModel = "gpt-4.1-mini"
	}
	if c.LLM.MaxOutputTokens <= 0 {
		c.LLM.MaxOutputTokens = 16384
	}
	if c.LLM.OpenAIBaseURL == "" {
		c.LLM.OpenAIBaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.OllamaURL == "" {
		c.LLM.OllamaURL = "http://localhost:11434"
	}
	if c.LLM.RequestsPerSecond <= 0 {
		c.LLM.RequestsPerSecond = 4.0
	}
	if c.API.URL == "" {
		c.API.URL = "http://localhost:3000"
	}
	if c.Worker.Concurrency <= 0 {
		c.Worker.Concurrency = 4
	}
	if c.Worker.MaxRetries <= 0 {
		c.Worker.MaxRetries = 3
	}
	if c.Worker.QueueName == "" {
		c.Worker.QueueName = "enrichment"
	}
	if c.Worker.PollInterval <= 0 {
		c.Worker.PollInterval = 2
	}
	if c.Worker.HealthAddr == "" {
		c.Worker.HealthAddr = ":8090"
	}
}

// resolveProvider maps "auto" (or empty) to a concrete provider by
// credential presence: OpenAI key, then Anthropic, then Gemini, then the
// local Ollama fallback which needs no credential.
func resolveProvider(llm LLMConfig) (string, error) {
	provider := strings.ToLower(strings.TrimSpace(llm.Provider))

	switch provider {
	case "", ProviderAuto:
		if llm.OpenAIAPIKey != "" {
			return ProviderOpenAI, nil
		}
		if llm.AnthropicAPIKey != "" {
			return ProviderAnthropic, nil
		}
		if llm.GeminiAPIKey != "" {
			return ProviderGemini, nil
		}
		return ProviderOllama, nil
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama:
		return provider, nil
	default:
		return "", fmt.Errorf("invalid llm provider %q: expected one of auto, openai, anthropic, gemini, ollama", llm.Provider)
	}
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
