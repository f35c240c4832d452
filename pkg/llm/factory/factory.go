package factory

import (
	"fmt"
	"time"

	"code-concierge-be/pkg/llm"
	"code-concierge-be/pkg/llm/ollama"
	"code-concierge-be/pkg/llm/openai"
)

type Config struct {
	Provider      string // "openai", "openrouter" or "ollama"
	Model         string
	BaseURL       string
	APIKey        string
	OllamaBaseURL string
	Timeout       time.Duration
	Referer       string
	Title         string
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "openai", "openrouter":
		return openai.NewProvider(openai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
			Referer: cfg.Referer,
			Title:   cfg.Title,
		}), nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
