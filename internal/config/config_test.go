package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_TYPE", "SQLite")
	t.Setenv("LLM_TIMEOUT_SECONDS", "15")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 15*time.Second, cfg.Ai.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, 5, cfg.Retrieval.MatrixLimit)
	assert.Equal(t, 3, cfg.Retrieval.MappingLimit)
	assert.Equal(t, 3, cfg.Retrieval.PdfLimit)
	assert.Equal(t, 500, cfg.Retrieval.SnippetLength)
	assert.Equal(t, time.Hour, cfg.Auth.DownloadTokenTTL)
}

func TestLoad_InvalidNumberFallsBack(t *testing.T) {
	t.Setenv("RETRIEVAL_MATRIX_LIMIT", "many")

	cfg := Load()

	assert.Equal(t, 5, cfg.Retrieval.MatrixLimit)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Type: "sqlite", Connection: "file::memory:"},
			Auth:     AuthConfig{JWTSecret: "secret"},
			Ai:       AIConfig{LLMProvider: "openai", LLMAPIKey: "key", Timeout: time.Second},
			Scraper:  ScraperConfig{Timeout: time.Second},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"unknown db type", func(c *Config) { c.Database.Type = "oracle" }},
		{"missing dsn", func(c *Config) { c.Database.Connection = "" }},
		{"missing api key", func(c *Config) { c.Ai.LLMAPIKey = "" }},
		{"unknown provider", func(c *Config) { c.Ai.LLMProvider = "gemini" }},
		{"zero llm timeout", func(c *Config) { c.Ai.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("ollama needs no key", func(t *testing.T) {
		cfg := valid()
		cfg.Ai.LLMProvider = "ollama"
		cfg.Ai.LLMAPIKey = ""
		assert.NoError(t, cfg.Validate())
	})
}
