package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Ai        AIConfig
	Storage   StorageConfig
	Scraper   ScraperConfig
	Retrieval RetrievalConfig
}

type AppConfig struct {
	Port               string
	PublicBaseURL      string
	Environment        string
	LogFilePath        string
	WsLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	TracingEnabled     bool
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	BodyLimitMB        int
}

type DatabaseConfig struct {
	Type         string // postgres, mysql, sqlite, sqlserver
	Connection   string
	MaxOpenConns int
	MaxIdleConns int
}

type AuthConfig struct {
	JWTSecret        string
	DownloadTokenTTL time.Duration
}

type AIConfig struct {
	LLMProvider   string // "openai" (any OpenAI-compatible endpoint) or "ollama"
	LLMModel      string
	LLMBaseURL    string
	LLMAPIKey     string
	OllamaBaseURL string
	Timeout       time.Duration
	Temperature   float64
	MaxTokens     int
	Referer       string // sent as HTTP-Referer to OpenRouter-style gateways
	AppTitle      string
}

type StorageConfig struct {
	UploadDir string
}

type ScraperConfig struct {
	Timeout   time.Duration
	UserAgent string
}

type RetrievalConfig struct {
	MatrixLimit   int
	MappingLimit  int
	PdfLimit      int
	SnippetLength int
	StatsCacheTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			PublicBaseURL:      getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "ws.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			TracingEnabled:     getEnvAsBool("TRACING_ENABLED", false),
			ReadTimeout:        getEnvAsSeconds("HTTP_READ_TIMEOUT_SECONDS", 30),
			WriteTimeout:       getEnvAsSeconds("HTTP_WRITE_TIMEOUT_SECONDS", 120),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 50),
		},
		Database: DatabaseConfig{
			Type:         strings.ToLower(getEnv("DB_TYPE", "postgres")),
			Connection:   getEnv("DB_CONNECTION_STRING", ""),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", ""),
			DownloadTokenTTL: getEnvAsSeconds("DOWNLOAD_TOKEN_TTL_SECONDS", 3600),
		},
		Ai: AIConfig{
			LLMProvider:   strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
			LLMModel:      getEnv("LLM_MODEL", "mistralai/mistral-7b-instruct"),
			LLMBaseURL:    getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
			LLMAPIKey:     getEnv("LLM_API_KEY", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Timeout:       getEnvAsSeconds("LLM_TIMEOUT_SECONDS", 60),
			Temperature:   getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:     getEnvAsInt("LLM_MAX_TOKENS", 1000),
			Referer:       getEnv("LLM_HTTP_REFERER", "https://code-agent.com"),
			AppTitle:      getEnv("LLM_APP_TITLE", "CODE Agent"),
		},
		Storage: StorageConfig{
			UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
		},
		Scraper: ScraperConfig{
			Timeout:   getEnvAsSeconds("SCRAPER_TIMEOUT_SECONDS", 30),
			UserAgent: getEnv("SCRAPER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		},
		Retrieval: RetrievalConfig{
			MatrixLimit:   getEnvAsInt("RETRIEVAL_MATRIX_LIMIT", 5),
			MappingLimit:  getEnvAsInt("RETRIEVAL_MAPPING_LIMIT", 3),
			PdfLimit:      getEnvAsInt("RETRIEVAL_PDF_LIMIT", 3),
			SnippetLength: getEnvAsInt("RETRIEVAL_SNIPPET_LENGTH", 500),
			StatsCacheTTL: getEnvAsSeconds("STATS_CACHE_TTL_SECONDS", 30),
		},
	}
}

// Validate reports configuration that would make the server unusable.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.Database.Type {
	case "postgres", "postgresql", "mysql", "mariadb", "sqlite", "sqlserver", "mssql":
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.Database.Type)
	}
	if c.Database.Connection == "" {
		return fmt.Errorf("DB_CONNECTION_STRING is required")
	}

	switch c.Ai.LLMProvider {
	case "openai", "openrouter":
		if c.Ai.LLMAPIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required for provider %q", c.Ai.LLMProvider)
		}
	case "ollama":
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.Ai.LLMProvider)
	}

	if c.Ai.Timeout <= 0 || c.Scraper.Timeout <= 0 {
		return fmt.Errorf("LLM and scraper timeouts must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Second
}
