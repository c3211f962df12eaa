package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGoogleAI = "googleai"
	ProviderOllama   = "ollama"

	AnswerFormatBullets = "bullets"
	AnswerFormatJSON    = "json"
)

const (
	defaultChunkSize      = 1000
	defaultChunkOverlap   = 100
	defaultTopK           = 4
	defaultQuery          = "Based on this resume, suggest 3-4 suitable job roles with relevant skills."
	defaultInferenceModel = "gemini-1.5-flash"
	defaultTemperature    = 0.2
	defaultEmbeddingModel = "text-embedding-004"
	defaultOllamaURL      = "http://localhost:11434"
	defaultOllamaModel    = "nomic-embed-text"
	defaultSearchURL      = "https://serpapi.com"
	defaultSearchEngine   = "google"
	defaultSearchSite     = "linkedin.com"
	defaultMaxLinks       = 2
	defaultHTTPTimeout    = 60 * time.Second
	defaultListenAddr     = ":8080"
	defaultLogLevel       = "debug"
)

type Config struct {
	LLM      LLMConfig    `yaml:"llm"`
	EmbedLLM LLMConfig    `yaml:"embed_llm"`
	RAG      RAGConfig    `yaml:"rag"`
	Search   SearchConfig `yaml:"search"`
	Server   ServerConfig `yaml:"server"`
	Log      LogConfig    `yaml:"log"`
}

// LLMConfig describes one model endpoint. Key is only a fallback: callers
// pass the user's key explicitly.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Key         string  `yaml:"key"`
	Temperature float64 `yaml:"temperature"`
}

type RAGConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
	Query        string `yaml:"query"`
	AnswerFormat string `yaml:"answer_format"`
}

type SearchConfig struct {
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Engine   string        `yaml:"engine"`
	Site     string        `yaml:"site"`
	MaxLinks int           `yaml:"max_links"`
	Timeout  time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr"`
	MaxUploadSize int64  `yaml:"max_upload_size"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig reads the YAML file at path, applies defaults and then
// environment overrides. A missing file is not an error. Settings where zero
// is meaningful (chunk_overlap, temperature) keep an explicit 0 from the file.
func LoadConfig(path string) (*Config, error) {
	cfg := newConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		log.Debug().Str("path", path).Msg("Config file not found, using defaults")
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	dotenv, err := godotenv.Read()
	if err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg.applyDefaults()
	cfg.applyEnv(dotenv)

	return &cfg, nil
}

// newConfig returns a Config seeded with the defaults that zero cannot stand
// for, before the file is decoded over it.
func newConfig() Config {
	var cfg Config
	cfg.LLM.Temperature = defaultTemperature
	cfg.RAG.ChunkOverlap = defaultChunkOverlap
	return cfg
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderGoogleAI
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultInferenceModel
	}

	if c.EmbedLLM.Provider == "" {
		c.EmbedLLM.Provider = ProviderGoogleAI
	}
	if c.EmbedLLM.Model == "" {
		if c.EmbedLLM.Provider == ProviderOllama {
			c.EmbedLLM.Model = defaultOllamaModel
		} else {
			c.EmbedLLM.Model = defaultEmbeddingModel
		}
	}
	if c.EmbedLLM.Provider == ProviderOllama && c.EmbedLLM.BaseURL == "" {
		c.EmbedLLM.BaseURL = defaultOllamaURL
	}

	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = defaultChunkSize
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = defaultTopK
	}
	if c.RAG.Query == "" {
		c.RAG.Query = defaultQuery
	}
	if c.RAG.AnswerFormat == "" {
		c.RAG.AnswerFormat = AnswerFormatBullets
	}

	if c.Search.BaseURL == "" {
		c.Search.BaseURL = defaultSearchURL
	}
	if c.Search.Engine == "" {
		c.Search.Engine = defaultSearchEngine
	}
	if c.Search.Site == "" {
		c.Search.Site = defaultSearchSite
	}
	if c.Search.MaxLinks == 0 {
		c.Search.MaxLinks = defaultMaxLinks
	}
	if c.Search.Timeout == 0 {
		c.Search.Timeout = defaultHTTPTimeout
	}

	if c.Server.Addr == "" {
		c.Server.Addr = defaultListenAddr
	}
	if c.Server.MaxUploadSize == 0 {
		c.Server.MaxUploadSize = 10 << 20
	}

	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

// applyEnv overrides settings from the process environment, then from the
// .env values. The process environment is read, never written.
func (c *Config) applyEnv(dotenv map[string]string) {
	c.LLM.Key = getEnv(dotenv, "GEMINI_API_KEY", c.LLM.Key)
	c.LLM.Model = getEnv(dotenv, "GEMINI_MODEL", c.LLM.Model)
	c.Search.APIKey = getEnv(dotenv, "SERPAPI_API_KEY", c.Search.APIKey)
	c.Server.Addr = getEnv(dotenv, "LISTEN_ADDR", c.Server.Addr)
	c.Log.Level = getEnv(dotenv, "LOG_LEVEL", c.Log.Level)
	c.RAG.TopK = getEnvAsInt(dotenv, "RAG_TOP_K", c.RAG.TopK)
	if c.EmbedLLM.Provider == ProviderOllama {
		c.EmbedLLM.BaseURL = getEnv(dotenv, "OLLAMA_URL", c.EmbedLLM.BaseURL)
	}
}

// Validate checks the settings every run depends on.
func (c *Config) Validate() error {
	if c.Search.APIKey == "" {
		return errors.New("search api key is required (SERPAPI_API_KEY)")
	}
	if c.RAG.ChunkSize <= 0 {
		return fmt.Errorf("rag.chunk_size must be positive, got %d", c.RAG.ChunkSize)
	}
	if c.RAG.ChunkOverlap < 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("rag.chunk_overlap must be in [0, %d), got %d", c.RAG.ChunkSize, c.RAG.ChunkOverlap)
	}
	if c.RAG.TopK <= 0 {
		return fmt.Errorf("rag.top_k must be positive, got %d", c.RAG.TopK)
	}
	switch c.RAG.AnswerFormat {
	case AnswerFormatBullets, AnswerFormatJSON:
	default:
		return fmt.Errorf("unsupported rag.answer_format: %s", c.RAG.AnswerFormat)
	}
	switch c.EmbedLLM.Provider {
	case ProviderGoogleAI, ProviderOllama:
	default:
		return fmt.Errorf("unsupported embed_llm.provider: %s", c.EmbedLLM.Provider)
	}
	if c.LLM.Provider != ProviderGoogleAI {
		return fmt.Errorf("unsupported llm.provider: %s", c.LLM.Provider)
	}
	return nil
}

func getEnv(dotenv map[string]string, key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := dotenv[key]; value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(dotenv map[string]string, key string, defaultValue int) int {
	valueStr := getEnv(dotenv, key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Int("default", defaultValue).Msg("Invalid integer in environment, using default")
		return defaultValue
	}
	return value
}
