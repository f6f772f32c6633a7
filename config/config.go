package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Services  ServicesConfig  `mapstructure:"services"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Document  DocumentConfig  `mapstructure:"document"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// MatchingConfig holds matching thresholds and parallelism
type MatchingConfig struct {
	Strategy         string  `mapstructure:"strategy"` // "structured" or "vector"
	PartialThreshold float64 `mapstructure:"partial_threshold"`
	PerfectThreshold float64 `mapstructure:"perfect_threshold"`
	TopN             int     `mapstructure:"top_n"`
	Concurrency      int     `mapstructure:"concurrency"`
}

// ServicesConfig holds service detection configuration
type ServicesConfig struct {
	DetectionMode string `mapstructure:"detection_mode"` // "extracted", "document" or "combined"
}

// CatalogConfig points to an optional YAML inventory
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// LLMConfig holds language model configuration
type LLMConfig struct {
	Provider          string        `mapstructure:"provider"` // "openrouter" or "bedrock"
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	MaxDocumentChars  int           `mapstructure:"max_document_chars"`
}

// EmbeddingConfig holds embedding provider configuration
type EmbeddingConfig struct {
	Provider          string        `mapstructure:"provider"` // "openrouter", "bedrock" or "hash"
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	Dimension         int           `mapstructure:"dimension"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// DocumentConfig holds upload text extraction limits
type DocumentConfig struct {
	MaxPages int `mapstructure:"max_pages"`
}

// CacheConfig holds embedding cache configuration
type CacheConfig struct {
	Type       string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL   string        `mapstructure:"redis_url"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// AWSConfig holds shared AWS settings for Bedrock and DynamoDB
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// ArchiveConfig holds quote archive configuration
type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Table   string `mapstructure:"table"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tenderflow/")

	// TENDERFLOW_LLM_API_KEY -> llm.api_key
	v.SetEnvPrefix("TENDERFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory if present.
// Variables already set in the environment are not overridden.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// setDefaults sets default configuration values.
// Every key gets a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.max_upload_bytes", 20<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Matching defaults
	v.SetDefault("matching.strategy", "structured")
	v.SetDefault("matching.partial_threshold", 40)
	v.SetDefault("matching.perfect_threshold", 100)
	v.SetDefault("matching.top_n", 3)
	v.SetDefault("matching.concurrency", 4)

	v.SetDefault("services.detection_mode", "extracted")
	v.SetDefault("catalog.path", "")

	// LLM defaults
	v.SetDefault("llm.provider", "openrouter")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.model", "anthropic/claude-3-haiku")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.requests_per_second", 2)
	v.SetDefault("llm.max_document_chars", 100000)

	// Embedding defaults
	v.SetDefault("embedding.provider", "openrouter")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("embedding.model", "openai/text-embedding-3-small")
	v.SetDefault("embedding.dimension", 1536)
	v.SetDefault("embedding.timeout", "10s")
	v.SetDefault("embedding.requests_per_second", 10)

	v.SetDefault("document.max_pages", 200)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "720h") // 30 days
	v.SetDefault("cache.max_entries", 10000)

	v.SetDefault("ratelimit.per_ip", 60)

	// AWS defaults
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.table", "rfp_quotes")
}

// validate validates the configuration
func validate(config *Config) error {
	m := config.Matching
	if m.Strategy != "structured" && m.Strategy != "vector" {
		return fmt.Errorf("matching strategy must be 'structured' or 'vector', got: %s", m.Strategy)
	}
	if m.PartialThreshold < 0 || m.PerfectThreshold > 100 {
		return fmt.Errorf("matching thresholds must be within [0, 100]")
	}
	if m.PartialThreshold >= m.PerfectThreshold {
		return fmt.Errorf("partial threshold (%.0f) must be below perfect threshold (%.0f)",
			m.PartialThreshold, m.PerfectThreshold)
	}

	switch config.Services.DetectionMode {
	case "extracted", "document", "combined":
	default:
		return fmt.Errorf("service detection mode must be 'extracted', 'document' or 'combined', got: %s",
			config.Services.DetectionMode)
	}

	switch config.LLM.Provider {
	case "openrouter":
		if config.LLM.APIKey == "" {
			return fmt.Errorf("LLM API key is required (set TENDERFLOW_LLM_API_KEY)")
		}
	case "bedrock":
	default:
		return fmt.Errorf("llm provider must be 'openrouter' or 'bedrock', got: %s", config.LLM.Provider)
	}

	switch config.Embedding.Provider {
	case "openrouter":
		if m.Strategy == "vector" && config.Embedding.APIKey == "" {
			return fmt.Errorf("embedding API key is required for vector matching (set TENDERFLOW_EMBEDDING_API_KEY)")
		}
	case "bedrock", "hash":
	default:
		return fmt.Errorf("embedding provider must be 'openrouter', 'bedrock' or 'hash', got: %s", config.Embedding.Provider)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server max upload bytes must be positive")
	}

	return nil
}
