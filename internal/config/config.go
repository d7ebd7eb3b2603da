package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/liliang-cn/askclinic/internal/domain"
)

// Store backends
const (
	StoreChromem = "chromem"
	StoreMilvus  = "milvus"
)

// Config holds all configuration for AskClinic
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Store     StoreConfig     `mapstructure:"store"`
	RAG       RAGConfig       `mapstructure:"rag"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	AllowOrigins []string      `mapstructure:"allow_origins"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AdminConfig holds admin authentication configuration
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DatabaseConfig holds the query audit database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// LLMConfig holds the hosted model provider configuration
type LLMConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	EmbedDimension int           `mapstructure:"embed_dimension"`
	ChatModel      string        `mapstructure:"chat_model"`
	Temperature    float32       `mapstructure:"temperature"`
	Timeout        time.Duration `mapstructure:"timeout"`
	BatchSize      int           `mapstructure:"batch_size"`
}

// StoreConfig holds vector store configuration
type StoreConfig struct {
	Backend    string        `mapstructure:"backend"`
	Path       string        `mapstructure:"path"`
	Collection string        `mapstructure:"collection"`
	Compress   bool          `mapstructure:"compress"`
	Milvus     MilvusConfig  `mapstructure:"milvus"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// MilvusConfig holds connection details for the milvus backend
type MilvusConfig struct {
	Address  string `mapstructure:"address"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// RAGConfig holds retrieval and chunking configuration
type RAGConfig struct {
	ChunkSize          int      `mapstructure:"chunk_size"`
	ChunkOverlap       int      `mapstructure:"chunk_overlap"`
	TopK               int      `mapstructure:"top_k"`
	ScoreThreshold     float32  `mapstructure:"score_threshold"`
	FallbackLanguage   string   `mapstructure:"fallback_language"`
	SupportedLanguages []string `mapstructure:"supported_languages"`
	// DetectorLowAccuracy and DetectorPreload tune the language detector.
	DetectorLowAccuracy bool `mapstructure:"detector_low_accuracy"`
	DetectorPreload     bool `mapstructure:"detector_preload"`
}

// IngestConfig holds the offline ingestion configuration
type IngestConfig struct {
	Timeout           time.Duration       `mapstructure:"timeout"`
	UserAgent         string              `mapstructure:"user_agent"`
	MinContentLength  int                 `mapstructure:"min_content_length"`
	Concurrency       int                 `mapstructure:"concurrency"`
	RequestsPerSecond float64             `mapstructure:"requests_per_second"`
	Sources           map[string][]string `mapstructure:"sources"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	RequestsPerHour int  `mapstructure:"requests_per_hour"`
	Burst           int  `mapstructure:"burst"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	// A missing .env is fine; the real environment still applies.
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ASKCLINIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
	}
	if len(cfg.Ingest.Sources) == 0 {
		cfg.Ingest.Sources = DefaultSources()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)

	v.SetDefault("admin.api_key", "")

	v.SetDefault("database.path", "./data/askclinic.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "./data/logs/chat.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.embedding_model", "gemini-embedding-001")
	v.SetDefault("llm.embed_dimension", 768)
	v.SetDefault("llm.chat_model", "gemini-2.5-flash")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.batch_size", 100)

	v.SetDefault("store.backend", StoreChromem)
	v.SetDefault("store.path", "./data/vectors")
	v.SetDefault("store.collection", "sava_clinic_knowledge_multilang")
	v.SetDefault("store.compress", false)
	v.SetDefault("store.timeout", 30*time.Second)
	v.SetDefault("store.milvus.address", "localhost:19530")
	v.SetDefault("store.milvus.database", "default")

	v.SetDefault("rag.chunk_size", 512)
	v.SetDefault("rag.chunk_overlap", 100)
	v.SetDefault("rag.top_k", 3)
	v.SetDefault("rag.score_threshold", 0.65)
	v.SetDefault("rag.fallback_language", domain.FallbackLanguage)
	v.SetDefault("rag.supported_languages", domain.SupportedCodes())
	v.SetDefault("rag.detector_low_accuracy", false)
	v.SetDefault("rag.detector_preload", true)

	v.SetDefault("ingest.timeout", 15*time.Second)
	v.SetDefault("ingest.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("ingest.min_content_length", 100)
	v.SetDefault("ingest.concurrency", 4)
	v.SetDefault("ingest.requests_per_second", 2.0)

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests_per_hour", 600)
	v.SetDefault("rate_limit.burst", 10)
}

// Validate checks the settings both entry points depend on.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.LLM.APIKey) == "" {
		errs = append(errs, errors.New("llm.api_key is required (or set GEMINI_API_KEY)"))
	}
	if c.LLM.BatchSize <= 0 {
		errs = append(errs, errors.New("llm.batch_size must be positive"))
	}

	switch c.Store.Backend {
	case StoreChromem:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for the chromem backend"))
		}
	case StoreMilvus:
		if c.Store.Milvus.Address == "" {
			errs = append(errs, errors.New("store.milvus.address is required for the milvus backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}
	if c.Store.Collection == "" {
		errs = append(errs, errors.New("store.collection is required"))
	}

	if c.RAG.ChunkSize <= 0 {
		errs = append(errs, errors.New("rag.chunk_size must be positive"))
	}
	if c.RAG.ChunkOverlap < 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		errs = append(errs, errors.New("rag.chunk_overlap must be in [0, chunk_size)"))
	}
	if c.RAG.TopK <= 0 {
		errs = append(errs, errors.New("rag.top_k must be positive"))
	}
	if c.RAG.ScoreThreshold < -1 || c.RAG.ScoreThreshold > 1 {
		errs = append(errs, errors.New("rag.score_threshold must be in [-1, 1]"))
	}
	if !slices.Contains(c.RAG.SupportedLanguages, c.RAG.FallbackLanguage) {
		errs = append(errs, fmt.Errorf("rag.fallback_language %q is not a supported language", c.RAG.FallbackLanguage))
	}
	for _, code := range c.RAG.SupportedLanguages {
		if _, ok := domain.LookupLanguage(code); !ok {
			errs = append(errs, fmt.Errorf("rag.supported_languages: %q is not in the language table", code))
		}
	}

	return errors.Join(errs...)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
