// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.gschat/config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - Embeddings: provider and embedder model for vector retrieval
//   - Retrieval: mode preference, corpus caps, cache ttl, category weights
//   - History: conversation window and per-mode limits
//   - Storage: PostgreSQL connection (see storage.go)
//
// Security: sensitive data (passwords) is never logged; MarshalJSON and
// String mask secret fields explicitly.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidRetrievalMode indicates retrieval_mode is not auto/vector/keyword.
	ErrInvalidRetrievalMode = errors.New("invalid retrieval mode")

	// ErrInvalidMaxDocuments indicates a corpus cap is out of range.
	ErrInvalidMaxDocuments = errors.New("invalid max documents")

	// ErrInvalidContentCap indicates content_max_chars is out of range.
	ErrInvalidContentCap = errors.New("invalid content length cap")

	// ErrInvalidCacheTTL indicates cache_ttl_seconds is not positive.
	ErrInvalidCacheTTL = errors.New("invalid cache ttl")

	// ErrInvalidHistoryWindow indicates history_window_days is out of range.
	ErrInvalidHistoryWindow = errors.New("invalid history window")

	// ErrInvalidCategoryWeight indicates a category weight is negative.
	ErrInvalidCategoryWeight = errors.New("invalid category weight")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is empty.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidEmbedderModel indicates the embedder model is empty.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")
)

// Retrieval mode preference values for Config.RetrievalMode.
const (
	// RetrievalModeAuto defers mode selection to the resource probe.
	RetrievalModeAuto = "auto"

	// RetrievalModeVector forces vector similarity search.
	RetrievalModeVector = "vector"

	// RetrievalModeKeyword forces keyword scoring.
	RetrievalModeKeyword = "keyword"
)

const (
	// DefaultEmbedderModel is the OpenAI embedding model used for vector
	// retrieval. Embeddings are always OpenAI-compatible regardless of the
	// host application's generation provider.
	DefaultEmbedderModel = "text-embedding-3-small"

	// DefaultContentMaxChars bounds each fragment's content so retrieved
	// context stays within prompt budgets.
	DefaultContentMaxChars = 800

	// DefaultCacheTTLSeconds is how long a built corpus generation is served
	// before the next request triggers a rebuild.
	DefaultCacheTTLSeconds = 3600

	// DefaultMaxDocumentsFull caps the corpus in full (vector) mode.
	DefaultMaxDocumentsFull = 1000

	// DefaultMaxDocumentsLite caps the corpus in constrained (keyword) mode.
	DefaultMaxDocumentsLite = 50
)

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields, update MarshalJSON.
type Config struct {
	// Embedding provider configuration. Provider names the genkit plugin used
	// for embeddings; only OpenAI-compatible providers are supported because
	// the corpus and queries must share one embedding space.
	Provider      string `mapstructure:"provider" json:"provider"`
	EmbedderModel string `mapstructure:"embedder_model" json:"embedder_model"`

	// Retrieval configuration
	RetrievalMode    string             `mapstructure:"retrieval_mode" json:"retrieval_mode"` // "auto" (default), "vector", "keyword"
	MaxDocumentsFull int                `mapstructure:"max_documents_full" json:"max_documents_full"`
	MaxDocumentsLite int                `mapstructure:"max_documents_lite" json:"max_documents_lite"`
	ContentMaxChars  int                `mapstructure:"content_max_chars" json:"content_max_chars"`
	CacheTTLSeconds  int                `mapstructure:"cache_ttl_seconds" json:"cache_ttl_seconds"`
	CategoryWeights  map[string]float64 `mapstructure:"category_weights" json:"category_weights"`

	// Conversation history configuration
	HistoryWindowDays int `mapstructure:"history_window_days" json:"history_window_days"`
	HistoryLimitFull  int `mapstructure:"history_limit_full" json:"history_limit_full"`
	HistoryLimitLite  int `mapstructure:"history_limit_lite" json:"history_limit_lite"`

	// Source directories scanned by the code adapter (full mode only) and the
	// application directory read by the app-config adapter.
	AppPath  string   `mapstructure:"app_path" json:"app_path"`
	CodeDirs []string `mapstructure:"code_dirs" json:"code_dirs"`

	// Embedding call bounds
	EmbedTimeoutSeconds int     `mapstructure:"embed_timeout_seconds" json:"embed_timeout_seconds"`
	EmbedRatePerSecond  float64 `mapstructure:"embed_rate_per_second" json:"embed_rate_per_second"`

	// Storage configuration (see storage.go for DSN assembly)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE: masked in MarshalJSON
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".gschat")

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL, when set, overrides individual postgres_* settings
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("provider", "openai")
	viper.SetDefault("embedder_model", DefaultEmbedderModel)

	viper.SetDefault("retrieval_mode", RetrievalModeAuto)
	viper.SetDefault("max_documents_full", DefaultMaxDocumentsFull)
	viper.SetDefault("max_documents_lite", DefaultMaxDocumentsLite)
	viper.SetDefault("content_max_chars", DefaultContentMaxChars)
	viper.SetDefault("cache_ttl_seconds", DefaultCacheTTLSeconds)

	// Conversation fragments rank below authoritative sources on keyword ties
	viper.SetDefault("category_weights", map[string]float64{"conversation": 0.8})

	viper.SetDefault("history_window_days", 7)
	viper.SetDefault("history_limit_full", 50)
	viper.SetDefault("history_limit_lite", 10)

	viper.SetDefault("app_path", ".")
	viper.SetDefault("code_dirs", []string{"controllers", "internal"})

	viper.SetDefault("embed_timeout_seconds", 10)
	viper.SetDefault("embed_rate_per_second", 10.0)

	// PostgreSQL defaults (matching docker-compose.yml)
	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "gschat")
	viper.SetDefault("postgres_password", "gschat_dev_password")
	viper.SetDefault("postgres_db_name", "gschat")
	viper.SetDefault("postgres_ssl_mode", "disable")
}

// bindEnvVariables binds environment overrides explicitly.
// OPENAI_API_KEY is read directly by the genkit OpenAI plugin, not via viper.
func bindEnvVariables() {
	// Hardcoded keys can't fail to bind; a panic here is a bug, not a runtime error
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "GSCHAT_PROVIDER")
	mustBind("embedder_model", "GSCHAT_EMBEDDER_MODEL")
	mustBind("retrieval_mode", "GSCHAT_RETRIEVAL_MODE")
	mustBind("cache_ttl_seconds", "GSCHAT_CACHE_TTL")
	mustBind("app_path", "GSCHAT_APP_PATH")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks avoid accidental substring matches against real secrets.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging. Short secrets are fully
// masked; longer secrets keep the first and last two characters for debug
// utility. This defends against accidental logging, not compromised logs.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.PostgresPassword = maskSecret(a.PostgresPassword)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
