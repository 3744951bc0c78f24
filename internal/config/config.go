// Package config loads application configuration from a TOML file with
// secrets overlaid from the environment. A .env file in the working
// directory is honoured for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultWorkers   = 4
	DefaultChunker   = "fixed"
	DefaultEmbedder  = "ollama"
	DefaultIndex     = "memory"
	DefaultHTTPAddr  = ":8080"
	DefaultSearchTop = 10
)

// Config is the full application configuration.
type Config struct {
	// DataDir is where the SQLite database lives.
	// Empty means ~/.newsearch/data.
	DataDir string `toml:"data_dir"`

	// Workers bounds per-stage ingestion concurrency.
	Workers int `toml:"workers"`

	Chunking  ChunkingConfig  `toml:"chunking"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Vector    VectorConfig    `toml:"vector"`
	Providers ProvidersConfig `toml:"providers"`
	Server    ServerConfig    `toml:"server"`
	Events    EventsConfig    `toml:"events"`
}

// ChunkingConfig selects and tunes the chunking strategy.
type ChunkingConfig struct {
	// Strategy is "fixed" or "semantic".
	Strategy string `toml:"strategy"`

	// ChunkSize and Overlap apply to the fixed strategy, in characters.
	ChunkSize int `toml:"chunk_size"`
	Overlap   int `toml:"overlap"`

	// Percentile applies to the semantic strategy.
	Percentile float64 `toml:"percentile"`
}

// EmbeddingConfig selects the embedding backend.
type EmbeddingConfig struct {
	// Backend is "ollama" or "openai".
	Backend string `toml:"backend"`

	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`

	// APIKey comes from OPENAI_API_KEY when unset here.
	APIKey string `toml:"api_key"`
}

// VectorConfig selects the vector index backend.
type VectorConfig struct {
	// Backend is "memory" or "qdrant".
	Backend string `toml:"backend"`

	BaseURL    string `toml:"base_url"`
	Collection string `toml:"collection"`

	// APIKey comes from QDRANT_API_KEY when unset here.
	APIKey string `toml:"api_key"`
}

// ProvidersConfig configures article sources.
type ProvidersConfig struct {
	// NewsAPIKey comes from NEWS_API_KEY when unset here.
	NewsAPIKey string `toml:"newsapi_key"`

	// CoreAPIKey comes from CORE_API_KEY when unset here.
	CoreAPIKey string `toml:"coreapi_key"`

	// DropDir enables the filesystem provider when set.
	DropDir string `toml:"drop_dir"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`

	// AllowedOrigins configures CORS. Empty means same-origin only.
	AllowedOrigins []string `toml:"allowed_origins"`

	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// EventsConfig configures the optional Kafka publisher.
type EventsConfig struct {
	// Brokers enables event publishing when non-empty.
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// DefaultPath returns the default config file location,
// ~/.newsearch/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".newsearch", "config.toml"), nil
}

// Load reads configuration from the given TOML file. A missing file is not
// an error; defaults and environment values apply. Environment variables
// always win over file values for secrets.
func Load(path string) (*Config, error) {
	// Best-effort .env for local development
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Chunking.Strategy == "" {
		c.Chunking.Strategy = DefaultChunker
	}
	if c.Embedding.Backend == "" {
		c.Embedding.Backend = DefaultEmbedder
	}
	if c.Vector.Backend == "" {
		c.Vector.Backend = DefaultIndex
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultHTTPAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.Providers.NewsAPIKey = v
	}
	if v := os.Getenv("CORE_API_KEY"); v != "" {
		c.Providers.CoreAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv("QDRANT_API_KEY"); v != "" {
		c.Vector.APIKey = v
	}
}
