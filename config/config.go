package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the support bot.
type Config struct {
	Knowledge  KnowledgeConfig  `yaml:"knowledge"`
	Store      StoreConfig      `yaml:"store"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Retrieve   RetrieveConfig   `yaml:"retrieve"`
	Server     ServerConfig     `yaml:"server"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// KnowledgeConfig describes the knowledge-base corpus on disk.
type KnowledgeConfig struct {
	Dir      string   `yaml:"dir"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	// ClearFirst wipes the collection before indexing so a re-run cannot
	// leave stale or duplicate documents behind.
	ClearFirst bool `yaml:"clear_first"`
}

// StoreConfig selects and configures the vector store backend.
type StoreConfig struct {
	Provider   string `yaml:"provider"` // "bolt", "chroma", "memory"
	Path       string `yaml:"path"`     // bolt database file
	Collection string `yaml:"collection"`
	URL        string `yaml:"url"` // chroma server base URL
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "ollama", "mock"
	Model     string `yaml:"model"`       // e.g. "text-embedding-3-small"
	APIKeyEnv string `yaml:"api_key_env"` // environment variable for API key
	BaseURL   string `yaml:"base_url"`
	Dimension int    `yaml:"dimension"`
}

// GenerationConfig holds chat-completion configuration.
type GenerationConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK         int `yaml:"top_k"`
	SnippetChars int `yaml:"snippet_chars"`
	CacheSize    int `yaml:"cache_size"`
	CacheTTLSecs int `yaml:"cache_ttl_secs"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatasetConfig holds intent-dataset preprocessing configuration.
type DatasetConfig struct {
	Dir       string  `yaml:"dir"`
	OutputDir string  `yaml:"output_dir"`
	TestSize  float64 `yaml:"test_size"`
	Seed      int64   `yaml:"seed"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Knowledge: KnowledgeConfig{
			Dir:        "knowledge_base",
			Includes:   []string{"**/*.txt"},
			Excludes:   []string{},
			ClearFirst: true,
		},
		Store: StoreConfig{
			Provider:   "bolt",
			Path:       filepath.Join(".supportbot", "vectors.db"),
			Collection: "customer_support_docs",
			URL:        "http://localhost:8000",
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
		},
		Generation: GenerationConfig{
			BaseURL:     "https://openrouter.ai/api/v1",
			Model:       "openai/gpt-4o-mini",
			APIKeyEnv:   "OPENROUTER_API_KEY",
			Temperature: 0.7,
			MaxTokens:   500,
			TimeoutSecs: 60,
		},
		Retrieve: RetrieveConfig{
			TopK:         3,
			SnippetChars: 150,
			CacheSize:    100,
			CacheTTLSecs: 300,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Dataset: DatasetConfig{
			Dir:       filepath.Join("data", "intent"),
			OutputDir: "data_processed",
			TestSize:  0.2,
			Seed:      42,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for supportbot.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "supportbot.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".supportbot", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureDataDir ensures the .supportbot directory exists under dir.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".supportbot"), 0755)
}
