package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"supportbot/config"
	"supportbot/internal/adapter/cache"
	"supportbot/internal/adapter/embedding"
	"supportbot/internal/adapter/llm"
	"supportbot/internal/adapter/store"
	"supportbot/internal/port"
	"supportbot/internal/usecase"
)

// newLogger builds the process logger at the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newEmbedder constructs the configured embedding provider. The embedder
// is built once per command invocation and shared by every component that
// needs it.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		baseURL := cfg.Embedding.BaseURL
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		return embedding.NewOpenAICompatibleEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, baseURL)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// openStore constructs the configured vector store backend.
func openStore(cfg *config.Config, rootDir string, dimension int) (port.VectorStore, error) {
	switch cfg.Store.Provider {
	case "bolt":
		if err := config.EnsureDataDir(rootDir); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		path := cfg.Store.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootDir, path)
		}
		return store.NewBoltStore(path, cfg.Embedding.Model, dimension)
	case "chroma":
		return store.NewChromaStore(cfg.Store.URL, cfg.Store.Collection, cfg.Embedding.Model, dimension)
	case "memory":
		return store.NewMemoryStore(dimension), nil
	default:
		return nil, fmt.Errorf("unsupported store provider: %s", cfg.Store.Provider)
	}
}

// newChatClient constructs the chat-completion client. OpenRouter gets its
// attribution headers; any other OpenAI-compatible endpoint is used as-is.
func newChatClient(cfg *config.Config) *llm.Client {
	opts := llm.Options{
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
		Timeout:     time.Duration(cfg.Generation.TimeoutSecs) * time.Second,
	}
	if strings.Contains(cfg.Generation.BaseURL, "openrouter.ai") {
		return llm.NewOpenRouterClient(cfg.Generation.Model, cfg.Generation.APIKeyEnv, opts)
	}
	return llm.NewClient(cfg.Generation.BaseURL, cfg.Generation.Model, cfg.Generation.APIKeyEnv, opts)
}

// newService wires the full support pipeline. The returned closer releases
// the vector store.
func newService(cfg *config.Config, rootDir string) (*usecase.Service, func() error, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	vs, err := openStore(cfg, rootDir, embedder.Dimension())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	chat := newChatClient(cfg)
	passageCache := cache.NewPassageCache(cfg.Retrieve.CacheSize, time.Duration(cfg.Retrieve.CacheTTLSecs)*time.Second)

	retriever := usecase.NewRetriever(embedder, vs, passageCache, cfg.Retrieve.SnippetChars, nil)
	generator := usecase.NewGenerator(chat)
	classifier := usecase.NewClassifier(chat, nil)

	svc := usecase.NewService(classifier, retriever, generator, vs, cfg.Retrieve.TopK, nil)
	return svc, vs.Close, nil
}
