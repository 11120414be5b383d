package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Store.Collection != "customer_support_docs" {
		t.Errorf("expected collection=customer_support_docs, got %s", cfg.Store.Collection)
	}
	if cfg.Retrieve.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Generation.Temperature != 0.7 {
		t.Errorf("expected Temperature=0.7, got %f", cfg.Generation.Temperature)
	}
	if cfg.Generation.MaxTokens != 500 {
		t.Errorf("expected MaxTokens=500, got %d", cfg.Generation.MaxTokens)
	}
	if cfg.Retrieve.SnippetChars != 150 {
		t.Errorf("expected SnippetChars=150, got %d", cfg.Retrieve.SnippetChars)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "supportbot.yaml")

	content := `
retrieve:
  top_k: 5
  snippet_chars: 100
store:
  provider: chroma
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Retrieve.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Retrieve.SnippetChars != 100 {
		t.Errorf("expected SnippetChars=100, got %d", cfg.Retrieve.SnippetChars)
	}
	if cfg.Store.Provider != "chroma" {
		t.Errorf("expected provider=chroma, got %s", cfg.Store.Provider)
	}
	// Untouched sections keep their defaults.
	if cfg.Generation.Model != "openai/gpt-4o-mini" {
		t.Errorf("expected default generation model, got %s", cfg.Generation.Model)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "supportbot.yaml")

	if err := os.WriteFile(configPath, []byte("{invalid: yaml: ["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Provider != "bolt" {
		t.Errorf("expected defaults when no config present, got provider=%s", cfg.Store.Provider)
	}

	content := "server:\n  addr: \":9090\"\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "supportbot.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err = LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr=:9090, got %s", cfg.Server.Addr)
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "supportbot.yaml")

	cfg := DefaultConfig()
	cfg.Knowledge.Dir = "/srv/kb"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Knowledge.Dir != "/srv/kb" {
		t.Errorf("expected knowledge dir to round-trip, got %s", loaded.Knowledge.Dir)
	}
}
