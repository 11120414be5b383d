package embedding

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIEmbedderBatching(t *testing.T) {
	var batchSizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		batchSizes = append(batchSizes, len(req.Input))

		data := make([]embeddingData, len(req.Input))
		for i := range req.Input {
			data[i] = embeddingData{Embedding: []float32{1, 2, 3}, Index: i}
		}
		json.NewEncoder(w).Encode(embeddingResponse{Data: data})
	}))
	defer srv.Close()

	t.Setenv("TEST_EMBED_KEY", "test-key")
	e, err := NewOpenAICompatibleEmbedder("TEST_EMBED_KEY", "text-embedding-3-small", srv.URL)
	if err != nil {
		t.Fatalf("NewOpenAICompatibleEmbedder() error = %v", err)
	}

	texts := make([]string, 150)
	for i := range texts {
		texts[i] = "text"
	}

	embeddings, err := e.Embed(texts)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(embeddings) != 150 {
		t.Errorf("Embed() returned %d vectors, want 150", len(embeddings))
	}
	if len(batchSizes) != 2 || batchSizes[0] != 100 || batchSizes[1] != 50 {
		t.Errorf("batch sizes = %v, want [100 50]", batchSizes)
	}
}

func TestOpenAIEmbedderOrdering(t *testing.T) {
	// The API may return data out of order; Index restores it.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse{Data: []embeddingData{
			{Embedding: []float32{2}, Index: 1},
			{Embedding: []float32{1}, Index: 0},
		}})
	}))
	defer srv.Close()

	t.Setenv("TEST_EMBED_KEY", "test-key")
	e, err := NewOpenAICompatibleEmbedder("TEST_EMBED_KEY", "text-embedding-3-small", srv.URL)
	if err != nil {
		t.Fatalf("NewOpenAICompatibleEmbedder() error = %v", err)
	}

	embeddings, err := e.Embed([]string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if embeddings[0][0] != 1 || embeddings[1][0] != 2 {
		t.Errorf("embeddings not reordered by index: %v", embeddings)
	}
}

func TestOpenAIEmbedderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse{Error: &apiError{Message: "invalid model"}})
	}))
	defer srv.Close()

	t.Setenv("TEST_EMBED_KEY", "test-key")
	e, err := NewOpenAICompatibleEmbedder("TEST_EMBED_KEY", "text-embedding-3-small", srv.URL)
	if err != nil {
		t.Fatalf("NewOpenAICompatibleEmbedder() error = %v", err)
	}

	if _, err := e.Embed([]string{"x"}); err == nil {
		t.Error("Embed() should surface API errors")
	}
}

func TestOpenAIEmbedderMissingKey(t *testing.T) {
	if _, err := NewOpenAICompatibleEmbedder("SUPPORTBOT_UNSET_KEY_ENV", "m", "http://localhost"); err == nil {
		t.Error("missing API key should fail construction")
	}
}

func TestOpenAIEmbedderEmptyInput(t *testing.T) {
	t.Setenv("TEST_EMBED_KEY", "test-key")
	e, err := NewOpenAICompatibleEmbedder("TEST_EMBED_KEY", "text-embedding-3-small", "http://localhost")
	if err != nil {
		t.Fatalf("NewOpenAICompatibleEmbedder() error = %v", err)
	}

	embeddings, err := e.Embed(nil)
	if err != nil {
		t.Fatalf("Embed(nil) error = %v", err)
	}
	if embeddings != nil {
		t.Errorf("Embed(nil) = %v, want nil", embeddings)
	}
}

func TestOllamaEmbedderDimensions(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{"nomic-embed-text", 768},
		{"mxbai-embed-large", 1024},
		{"all-minilm", 384},
		{"something-else", 768},
	}

	for _, tt := range tests {
		e, err := NewOllamaEmbedder(tt.model, "")
		if err != nil {
			t.Fatalf("NewOllamaEmbedder(%s) error = %v", tt.model, err)
		}
		if e.Dimension() != tt.want {
			t.Errorf("Dimension(%s) = %d, want %d", tt.model, e.Dimension(), tt.want)
		}
	}
}

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(8)

	a, err := e.Embed([]string{"hello"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	b, err := e.Embed([]string{"hello"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("mock embeddings differ at %d: %f vs %f", i, a[0][i], b[0][i])
		}
	}

	if len(a[0]) != 8 {
		t.Errorf("vector length = %d, want 8", len(a[0]))
	}
	if e.ModelName() != "mock" {
		t.Errorf("ModelName() = %q, want mock", e.ModelName())
	}
}
