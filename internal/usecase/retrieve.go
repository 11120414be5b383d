package usecase

import (
	"context"
	"log/slog"
	"math"

	"supportbot/internal/adapter/cache"
	"supportbot/internal/domain"
	"supportbot/internal/port"
)

// DefaultTopK is the number of passages retrieved when the caller does not
// ask for a specific count.
const DefaultTopK = 3

// DefaultSnippetChars bounds the display preview of a retrieved passage.
const DefaultSnippetChars = 150

// Retriever embeds a query and finds the nearest knowledge-base documents.
// It never fails its caller: any internal fault is logged and reported as
// an empty result, which downstream code treats as "no grounding
// available".
type Retriever struct {
	embedder     port.Embedder
	store        port.VectorStore
	cache        *cache.PassageCache
	snippetChars int
	logger       *slog.Logger
}

// NewRetriever creates a retriever. cache may be nil to disable caching.
func NewRetriever(embedder port.Embedder, store port.VectorStore, passageCache *cache.PassageCache, snippetChars int, logger *slog.Logger) *Retriever {
	if snippetChars <= 0 {
		snippetChars = DefaultSnippetChars
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		embedder:     embedder,
		store:        store,
		cache:        passageCache,
		snippetChars: snippetChars,
		logger:       logger,
	}
}

// Retrieve returns up to k passages ranked by ascending cosine distance.
// k <= 0 selects the default.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) []domain.RetrievedPassage {
	if k <= 0 {
		k = DefaultTopK
	}

	if r.cache != nil {
		if passages, ok := r.cache.Get(query, k); ok {
			return passages
		}
	}

	embeddings, err := r.embedder.Embed([]string{query})
	if err != nil {
		r.logger.Warn("query embedding failed, returning no context", "error", err)
		return nil
	}
	if len(embeddings) == 0 {
		r.logger.Warn("embedder returned no vectors, returning no context")
		return nil
	}

	hits, err := r.store.Query(embeddings[0], k)
	if err != nil {
		r.logger.Warn("vector store query failed, returning no context", "error", err)
		return nil
	}

	passages := make([]domain.RetrievedPassage, 0, len(hits))
	for i, hit := range hits {
		source := hit.ID
		if s, ok := hit.Metadata["source"]; ok && s != "" {
			source = s
		}
		passages = append(passages, domain.RetrievedPassage{
			Rank:      i + 1,
			Source:    source,
			Snippet:   truncate(hit.Content, r.snippetChars),
			Content:   hit.Content,
			Relevance: relevanceScore(hit.Distance),
			Distance:  hit.Distance,
		})
	}

	if r.cache != nil {
		r.cache.Put(query, k, passages)
	}

	return passages
}

// relevanceScore converts a cosine distance into a 0..100 score.
// Cosine distance can drift slightly above 1 from floating-point noise;
// anything past 1 maps to 0 so the score never goes negative.
func relevanceScore(distance float64) float64 {
	if distance > 1 {
		return 0
	}
	return math.Round((1-distance)*100*100) / 100
}

// truncate shortens content to a display preview, marking the cut.
func truncate(content string, n int) string {
	if len(content) <= n {
		return content
	}
	return content[:n] + "..."
}
