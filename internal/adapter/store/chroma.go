package store

import (
	"context"
	"encoding/json"
	"fmt"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"supportbot/internal/port"
)

// ChromaStore implements port.VectorStore against a ChromaDB server. The
// collection is created with cosine space and tagged with the embedding
// model so an index built under one model is not silently queried with
// another.
type ChromaStore struct {
	client     chromago.Client
	collection chromago.Collection
	dimension  int
}

// NewChromaStore connects to a ChromaDB server and gets or creates the
// named collection.
func NewChromaStore(url, collectionName, model string, dimension int) (*ChromaStore, error) {
	client, err := chromago.NewHTTPClient(chromago.WithBaseURL(url))
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	collection, err := client.GetOrCreateCollection(
		context.Background(),
		collectionName,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("hnsw:space", "cosine"),
				chromago.NewStringAttribute("embedding", model),
			),
		),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get or create collection %q: %w", collectionName, err)
	}

	return &ChromaStore{
		client:     client,
		collection: collection,
		dimension:  dimension,
	}, nil
}

func (s *ChromaStore) Upsert(items []port.Item) error {
	ctx := context.Background()

	for _, item := range items {
		if len(item.Vector) != s.dimension {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(item.Vector))
		}

		attrs := make([]*chromago.MetaAttribute, 0, len(item.Metadata))
		for k, v := range item.Metadata {
			attrs = append(attrs, chromago.NewStringAttribute(k, v))
		}

		err := s.collection.Upsert(ctx,
			chromago.WithIDs(chromago.DocumentID(item.ID)),
			chromago.WithTexts(item.Content),
			chromago.WithEmbeddings(embeddings.NewEmbeddingFromFloat32(item.Vector)),
			chromago.WithMetadatas(chromago.NewDocumentMetadata(attrs...)),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert %s: %w", item.ID, err)
		}
	}

	return nil
}

func (s *ChromaStore) Query(vector []float32, k int) ([]port.Hit, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(vector))
	}

	results, err := s.collection.Query(
		context.Background(),
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chromago.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	idGroups := results.GetIDGroups()
	docGroups := results.GetDocumentsGroups()
	metaGroups := results.GetMetadatasGroups()
	distGroups := results.GetDistancesGroups()

	if len(idGroups) == 0 {
		return nil, nil
	}

	hits := make([]port.Hit, 0, len(idGroups[0]))
	for i, id := range idGroups[0] {
		hit := port.Hit{ID: string(id)}
		if len(docGroups) > 0 && i < len(docGroups[0]) {
			hit.Content = docGroups[0][i].ContentString()
		}
		if len(distGroups) > 0 && i < len(distGroups[0]) {
			hit.Distance = float64(distGroups[0][i])
		}
		if len(metaGroups) > 0 && i < len(metaGroups[0]) {
			hit.Metadata = metadataToMap(metaGroups[0][i])
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

// Clear deletes all documents by ID, mirroring a full collection wipe.
func (s *ChromaStore) Clear() error {
	ctx := context.Background()

	results, err := s.collection.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collection: %w", err)
	}

	ids := results.GetIDs()
	if len(ids) == 0 {
		return nil
	}

	if err := s.collection.Delete(ctx, chromago.WithIDsDelete(ids...)); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}
	return nil
}

func (s *ChromaStore) Count() (int, error) {
	count, err := s.collection.Count(context.Background())
	if err != nil {
		return 0, fmt.Errorf("failed to count collection: %w", err)
	}
	return int(count), nil
}

func (s *ChromaStore) Close() error {
	return s.client.Close()
}

// metadataToMap converts chroma document metadata to a plain string map.
// DocumentMetadata exposes no direct map accessor; round-tripping through
// JSON is the supported conversion.
func metadataToMap(meta chromago.DocumentMetadata) map[string]string {
	if meta == nil {
		return nil
	}

	jsonBytes, err := json.Marshal(meta)
	if err != nil {
		return nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		return nil
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		} else {
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
