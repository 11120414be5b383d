package store

import (
	"fmt"
	"sort"
	"sync"

	"supportbot/internal/port"
)

// MemoryStore is an ephemeral port.VectorStore for tests and for serving
// without a persistence layer.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	vectors   map[string]vectorEntry
}

func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{
		dimension: dimension,
		vectors:   make(map[string]vectorEntry),
	}
}

func (s *MemoryStore) Upsert(items []port.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if len(item.Vector) != s.dimension {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(item.Vector))
		}
		s.vectors[item.ID] = vectorEntry{
			vector:   item.Vector,
			content:  item.Content,
			metadata: item.Metadata,
		}
	}
	return nil
}

func (s *MemoryStore) Query(query []float32, k int) ([]port.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}

	hits := make([]port.Hit, 0, len(s.vectors))
	for id, entry := range s.vectors {
		hits = append(hits, port.Hit{
			ID:       id,
			Distance: 1 - cosineSimilarity(query, entry.vector),
			Content:  entry.content,
			Metadata: entry.metadata,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = make(map[string]vectorEntry)
	return nil
}

func (s *MemoryStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
